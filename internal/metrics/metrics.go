// Package metrics instruments the fleet with prometheus collectors,
// injected into devices the same way simlog.Logger is: by constructor, with
// a nil-safe no-op fallback for tests that don't care about metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every collector the fleet touches. A nil *Registry is
// valid and every method becomes a no-op, so devices can be built in tests
// without wiring prometheus at all.
type Registry struct {
	reg              *prometheus.Registry
	electionsStarted *prometheus.CounterVec
	electionsWon     *prometheus.CounterVec
	electionsLost    *prometheus.CounterVec
	messagesSent     *prometheus.CounterVec
	semaphoreWaits   prometheus.Counter
	clientsDelivered prometheus.Counter
}

// Prometheus returns the underlying prometheus.Registry, for wiring into
// an HTTP scrape endpoint (see Serve). Returns nil if r is nil.
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// New registers and returns a Registry against reg. Passing nil creates a
// fresh, unregistered prometheus.Registry suitable for tests.
func New(reg *prometheus.Registry) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Registry{
		reg: reg,
		electionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trains",
			Name:      "elections_started_total",
			Help:      "Number of elections a train has broadcast an ELEC for.",
		}, []string{"train"}),
		electionsWon: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trains",
			Name:      "elections_won_total",
			Help:      "Number of elections a train has won.",
		}, []string{"train"}),
		electionsLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trains",
			Name:      "elections_lost_total",
			Help:      "Number of elections a train has lost, by reason.",
		}, []string{"train", "reason"}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trains",
			Name:      "messages_sent_total",
			Help:      "Number of protocol messages broadcast, by type.",
		}, []string{"type"}),
		semaphoreWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trains",
			Name:      "semaphore_wait_ticks_total",
			Help:      "Number of ticks any train spent stationary waiting on an occupied edge.",
		}),
		clientsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trains",
			Name:      "clients_delivered_total",
			Help:      "Number of clients that reached dropoff.",
		}),
	}

	reg.MustRegister(
		r.electionsStarted,
		r.electionsWon,
		r.electionsLost,
		r.messagesSent,
		r.semaphoreWaits,
		r.clientsDelivered,
	)
	return r
}

// ElectionStarted records a train broadcasting ELEC for a new client.
func (r *Registry) ElectionStarted(train string) {
	if r == nil {
		return
	}
	r.electionsStarted.WithLabelValues(train).Inc()
}

// ElectionWon records a train winning an election.
func (r *Registry) ElectionWon(train string) {
	if r == nil {
		return
	}
	r.electionsWon.WithLabelValues(train).Inc()
}

// ElectionLost records a train losing an election, tagged with why.
func (r *Registry) ElectionLost(train, reason string) {
	if r == nil {
		return
	}
	r.electionsLost.WithLabelValues(train, reason).Inc()
}

// MessageSent records a protocol message being broadcast.
func (r *Registry) MessageSent(msgType string) {
	if r == nil {
		return
	}
	r.messagesSent.WithLabelValues(msgType).Inc()
}

// SemaphoreWait records one tick spent stationary on an occupied edge.
func (r *Registry) SemaphoreWait() {
	if r == nil {
		return
	}
	r.semaphoreWaits.Inc()
}

// ClientDelivered records a client reaching dropoff.
func (r *Registry) ClientDelivered() {
	if r == nil {
		return
	}
	r.clientsDelivered.Inc()
}
