// Package client implements the passenger agent: it requests a ride,
// waits for acknowledgement and a leader, tracks boarding and dropoff by
// position equality with its assigned train, and retires after a grace
// period.
package client

import (
	"math/rand"

	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
	"github.com/jabolina/go-trains/internal/metrics"
	"github.com/jabolina/go-trains/internal/network"
	"github.com/jabolina/go-trains/internal/protocol"
	"github.com/jabolina/go-trains/internal/simlog"
)

// Mode is the client's lifecycle stage.
type Mode int

const (
	ModeCall Mode = iota
	ModePickup
	ModeOnboard
	ModeDropoff
)

func (m Mode) String() string {
	switch m {
	case ModeCall:
		return "call"
	case ModePickup:
		return "pickup"
	case ModeOnboard:
		return "onboard"
	case ModeDropoff:
		return "dropoff"
	default:
		return "unknown"
	}
}

// requestRetryTicks is how often, while in ModeCall and unacknowledged, the
// client re-broadcasts its REQ. Not specified exactly by the distilled
// spec ("periodically"); picked as a small fixed countdown since the
// original source's retry loop was never cleanly isolated into a constant.
const requestRetryTicks = 5

// dropoffGraceTicks is how many ticks a client lingers in ModeDropoff
// before being removed, letting trailing messages drain. Matches
// original_source/Simulation.py's outingClients[client] >= 10 threshold.
const dropoffGraceTicks = 10

// Client is a single passenger agent.
type Client struct {
	id   devices.ID
	pos  mapgraph.Point
	dest mapgraph.Point

	mode          Mode
	assignedTrain devices.ID
	haveAssigned  bool

	acked           bool
	retryCountdown  int
	dropoffElapsed  int

	bus      *network.Bus
	registry *devices.Registry
	log      simlog.Logger
	metrics  *metrics.Registry

	trainPositionFn func(devices.ID) (mapgraph.Point, bool)
}

// Config bundles a Client's collaborators.
type Config struct {
	ID       devices.ID
	Pos      mapgraph.Point
	Dest     mapgraph.Point
	Bus      *network.Bus
	Registry *devices.Registry
	Log      simlog.Logger
	Metrics  *metrics.Registry

	// TrainPositionFn resolves a train's current reported position, used
	// to detect boarding/dropoff by position equality since the protocol
	// carries no explicit boarding notification (see spec's documented
	// ambiguity).
	TrainPositionFn func(devices.ID) (mapgraph.Point, bool)
}

// New constructs a Client in ModeCall and immediately broadcasts its first
// REQ, per "Publishes a REQ (broadcast) on creation".
func New(cfg Config) *Client {
	log := cfg.Log
	if log == nil {
		log = simlog.NewNoop()
	}
	c := &Client{
		id:              cfg.ID,
		pos:             cfg.Pos,
		dest:            cfg.Dest,
		mode:            ModeCall,
		bus:             cfg.Bus,
		registry:        cfg.Registry,
		log:             log,
		metrics:         cfg.Metrics,
		trainPositionFn: cfg.TrainPositionFn,
		retryCountdown:  requestRetryTicks,
	}
	c.sendRequest()
	return c
}

func (c *Client) ID() devices.ID           { return c.id }
func (c *Client) Role() devices.Role       { return devices.RoleClient }
func (c *Client) Position() mapgraph.Point { return c.pos }
func (c *Client) Mode() Mode               { return c.mode }
func (c *Client) AssignedTrain() (devices.ID, bool) {
	return c.assignedTrain, c.haveAssigned
}

func (c *Client) sendRequest() {
	msg := protocol.Message{
		Type:     protocol.REQ,
		Sender:   c.id,
		ClientID: c.id,
		PickUp:   c.pos,
		DropOff:  c.dest,
	}
	c.bus.Broadcast(msg.Encode(), c, string(protocol.REQ))
}

// Receive implements devices.Device. The client only acts on REQ_ACK and
// REQ_ANS addressed to it; the bus also delivers in-range traffic between
// trains and other clients' requests, which is ignored here.
func (c *Client) Receive(raw string) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		c.log.Warnf("client %s: dropping malformed message: %v", c.id, err)
		return
	}
	if msg.Receiver != c.id || msg.ClientID != c.id {
		return
	}

	switch msg.Type {
	case protocol.REQAck:
		c.acked = true
	case protocol.ReqAns:
		c.assignedTrain = msg.Sender
		c.haveAssigned = true
		c.mode = ModePickup
	}
}

// Step advances the client's state machine by one tick.
func (c *Client) Step() {
	switch c.mode {
	case ModeCall:
		if c.acked {
			return
		}
		c.retryCountdown--
		if c.retryCountdown <= 0 {
			c.sendRequest()
			c.retryCountdown = requestRetryTicks
		}
	case ModePickup:
		if pos, ok := c.trainAt(); ok && pos.Equal(c.pos) {
			c.mode = ModeOnboard
		}
	case ModeOnboard:
		if pos, ok := c.trainAt(); ok && pos.Equal(c.dest) {
			c.mode = ModeDropoff
			c.metrics.ClientDelivered()
		}
	case ModeDropoff:
		c.dropoffElapsed++
		if c.dropoffElapsed >= dropoffGraceTicks {
			c.registry.Remove(c.id)
		}
	}
}

func (c *Client) trainAt() (mapgraph.Point, bool) {
	if !c.haveAssigned || c.trainPositionFn == nil {
		return mapgraph.Point{}, false
	}
	return c.trainPositionFn(c.assignedTrain)
}

// ShouldSpawn implements original_source/Simulation.py's stochastic
// client-arrival rule: draw r in [1,100], spawn iff r % freq == 0.
func ShouldSpawn(freq int, rng *rand.Rand) bool {
	if freq <= 0 {
		return false
	}
	r := rng.Intn(100) + 1
	return r%freq == 0
}
