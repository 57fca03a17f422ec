package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRegistry_RecordsCounters(t *testing.T) {
	r := New(nil)
	r.ElectionStarted("train-0")
	r.ElectionWon("train-0")
	r.ElectionLost("train-1", "silenced")
	r.MessageSent("ELEC")
	r.SemaphoreWait()
	r.ClientDelivered()

	if got := counterValue(t, r.electionsWon.WithLabelValues("train-0")); got != 1 {
		t.Errorf("expected 1 election won, got %v", got)
	}
	if got := counterValue(t, r.electionsLost.WithLabelValues("train-1", "silenced")); got != 1 {
		t.Errorf("expected 1 election lost, got %v", got)
	}
	if got := counterValue(t, r.semaphoreWaits); got != 1 {
		t.Errorf("expected 1 semaphore wait, got %v", got)
	}
}

func TestRegistry_NilIsNoOp(t *testing.T) {
	var r *Registry
	// Must not panic.
	r.ElectionStarted("train-0")
	r.ElectionWon("train-0")
	r.ElectionLost("train-0", "timeout_lost")
	r.MessageSent("LEADER")
	r.SemaphoreWait()
	r.ClientDelivered()
}
