// Package network implements the in-process broadcast bus devices use to
// exchange protocol messages: reliable and immediate within range, silently
// dropped out of range. There is no point-to-point channel; direction is
// carried in the message's Receiver field and honored by receivers, not by
// the bus.
package network

import (
	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/metrics"
	"github.com/jabolina/go-trains/internal/simlog"
)

// Ranges configures how far a message travels depending on the sender's
// role. Trains have a larger range than clients, modeling a stronger radio.
type Ranges struct {
	Train  float64
	Client float64
}

// RangesFromMapSize derives the default ranges from the map's declared
// size, per original_source/Simulation.py: clientRange = mapSize * 0.5,
// trainRange = 3 * clientRange.
func RangesFromMapSize(mapSize float64) Ranges {
	client := mapSize * 0.5
	return Ranges{Train: 3 * client, Client: client}
}

// Bus is the shared in-process broadcast medium.
type Bus struct {
	registry *devices.Registry
	ranges   Ranges
	log      simlog.Logger
	metrics  *metrics.Registry
}

// New creates a Bus backed by registry, using ranges for per-role delivery
// filtering.
func New(registry *devices.Registry, ranges Ranges, log simlog.Logger, m *metrics.Registry) *Bus {
	if log == nil {
		log = simlog.NewNoop()
	}
	return &Bus{registry: registry, ranges: ranges, log: log, metrics: m}
}

func (b *Bus) rangeFor(role devices.Role) float64 {
	if role == devices.RoleTrain {
		return b.ranges.Train
	}
	return b.ranges.Client
}

// Broadcast delivers raw to every registered device other than sender
// whose distance to the sender is within the sender's configured range.
// Delivery is immediate: by the time Broadcast returns, every in-range
// peer's Receive has already run.
func (b *Bus) Broadcast(raw string, sender devices.Device, msgType string) {
	b.metrics.MessageSent(msgType)

	limit := b.rangeFor(sender.Role())
	for _, d := range b.registry.All() {
		if d.ID() == sender.ID() {
			continue
		}
		if sender.Position().Distance(d.Position()) > limit {
			continue
		}
		d.Receive(raw)
	}
}
