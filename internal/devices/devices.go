// Package devices defines the shared device identity and the registry the
// simulation driver steps every tick. Clients and trains reference each
// other by ID only, never by direct ownership; lookups always go through
// this registry.
package devices

import (
	"fmt"
	"sync"

	"github.com/jabolina/go-trains/internal/mapgraph"
)

// ID identifies any device in the fleet: a train or a client. Ids are
// compared as plain strings, which is how the lower-id-wins election
// tie-break is resolved.
type ID string

// Role distinguishes a train from a client for the purposes of broadcast
// range configuration.
type Role int

const (
	RoleTrain Role = iota
	RoleClient
)

// Device is anything the driver can step and the network bus can deliver
// messages to.
type Device interface {
	ID() ID
	Role() Role
	Position() mapgraph.Point
	Receive(raw string)
	Step()
}

// Registry owns the set of currently active devices and steps them in a
// stable order every tick: registration order.
type Registry struct {
	mu      sync.Mutex
	order   []ID
	devices map[ID]Device
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[ID]Device)}
}

// Register adds a device to the registry. It is an error to register the
// same id twice, since trains and clients share one id space.
func (r *Registry) Register(d Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[d.ID()]; exists {
		return fmt.Errorf("devices: id %q already registered", d.ID())
	}
	r.devices[d.ID()] = d
	r.order = append(r.order, d.ID())
	return nil
}

// Remove drops a device from the registry, e.g. a client's grace-period
// expiry or a train's self-termination on an outOfOrder arrival.
func (r *Registry) Remove(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.devices, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns every registered device, in registration order.
func (r *Registry) All() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Device, 0, len(r.order))
	for _, id := range r.order {
		if d, ok := r.devices[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the device registered under id, if any.
func (r *Registry) Lookup(id ID) (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	return d, ok
}

// Step invokes Step() on every registered device once, in the stable
// registration order the driver contract requires.
func (r *Registry) Step() {
	for _, d := range r.All() {
		d.Step()
	}
}
