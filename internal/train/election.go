package train

import (
	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
	"github.com/jabolina/go-trains/internal/protocol"
)

// inboxEntry is one queued raw message. The inbox is an unbounded FIFO: the
// train reads one message per tick from its front, per the
// FIFO-per-receiver ordering guarantee.
type inboxEntry struct {
	raw string
}

// Receive implements devices.Device's receive filter (§4.3): REQ and ELEC
// are broadcast semantics and are always enqueued; everything else is
// enqueued only if addressed to this train.
func (t *Train) Receive(raw string) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		t.log.Warnf("train %s: dropping malformed message: %v", t.id, err)
		return
	}

	switch msg.Type {
	case protocol.REQ, protocol.Elec:
		t.inbox = append(t.inbox, inboxEntry{raw: raw})
	default:
		if msg.Receiver == t.id {
			t.inbox = append(t.inbox, inboxEntry{raw: raw})
		}
	}
}

// processMessage consumes one already-decoded message per the election
// state machine (§4.4).
func (t *Train) processMessage(msg protocol.Message) {
	switch msg.Type {
	case protocol.REQ:
		t.handleReq(msg)
	case protocol.Elec:
		t.handleElec(msg)
	case protocol.ElecAck:
		t.handleElecAck(msg)
	case protocol.Leader:
		t.handleLeader(msg)
	}
}

// handleReq implements the "Ingress (REQ)" transition. The committed route
// covers this client end-to-end (arrival point -> pickup -> dropoff), so
// that the path the train later commits to is actually drivable: the
// glossary's Path is "the concatenation of the routes of accepted
// clients", one route per client, not one route per leg.
func (t *Train) handleReq(msg protocol.Message) {
	if t.mode == ModeOutOfOrder || t.pending != nil {
		return
	}

	toPickup, pickupLen, err := t.oracle.Route(t.expectedArrivalPoint(), msg.PickUp)
	if err != nil {
		// No-route-found: decline by not entering pending.
		return
	}
	toDropoff, dropoffLen, err := t.oracle.Route(msg.PickUp, msg.DropOff)
	if err != nil {
		return
	}

	route := append([]mapgraph.Point{}, toPickup...)
	switch {
	case len(toPickup) > 0 && len(toDropoff) > 0:
		// toDropoff's first vertex is the pickup, already the last
		// vertex of toPickup: skip it to avoid a duplicate stop.
		route = append(route, toDropoff[1:]...)
	case len(toPickup) == 0:
		route = append(route, toDropoff...)
	}
	length := pickupLen + dropoffLen

	t.pending = &pendingRequest{
		clientID: msg.ClientID,
		pickup:   msg.PickUp,
		dropoff:  msg.DropOff,
		route:    route,
		simpleD:  length,
	}
	t.sendReqAck(msg.ClientID)
}

// handleElec implements the "Election compare (incoming ELEC for same
// client)" transition, with the lower-id-wins tie-break this spec mandates
// over the original's unresolved dual-yield case.
func (t *Train) handleElec(msg protocol.Message) {
	if t.mode == ModeOutOfOrder || t.pending == nil || t.pending.clientID != msg.ClientID {
		return
	}

	dMe := t.pending.simpleD + t.fullPathDistance()
	dOther := msg.Distance

	wins := dMe < dOther || (dMe == dOther && t.id < msg.Sender)
	if wins {
		t.sendElecAck(msg.Sender, msg.ClientID)
		if !t.pending.inElections {
			t.broadcastElec()
		}
		return
	}

	t.loseElection(msg.ClientID, "compared")
}

// handleElecAck implements "Election ack (incoming ELEC_ACK for same
// client)": this train has been silenced.
func (t *Train) handleElecAck(msg protocol.Message) {
	if t.pending == nil || t.pending.clientID != msg.ClientID {
		return
	}
	t.loseElection(msg.ClientID, "silenced")
}

// handleLeader implements "Leader announcement": same effect as an
// ELEC_ACK loss.
func (t *Train) handleLeader(msg protocol.Message) {
	if t.pending == nil || t.pending.clientID != msg.ClientID {
		return
	}
	t.loseElection(msg.ClientID, "leader_announced")
}

func (t *Train) loseElection(clientID devices.ID, reason string) {
	t.lostFor = clientID
	t.haveLost = true
	t.pending = nil
	t.metrics.ElectionLost(string(t.id), reason)
}
