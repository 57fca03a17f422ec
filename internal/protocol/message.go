// Package protocol defines the wire message type exchanged over the
// network bus and its round-trip codec.
package protocol

import (
	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
)

// Type tags the kind of message carried by a Message.
type Type string

const (
	// REQ is a client's ride request, broadcast to every in-range train.
	REQ Type = "REQ"
	// REQAck acknowledges a REQ was heard and is being processed.
	REQAck Type = "REQ_ACK"
	// Elec starts or continues the distance-bully election for a client.
	Elec Type = "ELEC"
	// ElecAck silences a losing train in an election.
	ElecAck Type = "ELEC_ACK"
	// Leader announces the election winner to the other trains.
	Leader Type = "LEADER"
	// ReqAns tells the client which train won its request.
	ReqAns Type = "REQ_ANS"
)

// Message is the tagged record exchanged between devices. Payload fields
// are populated according to Type; see package protocol's Encode/Decode for
// the wire form.
type Message struct {
	Type     Type
	Sender   devices.ID
	Receiver devices.ID // empty for broadcast-only types (REQ, ELEC, LEADER)

	ClientID devices.ID

	// REQ payload.
	PickUp  mapgraph.Point
	DropOff mapgraph.Point

	// ELEC payload.
	Distance float64
}
