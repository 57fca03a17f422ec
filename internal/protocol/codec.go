package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jabolina/go-trains/internal/devices"
)

func deviceID(s string) devices.ID {
	return devices.ID(s)
}

// ErrMalformedMessage is returned by Decode when the raw text cannot be
// parsed into a valid Message. The network model treats this as a dropped
// message at the receiver, never a propagated failure.
var ErrMalformedMessage = errors.New("protocol: malformed message")

// wireMessage mirrors Message but with string-keyed, self-describing JSON
// tags, the same self-delimiting textual form used to move messages over
// the transport boundary via json.Marshal.
type wireMessage struct {
	Type     Type       `json:"type"`
	Sender   string     `json:"sender"`
	Receiver string     `json:"receiver,omitempty"`
	ClientID string     `json:"clientID,omitempty"`
	PickUp   *wirePoint `json:"pickUp,omitempty"`
	DropOff  *wirePoint `json:"dropOff,omitempty"`
	Distance *float64   `json:"distance,omitempty"`
}

type wirePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Encode produces a self-delimiting textual form of m.
func (m Message) Encode() string {
	w := wireMessage{
		Type:     m.Type,
		Sender:   string(m.Sender),
		Receiver: string(m.Receiver),
		ClientID: string(m.ClientID),
	}
	switch m.Type {
	case REQ:
		w.PickUp = &wirePoint{X: m.PickUp.X, Y: m.PickUp.Y}
		w.DropOff = &wirePoint{X: m.DropOff.X, Y: m.DropOff.Y}
	case Elec:
		d := m.Distance
		w.Distance = &d
	}

	raw, err := json.Marshal(w)
	if err != nil {
		// Message only ever holds marshalable fields; a failure here means
		// a programming error, not a runtime condition to recover from.
		panic(fmt.Sprintf("protocol: failed encoding message: %v", err))
	}
	return string(raw)
}

// Decode reconstructs a Message from its textual form, rejecting malformed
// input instead of returning a partially populated record.
func Decode(raw string) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	if err := validate(w); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	m := Message{
		Type:     w.Type,
		Sender:   deviceID(w.Sender),
		Receiver: deviceID(w.Receiver),
		ClientID: deviceID(w.ClientID),
	}
	if w.PickUp != nil {
		m.PickUp.X, m.PickUp.Y = w.PickUp.X, w.PickUp.Y
	}
	if w.DropOff != nil {
		m.DropOff.X, m.DropOff.Y = w.DropOff.X, w.DropOff.Y
	}
	if w.Distance != nil {
		m.Distance = *w.Distance
	}
	return m, nil
}

func validate(w wireMessage) error {
	if w.Sender == "" {
		return errors.New("missing sender")
	}
	switch w.Type {
	case REQ:
		if w.ClientID == "" || w.PickUp == nil || w.DropOff == nil {
			return errors.New("REQ requires clientID, pickUp and dropOff")
		}
	case REQAck, ReqAns:
		if w.ClientID == "" || w.Receiver == "" {
			return errors.New("REQ_ACK/REQ_ANS require clientID and receiver")
		}
	case Elec:
		if w.ClientID == "" || w.Distance == nil {
			return errors.New("ELEC requires clientID and distance")
		}
	case ElecAck:
		if w.ClientID == "" || w.Receiver == "" {
			return errors.New("ELEC_ACK requires clientID and receiver")
		}
	case Leader:
		if w.ClientID == "" {
			return errors.New("LEADER requires clientID")
		}
	default:
		return fmt.Errorf("unknown message type %q", w.Type)
	}
	return nil
}
