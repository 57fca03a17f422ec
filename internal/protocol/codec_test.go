package protocol

import (
	"testing"

	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
)

func TestCodec_RoundTrip(t *testing.T) {
	cases := []Message{
		{
			Type:     REQ,
			Sender:   devices.ID("client-1"),
			ClientID: devices.ID("client-1"),
			PickUp:   mapgraph.Point{X: 1, Y: 2},
			DropOff:  mapgraph.Point{X: 3, Y: 4},
		},
		{
			Type:     REQAck,
			Sender:   devices.ID("train-0"),
			Receiver: devices.ID("client-1"),
			ClientID: devices.ID("client-1"),
		},
		{
			Type:     Elec,
			Sender:   devices.ID("train-0"),
			ClientID: devices.ID("client-1"),
			Distance: 17.5,
		},
		{
			Type:     ElecAck,
			Sender:   devices.ID("train-0"),
			Receiver: devices.ID("train-1"),
			ClientID: devices.ID("client-1"),
		},
		{
			Type:     Leader,
			Sender:   devices.ID("train-0"),
			ClientID: devices.ID("client-1"),
		},
		{
			Type:     ReqAns,
			Sender:   devices.ID("train-0"),
			Receiver: devices.ID("client-1"),
			ClientID: devices.ID("client-1"),
		},
	}

	for _, m := range cases {
		raw := m.Encode()
		got, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", raw, err)
		}
		if got != m {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
		}
	}
}

func TestDecode_RejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not json",
		`{"type":"REQ","sender":"client-1"}`,
		`{"type":"BOGUS","sender":"client-1"}`,
	}
	for _, raw := range cases {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) should have failed", raw)
		}
	}
}
