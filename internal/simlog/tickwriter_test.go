package simlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestTickWriter_WriteTick(t *testing.T) {
	var buf bytes.Buffer
	w := NewTickWriter(&buf)

	err := w.WriteTick(3, 0.3, []DeviceSnapshot{
		{ID: "train-0", Mode: "busy", IsTrain: true, Pending: "{}", Path: "[]", ClientQueue: "[]"},
		{ID: "client-1", Mode: "pickup", AssignedTrain: "train-0"},
	})
	if err != nil {
		t.Fatalf("WriteTick: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Simulation step 3, timer 0.3",
		"Device train-0, mode busy",
		"Processing request {}",
		"Device client-1, mode pickup",
		"Train that will pick me up train-0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
