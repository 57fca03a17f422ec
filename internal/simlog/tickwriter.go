package simlog

import (
	"fmt"
	"io"
)

// DeviceSnapshot is the per-device detail a TickWriter records for one
// simulation step, mirroring Simulation.py's out_file.write structure:
// every device gets an id and a mode, trains additionally get their
// pending request, path and client queue, and any other device gets the
// train assigned to pick it up.
type DeviceSnapshot struct {
	ID            string
	Mode          string
	IsTrain       bool
	Pending       string
	Path          string
	ClientQueue   string
	AssignedTrain string // clients only
}

// TickWriter persists a per-tick text log, the "Persisted state" surface
// from the external interfaces section: no other persistence exists.
type TickWriter struct {
	w io.Writer
}

// NewTickWriter wraps an io.Writer (typically an opened log file) into a
// TickWriter.
func NewTickWriter(w io.Writer) *TickWriter {
	return &TickWriter{w: w}
}

// WriteTick appends one tick's worth of device snapshots.
func (t *TickWriter) WriteTick(step int, simTime float64, snapshots []DeviceSnapshot) error {
	if _, err := fmt.Fprintf(t.w, "Simulation step %d, timer %v\n", step, simTime); err != nil {
		return err
	}
	for _, s := range snapshots {
		if _, err := fmt.Fprintf(t.w, "\tDevice %s, mode %s\n", s.ID, s.Mode); err != nil {
			return err
		}
		if s.IsTrain {
			if _, err := fmt.Fprintf(t.w, "\t  Processing request %s\n", s.Pending); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(t.w, "\t  Path %s\n", s.Path); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(t.w, "\t  Clients list %s\n", s.ClientQueue); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(t.w, "\t  Train that will pick me up %s\n", s.AssignedTrain); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(t.w)
	return err
}
