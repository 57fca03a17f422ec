// Package config holds the driver's tunables: map location, fleet size,
// client arrival rate, and the stopping rule. The struct and its defaults
// are tested standalone, independent of the CLI surface that populates it
// from flags, environment and config file via viper (cmd/trainsim).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values, matching original_source/Simulation.py's constants
// exactly so a run without overrides reproduces the original's behavior.
const (
	DefaultTrainCount        = 3
	DefaultClientFrequency   = 25
	DefaultDeliveredStopping = 10
	DefaultStepsPerSecond    = 10
)

// DriverConfig is the complete set of knobs the outer driver loop (out of
// scope) reads to build a Simulation. Every field here is validated
// independent of how it was populated.
type DriverConfig struct {
	// MapDir is the directory holding the three CSV files mapgraph.Load expects.
	MapDir string

	// TrainCount is the number of trains spawned at simulation start.
	TrainCount int

	// ClientFrequency is the denominator in the per-tick spawn draw:
	// each tick, a client is spawned iff rand(1,100) % ClientFrequency == 0.
	ClientFrequency int

	// TotalSteps stops the simulation after a fixed tick count if > 0;
	// otherwise DeliveredStopping governs.
	TotalSteps int

	// DeliveredStopping stops the simulation once this many clients have
	// completed dropoff, when TotalSteps is unset.
	DeliveredStopping int

	// StepsPerSecond is the step-to-second ratio (ticks per simulated
	// second). It is validated here; the driver loop in cmd/trainsim does
	// not read it and runs its ticks unpaced.
	StepsPerSecond int
}

// Default returns a DriverConfig with every field set to its documented
// default, requiring only MapDir to be filled in by the caller.
func Default() DriverConfig {
	return DriverConfig{
		TrainCount:        DefaultTrainCount,
		ClientFrequency:   DefaultClientFrequency,
		DeliveredStopping: DefaultDeliveredStopping,
		StepsPerSecond:    DefaultStepsPerSecond,
	}
}

// FromViper populates a DriverConfig from v, falling back to Default's
// values for anything v has no binding for. Keys mirror the field names,
// lower-cased and dot-free: "map-dir", "train-count", "client-frequency",
// "total-steps", "delivered-stopping", "steps-per-second".
func FromViper(v *viper.Viper) DriverConfig {
	cfg := Default()
	cfg.MapDir = v.GetString("map-dir")
	if n := v.GetInt("train-count"); n != 0 {
		cfg.TrainCount = n
	}
	if n := v.GetInt("client-frequency"); n != 0 {
		cfg.ClientFrequency = n
	}
	cfg.TotalSteps = v.GetInt("total-steps")
	if n := v.GetInt("delivered-stopping"); n != 0 {
		cfg.DeliveredStopping = n
	}
	if n := v.GetInt("steps-per-second"); n != 0 {
		cfg.StepsPerSecond = n
	}
	return cfg
}

// Validate reports the first invariant violation found, or nil.
func (c DriverConfig) Validate() error {
	if c.MapDir == "" {
		return fmt.Errorf("config: map-dir is required")
	}
	if c.TrainCount <= 0 {
		return fmt.Errorf("config: train-count must be positive, got %d", c.TrainCount)
	}
	if c.ClientFrequency <= 0 {
		return fmt.Errorf("config: client-frequency must be positive, got %d", c.ClientFrequency)
	}
	if c.TotalSteps < 0 {
		return fmt.Errorf("config: total-steps must not be negative, got %d", c.TotalSteps)
	}
	if c.DeliveredStopping <= 0 && c.TotalSteps == 0 {
		return fmt.Errorf("config: either total-steps or delivered-stopping must be set")
	}
	if c.StepsPerSecond <= 0 {
		return fmt.Errorf("config: steps-per-second must be positive, got %d", c.StepsPerSecond)
	}
	return nil
}

// Done reports whether the stopping rule this config describes has been
// satisfied: a fixed step budget if TotalSteps > 0, otherwise a delivered-
// client count.
func (c DriverConfig) Done(currentStep, deliveredCount int) bool {
	if c.TotalSteps > 0 {
		return currentStep >= c.TotalSteps
	}
	return deliveredCount >= c.DeliveredStopping
}
