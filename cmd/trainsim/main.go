// Command trainsim wires a DriverConfig, a Map, the fleet's shared
// collaborators (semaphore, bus, routing oracle, metrics) and runs the
// step loop until the configured stopping rule is met. The loop itself is
// a thin shim: the interesting behavior lives in the internal packages it
// assembles.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jabolina/go-trains/internal/client"
	"github.com/jabolina/go-trains/internal/config"
	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
	"github.com/jabolina/go-trains/internal/metrics"
	"github.com/jabolina/go-trains/internal/network"
	"github.com/jabolina/go-trains/internal/routing"
	"github.com/jabolina/go-trains/internal/semaphore"
	"github.com/jabolina/go-trains/internal/simlog"
	"github.com/jabolina/go-trains/internal/train"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "trainsim",
	Short: "Runs the cooperative train/client dispatch simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromViper(v)
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cfg)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("map-dir", "", "directory holding the three map CSV files (required)")
	rootCmd.PersistentFlags().Int("train-count", config.DefaultTrainCount, "number of trains to spawn")
	rootCmd.PersistentFlags().Int("client-frequency", config.DefaultClientFrequency, "1-in-N per-tick chance of a client arriving")
	rootCmd.PersistentFlags().Int("total-steps", 0, "stop after this many ticks (0 disables, falls back to delivered-stopping)")
	rootCmd.PersistentFlags().Int("delivered-stopping", config.DefaultDeliveredStopping, "stop once this many clients have been delivered")
	rootCmd.PersistentFlags().Int("steps-per-second", config.DefaultStepsPerSecond, "ticks per simulated second")
	rootCmd.PersistentFlags().String("metrics-addr", "", "address to serve /metrics on (empty disables the endpoint)")
	v.BindPFlags(rootCmd.PersistentFlags())
}

func run(cfg config.DriverConfig) error {
	m, info, err := mapgraph.Load(cfg.MapDir)
	if err != nil {
		return fmt.Errorf("loading map: %w", err)
	}

	runID := uuid.New().String()
	log := simlog.With(simlog.NewDefaultLogger(), map[string]interface{}{"run": runID})
	metricsRegistry := metrics.New(nil)
	sem := semaphore.New(m.EdgeKeys())
	registry := devices.NewRegistry()
	ranges := network.RangesFromMapSize(info.MapSize)
	bus := network.New(registry, ranges, log, metricsRegistry)
	oracle := routing.NewDijkstra(m)
	rng := rand.New(rand.NewSource(1))

	edgeKeyFor := func(from, to mapgraph.Point) (mapgraph.EdgeKey, bool) {
		fromIdx, ok := indexAt(m, from)
		if !ok {
			return mapgraph.EdgeKey{}, false
		}
		toIdx, ok := indexAt(m, to)
		if !ok {
			return mapgraph.EdgeKey{}, false
		}
		if _, exists := m.Weight(fromIdx, toIdx); !exists {
			return mapgraph.EdgeKey{}, false
		}
		return mapgraph.MakeEdgeKey(fromIdx, toIdx), true
	}

	stops := m.Stops()
	if len(stops) == 0 {
		return fmt.Errorf("run: map %q declares no stops", cfg.MapDir)
	}
	for i := 0; i < cfg.TrainCount; i++ {
		id := devices.ID(fmt.Sprintf("train-%d", i))
		instanceID := uuid.New().String()
		pos := m.Vertex(stops[i%len(stops)]).Pos
		tr := train.New(train.Config{
			ID:         id,
			Pos:        pos,
			Oracle:     oracle,
			Semaphore:  sem,
			Bus:        bus,
			Registry:   registry,
			Log:        simlog.With(log, map[string]interface{}{"train": string(id), "instance": instanceID}),
			Metrics:    metricsRegistry,
			Rand:       rand.New(rand.NewSource(int64(i) + 1)),
			EdgeKeyFor: edgeKeyFor,
		})
		if err := registry.Register(tr); err != nil {
			return fmt.Errorf("registering %s: %w", id, err)
		}
	}

	trainPositionFn := func(id devices.ID) (mapgraph.Point, bool) {
		d, ok := registry.Lookup(id)
		if !ok {
			return mapgraph.Point{}, false
		}
		return d.Position(), true
	}

	if addr := v.GetString("metrics-addr"); addr != "" {
		srv, err := metrics.Serve(addr, metricsRegistry.Prometheus())
		if err != nil {
			return fmt.Errorf("starting metrics server: %w", err)
		}
		log.Infof("serving metrics on http://%s/metrics", srv.Addr())
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Warnf("metrics server shutdown: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	step := 0
	delivered := 0
	clientSeq := 0
	pendingDropoff := make(map[devices.ID]bool)
	for !cfg.Done(step, delivered) {
		select {
		case sig := <-sigCh:
			log.Infof("received %s, stopping after %d steps", sig, step)
			return nil
		default:
		}
		if client.ShouldSpawn(cfg.ClientFrequency, rng) {
			clientSeq++
			c := spawnClient(registry, bus, m, stops, rng, clientSeq, trainPositionFn, log, metricsRegistry)
			if c != nil {
				pendingDropoff[c.ID()] = false
			}
		}
		registry.Step()

		for id, seen := range pendingDropoff {
			d, ok := registry.Lookup(id)
			if !ok {
				if seen {
					delivered++
				}
				delete(pendingDropoff, id)
				continue
			}
			if c, ok := d.(*client.Client); ok && c.Mode() == client.ModeDropoff {
				pendingDropoff[id] = true
			}
		}
		step++
	}

	log.Infof("simulation finished after %d steps", step)
	return nil
}

func spawnClient(
	registry *devices.Registry,
	bus *network.Bus,
	m *mapgraph.Map,
	stops []int,
	rng *rand.Rand,
	seq int,
	trainPositionFn func(devices.ID) (mapgraph.Point, bool),
	log simlog.Logger,
	metricsRegistry *metrics.Registry,
) *client.Client {
	from := stops[rng.Intn(len(stops))]
	to := from
	for to == from && len(stops) > 1 {
		to = stops[rng.Intn(len(stops))]
	}

	id := devices.ID(fmt.Sprintf("client-%d", seq))
	instanceID := uuid.New().String()
	c := client.New(client.Config{
		ID:              id,
		Pos:             m.Vertex(from).Pos,
		Dest:            m.Vertex(to).Pos,
		Bus:             bus,
		Registry:        registry,
		Log:             simlog.With(log, map[string]interface{}{"client": string(id), "instance": instanceID}),
		Metrics:         metricsRegistry,
		TrainPositionFn: trainPositionFn,
	})
	if err := registry.Register(c); err != nil {
		log.Warnf("dropping client %s: %v", id, err)
		return nil
	}
	return c
}

func indexAt(m *mapgraph.Map, p mapgraph.Point) (int, bool) {
	for i := 0; i < m.Len(); i++ {
		if m.Vertex(i).Pos.Equal(p) {
			return i, true
		}
	}
	return 0, false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
