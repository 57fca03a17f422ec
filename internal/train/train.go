// Package train implements the train agent: the election state machine
// that picks exactly one train per client request, the operational state
// machine that moves it through wait/accept/busy, and its interaction with
// the shared edge semaphore.
//
// Deadlock between trains contending for opposing edges across a shared
// vertex is possible in principle and is not resolved here; it is a known
// limitation of the protocol, not a bug, per the election/motion design.
package train

import (
	"math/rand"

	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
	"github.com/jabolina/go-trains/internal/metrics"
	"github.com/jabolina/go-trains/internal/network"
	"github.com/jabolina/go-trains/internal/routing"
	"github.com/jabolina/go-trains/internal/semaphore"
	"github.com/jabolina/go-trains/internal/simlog"
)

// Mode is the train's operational state.
type Mode int

const (
	ModeWait Mode = iota
	ModeAccept
	ModeBusy
	ModeOutOfOrder
)

func (m Mode) String() string {
	switch m {
	case ModeWait:
		return "wait"
	case ModeAccept:
		return "accept"
	case ModeBusy:
		return "busy"
	case ModeOutOfOrder:
		return "outOfOrder"
	default:
		return "unknown"
	}
}

// msgWaitMax is the fixed timeout, in ticks, after which an in-election
// train with no silencer declares itself the winner.
const msgWaitMax = 100

// ride is one accepted client: its id and the pickup/dropoff it's owed.
type ride struct {
	clientID devices.ID
	pickup   mapgraph.Point
	dropoff  mapgraph.Point
}

// pendingRequest is the single in-flight election a train is participating
// in, modeled as a tagged variant rather than a dictionary-with-sentinel-key
// presence check.
type pendingRequest struct {
	clientID    devices.ID
	pickup      mapgraph.Point
	dropoff     mapgraph.Point
	route       []mapgraph.Point
	simpleD     float64
	delayT      int
	msgWait     int
	inElections bool
}

// Config bundles a Train's collaborators and initial state.
type Config struct {
	ID        devices.ID
	Pos       mapgraph.Point
	VMax      float64
	VStep     float64
	Oracle    routing.Oracle
	Semaphore *semaphore.Semaphore
	Bus       *network.Bus
	Registry  *devices.Registry
	Log       simlog.Logger
	Metrics   *metrics.Registry
	Rand      *rand.Rand

	// EdgeKeyFor resolves two adjacent positions to the map's canonical
	// edge key between their vertices; trains need this to acquire the
	// right semaphore entry as they step onto an edge.
	EdgeKeyFor func(from, to mapgraph.Point) (mapgraph.EdgeKey, bool)
}

// Train is a single autonomous transportation unit.
type Train struct {
	id    devices.ID
	pos   mapgraph.Point
	v     mapgraph.Point // velocity vector
	vMax  float64
	vStep float64

	mode        Mode
	currentGoal mapgraph.Point
	haveGoal    bool

	queue       []ride
	path        []mapgraph.Point
	currentEdge mapgraph.EdgeKey
	haveEdge    bool

	pending     *pendingRequest
	lostFor     devices.ID
	haveLost    bool
	delayWanted int

	inbox []inboxEntry

	oracle     routing.Oracle
	sem        *semaphore.Semaphore
	bus        *network.Bus
	registry   *devices.Registry
	log        simlog.Logger
	metrics    *metrics.Registry
	edgeKeyFor func(from, to mapgraph.Point) (mapgraph.EdgeKey, bool)
}

// New constructs a Train in ModeWait with no clients.
func New(cfg Config) *Train {
	log := cfg.Log
	if log == nil {
		log = simlog.NewNoop()
	}
	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	vMax := cfg.VMax
	if vMax == 0 {
		vMax = 6
	}
	vStep := cfg.VStep
	if vStep == 0 {
		vStep = 0.1
	}
	return &Train{
		id:          cfg.ID,
		pos:         cfg.Pos,
		vMax:        vMax,
		vStep:       vStep,
		mode:        ModeWait,
		delayWanted: 1 + r.Intn(10), // [1,10], per delayWanted = randint(1,11) in the original
		oracle:      cfg.Oracle,
		sem:         cfg.Semaphore,
		bus:         cfg.Bus,
		registry:    cfg.Registry,
		log:         log,
		metrics:     cfg.Metrics,
		edgeKeyFor:  cfg.EdgeKeyFor,
	}
}

func (t *Train) ID() devices.ID             { return t.id }
func (t *Train) Role() devices.Role         { return devices.RoleTrain }
func (t *Train) Position() mapgraph.Point   { return t.pos }
func (t *Train) Mode() Mode                 { return t.mode }
func (t *Train) Path() []mapgraph.Point     { return t.path }
func (t *Train) QueueLen() int              { return len(t.queue) }
func (t *Train) HasPending() bool           { return t.pending != nil }
func (t *Train) CurrentEdge() (mapgraph.EdgeKey, bool) {
	return t.currentEdge, t.haveEdge
}

// SetOutOfOrder puts the train under system order, repositioning it toward
// goal; it will ignore REQ/ELEC and self-terminate on arrival.
func (t *Train) SetOutOfOrder(goal mapgraph.Point, path []mapgraph.Point) {
	t.mode = ModeOutOfOrder
	t.currentGoal = goal
	t.haveGoal = true
	t.path = path
}

// expectedArrivalPoint is where the train expects to be once it finishes
// whatever it is currently doing: its own position if idle, or the last
// vertex of its committed path otherwise.
func (t *Train) expectedArrivalPoint() mapgraph.Point {
	if t.mode == ModeWait || len(t.path) == 0 {
		return t.pos
	}
	return t.path[len(t.path)-1]
}

// fullPathDistance sums the Euclidean lengths of successive vertices in
// path: the residual work the train must finish before it could start a
// newly accepted route.
func (t *Train) fullPathDistance() float64 {
	sum := 0.0
	for i := 0; i+1 < len(t.path); i++ {
		sum += t.path[i].Distance(t.path[i+1])
	}
	return sum
}
