package sim

import (
	"math/rand"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
)

// initialEdges is the spawn rotation used for the opening wave.
var initialEdges = [...]Edge{EdgeLeft, EdgeLeft, EdgeRight}

// Lifecycle keeps the live hazard count at its target. Spawns are
// requested from the generator and land later through the merge queue,
// so in-flight requests are counted as pending.
type Lifecycle struct {
	cfg     config.HazardConfig
	pending int
}

// NewLifecycle creates a lifecycle manager.
func NewLifecycle(cfg config.HazardConfig) Lifecycle {
	return Lifecycle{cfg: cfg}
}

// Target returns the desired live count at a difficulty level.
func (l *Lifecycle) Target(level int) int {
	if level < 1 {
		level = 1
	}
	n := l.cfg.BaseCount + l.cfg.PerLevel*(level-1)
	if n > l.cfg.MaxCount {
		n = l.cfg.MaxCount
	}
	return n
}

// Need returns how many new spawns to request.
func (l *Lifecycle) Need(level, live int) int {
	n := l.Target(level) - live - l.pending
	if n < 0 {
		return 0
	}
	return n
}

// Pending returns the number of spawn requests in flight.
func (l *Lifecycle) Pending() int { return l.pending }

func (l *Lifecycle) requested() { l.pending++ }

func (l *Lifecycle) landed() {
	if l.pending > 0 {
		l.pending--
	}
}

// Reset forgets in-flight requests. Their results are dropped by the
// generation check.
func (l *Lifecycle) Reset() { l.pending = 0 }

// InitialEdge returns the edge for the i-th hazard of the opening wave.
func InitialEdge(i int) Edge {
	return initialEdges[i%len(initialEdges)]
}

// RandomEdge picks a replenishment edge uniformly.
func RandomEdge(rng *rand.Rand) Edge {
	return allEdges[rng.Intn(len(allEdges))]
}

// SpawnPoint returns a position one hazard radius outside the given edge,
// at a random offset along it.
func SpawnPoint(edge Edge, field core.Bounds, radius float64, rng *rand.Rand) core.Vec2 {
	switch edge {
	case EdgeLeft:
		return core.V(field.MinX-radius, field.MinY+rng.Float64()*field.Height())
	case EdgeRight:
		return core.V(field.MaxX+radius, field.MinY+rng.Float64()*field.Height())
	case EdgeTop:
		return core.V(field.MinX+rng.Float64()*field.Width(), field.MinY-radius)
	default:
		return core.V(field.MinX+rng.Float64()*field.Width(), field.MaxY+radius)
	}
}

// LaunchVelocity aims from a spawn point at a random point in a box of
// side jitter around the ball, with length speed.
func LaunchVelocity(from, ball core.Vec2, jitter, speed float64, rng *rand.Rand) core.Vec2 {
	target := ball.Add(core.V((rng.Float64()-0.5)*jitter, (rng.Float64()-0.5)*jitter))
	dir := target.Sub(from)
	d := dir.Len()
	if d == 0 || !core.IsFinite(d) {
		d = 1
	}
	return dir.Scale(speed / d)
}
