package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
)

// Edge is the playfield side a hazard entered from.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

var allEdges = [...]Edge{EdgeLeft, EdgeRight, EdgeTop, EdgeBottom}

// Hazard is a spinning saw.
type Hazard struct {
	ID      uint64
	Pos     core.Vec2
	Vel     core.Vec2
	Angle   float64 // cosmetic rotation, radians
	Age     float64 // seconds alive
	Pattern Pattern
	Edge    Edge
}

// EffectiveSpeed returns the pattern multiplier after the mercy scale.
func EffectiveSpeed(p Pattern, scale float64) float64 {
	return p.SpeedMultiplier * scale
}

// MaxSpeed returns the per-tick speed cap for a hazard.
func MaxSpeed(hc config.HazardConfig, p Pattern, scale float64) float64 {
	return hc.CapFactor * EffectiveSpeed(p, scale)
}

// StepHazards advances every hazard by one tick. Hazards must be sorted by
// ID; repulsion reads the positions all hazards had before this tick so the
// result does not depend on update order.
func StepHazards(hazards []*Hazard, ball core.Vec2, hc config.HazardConfig, scale float64, field core.Bounds, dt time.Duration, rng *rand.Rand) {
	prev := make([]core.Vec2, len(hazards))
	for i, h := range hazards {
		prev[i] = h.Pos
	}

	for i, h := range hazards {
		h.Angle = math.Mod(h.Angle+hc.SpinPerTick, 2*math.Pi)
		h.Age += dt.Seconds()

		eff := EffectiveSpeed(h.Pattern, scale)

		gain := hc.HomingGain * eff
		if h.Pattern.Behavior == BehaviorHoming {
			gain *= homingBoost
		}
		h.Vel = h.Vel.Add(ball.Sub(h.Pos).Scale(gain))

		for j := range hazards {
			if j == i {
				continue
			}
			h.Vel = h.Vel.Add(repulsion(prev[i], prev[j], h.ID > hazards[j].ID, hc))
		}

		switch h.Pattern.Behavior {
		case BehaviorWave:
			h.Vel = h.Vel.Add(lateral(h.Vel, waveAmplitude*eff*math.Cos(h.Age*waveFrequency)))
		case BehaviorZigZag:
			sign := 1.0
			if int(h.Age/zigZagPeriod)%2 == 1 {
				sign = -1
			}
			h.Vel = h.Vel.Add(lateral(h.Vel, zigZagStrength*eff*sign))
		case BehaviorErraticReversal:
			if rng.Float64() < hc.ReversalChance {
				if rng.Float64() < 0.5 {
					h.Vel.X *= -hc.ReversalGain
				} else {
					h.Vel.Y *= -hc.ReversalGain
				}
			}
		}

		h.Vel = capSpeed(h.Vel, MaxSpeed(hc, h.Pattern, scale))

		h.Pos = h.Pos.Add(h.Vel)
		bounce(h, hc.Radius, field)
	}
}

// repulsion returns the impulse pushing a hazard at p away from one at q.
// Coincident hazards split along x, the higher ID going right.
func repulsion(p, q core.Vec2, higher bool, hc config.HazardConfig) core.Vec2 {
	sep := p.Sub(q)
	d := sep.Len()
	if d == 0 || !core.IsFinite(d) {
		d = 1
		sep = core.V(-1, 0)
		if higher {
			sep = core.V(1, 0)
		}
	}
	if d >= hc.RepelRadius {
		return core.Vec2{}
	}
	force := (hc.RepelRadius - d) / hc.RepelRadius * hc.RepelForce
	return sep.Scale(force / d)
}

// lateral returns an impulse of the given magnitude perpendicular to v.
func lateral(v core.Vec2, magnitude float64) core.Vec2 {
	l := v.Len()
	if l == 0 || !core.IsFinite(l) {
		return core.Vec2{}
	}
	return core.V(-v.Y/l, v.X/l).Scale(magnitude)
}

// capSpeed rescales v so its length does not exceed max.
func capSpeed(v core.Vec2, max float64) core.Vec2 {
	if !v.IsFinite() || max <= 0 {
		return core.Vec2{}
	}
	if s := v.Len(); s > max {
		return v.Scale(max / s)
	}
	return v
}

// bounce reflects velocity components that carry the hazard further out
// of the field. Speed is unchanged.
func bounce(h *Hazard, radius float64, field core.Bounds) {
	if (h.Pos.X-radius < field.MinX && h.Vel.X < 0) || (h.Pos.X+radius > field.MaxX && h.Vel.X > 0) {
		h.Vel.X = -h.Vel.X
	}
	if (h.Pos.Y-radius < field.MinY && h.Vel.Y < 0) || (h.Pos.Y+radius > field.MaxY && h.Vel.Y > 0) {
		h.Vel.Y = -h.Vel.Y
	}
}
