// Package sim implements the rope survival simulation: a ball hanging from a
// rope under Verlet integration, homing saws, proximity scoring, difficulty
// progression and the session life cycle.
//
// The Engine is the single writer of all state. Generator results produced
// on other goroutines enter only through the merge queue, drained at the
// start of each Step.
package sim

import (
	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
)

// Ball is the player's pendulum bob in Verlet form.
type Ball struct {
	Pos    core.Vec2
	Prev   core.Vec2
	Radius float64
}

// Velocity returns the implicit per-tick velocity.
func (b Ball) Velocity() core.Vec2 {
	return b.Pos.Sub(b.Prev)
}

// Rope ties the ball to a fixed anchor.
type Rope struct {
	Anchor core.Vec2
	Length float64
}

// SetLength sets the target length, clamped to [min, max].
func (r *Rope) SetLength(l, min, max float64) {
	if !core.IsFinite(l) {
		return
	}
	r.Length = core.ClampF(l, min, max)
}

// Integrate advances the ball by one tick: damped Verlet step, gravity,
// one relaxation pass of the rope constraint and a hard clamp to the field.
// The clamp does not touch Prev, so a ball pressed into a wall loses its
// momentum over the next ticks.
func Integrate(b *Ball, rope Rope, p config.PhysicsConfig, field core.Bounds) {
	start := b.Pos

	v := b.Pos.Sub(b.Prev).Scale(p.Damping)
	b.Prev = b.Pos
	b.Pos = b.Pos.Add(v)
	b.Pos.Y += p.Gravity

	delta := b.Pos.Sub(rope.Anchor)
	if dist := delta.Len(); dist > 0 && core.IsFinite(dist) {
		correction := (rope.Length - dist) / dist / 2
		b.Pos = b.Pos.Add(delta.Scale(correction))
	}

	if !b.Pos.IsFinite() {
		b.Pos = start
	}
	b.Pos = field.Inset(b.Radius).Clamp(b.Pos)
}

// ApplyPointer steers the ball toward a pointer position: the pointer's
// height sets the rope length and the ball moves a fraction of the way
// toward the pointer horizontally.
func ApplyPointer(b *Ball, rope *Rope, pointer core.Vec2, rc config.RopeConfig, responsiveness float64, field core.Bounds) {
	if !pointer.IsFinite() {
		return
	}
	rope.SetLength(pointer.Y, rc.MinLength, rc.MaxLength)
	nudgeX(b, pointer.X, responsiveness, field)
}

// nudgeX moves the ball a fraction k of the way toward x, inside the field.
// Prev is left alone, so the nudge also injects swing velocity.
func nudgeX(b *Ball, x, k float64, field core.Bounds) {
	target := b.Pos.X + (x-b.Pos.X)*k
	b.Pos.X = core.ClampF(target, field.MinX+b.Radius, field.MaxX-b.Radius)
}

// resetBall places the ball at its spawn point below the anchor with a
// tiny downward velocity.
func resetBall(b *Ball, field core.Bounds, spawnY float64) {
	x := field.Center().X
	b.Pos = core.V(x, spawnY)
	b.Prev = core.V(x, spawnY-1)
}
