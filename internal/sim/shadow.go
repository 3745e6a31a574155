package sim

import (
	"math"
	"time"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
)

// Autopilot steering constants, as multiples of the hazard radius.
const (
	avoidFactor   = 1.8
	optimalFactor = 2.5
	centerDrift   = 0.01
	steerForce    = 0.02
)

// Shadow is an autonomous ball that plays against the hazards of another
// session. It only reads snapshots; it never touches the owning engine.
// On a lethal hit it starts over with a zero score instead of losing lives.
type Shadow struct {
	cfg        config.GameConfig
	field      core.Bounds
	ball       Ball
	rope       Rope
	expression ExpressionTracker
	score      float64
	best       float64
	resets     int
	generation uint64
}

// ShadowView is the drawable state of a Shadow.
type ShadowView struct {
	Ball   BallView
	Rope   RopeView
	Score  float64
	Best   float64
	Resets int
}

// NewShadow creates an autopilot for the given configuration.
func NewShadow(cfg config.GameConfig) *Shadow {
	s := &Shadow{
		cfg:   cfg,
		field: core.NewBounds(cfg.Field.Width, cfg.Field.Height),
	}
	s.ball.Radius = cfg.Physics.BallRadius
	s.rope.Anchor = core.V(s.field.Center().X, s.field.MinY)
	s.reset()
	return s
}

func (s *Shadow) reset() {
	s.rope.Length = s.cfg.Rope.InitialLength
	resetBall(&s.ball, s.field, s.field.MinY+s.cfg.Rope.InitialLength)
	s.expression.Reset()
	s.score = 0
}

// Observe advances the autopilot by one tick against the hazards in snap.
// Nothing happens unless the observed session is playing. A new
// generation in snap restarts the autopilot too.
func (s *Shadow) Observe(snap Snapshot, dt time.Duration) {
	if snap.Generation != s.generation {
		s.generation = snap.Generation
		s.reset()
	}
	if !snap.Playing() {
		return
	}

	hazards := make([]*Hazard, len(snap.Hazards))
	for i, hv := range snap.Hazards {
		hazards[i] = &Hazard{ID: hv.ID, Pos: hv.Pos}
	}

	s.steer(hazards)
	Integrate(&s.ball, s.rope, s.cfg.Physics, s.field)

	ev := Evaluate(s.ball, hazards, s.cfg)
	s.score += ev.Points
	if s.score > s.best {
		s.best = s.score
	}
	s.expression.Update(ev.MinDist, s.cfg.NearMissDistance(), dt, s.cfg.Scoring.RelievedFor)

	if ev.Hit {
		s.resets++
		s.reset()
	}
}

// steer picks a horizontal target that keeps the closest hazard at a
// scoring distance without entering lethal range. The rope keeps the
// length reset gave it.
func (s *Shadow) steer(hazards []*Hazard) {
	if len(hazards) == 0 {
		return
	}

	closest := hazards[0]
	minDist := math.Inf(1)
	for _, h := range hazards {
		if d := s.ball.Pos.Dist(h.Pos); d < minDist {
			minDist = d
			closest = h
		}
	}

	r := s.cfg.Hazards.Radius
	avoid := r * avoidFactor
	optimal := r * optimalFactor

	away := s.ball.Pos.Sub(closest.Pos)
	angle := math.Atan2(away.Y, away.X)

	targetX := s.ball.Pos.X
	switch {
	case minDist < avoid:
		targetX = closest.Pos.X + math.Cos(angle)*(avoid+20)
	case minDist < optimal*1.5:
		targetX = closest.Pos.X + math.Cos(angle)*optimal
	default:
		targetX += (s.field.Center().X - s.ball.Pos.X) * centerDrift
	}

	targetX = core.ClampF(targetX, s.field.MinX+s.ball.Radius, s.field.MaxX-s.ball.Radius)
	nudgeX(&s.ball, targetX, steerForce, s.field)
}

// View returns the autopilot's drawable state.
func (s *Shadow) View() ShadowView {
	return ShadowView{
		Ball: BallView{Pos: s.ball.Pos, Radius: s.ball.Radius, Expression: s.expression.State()},
		Rope: RopeView{
			Anchor: s.rope.Anchor,
			End:    s.ball.Pos,
			Length: s.rope.Length,
			Skin:   "default",
			Color:  skins[0].Color,
		},
		Score:  s.score,
		Best:   s.best,
		Resets: s.resets,
	}
}
