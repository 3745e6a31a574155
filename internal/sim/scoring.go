package sim

import (
	"math"
	"time"

	"github.com/vovakirdan/rope-survival/internal/config"
)

// Evaluation is the outcome of measuring the ball against every hazard.
type Evaluation struct {
	Points  float64 // score earned this tick
	MinDist float64 // closest hazard center, +Inf with no hazards
	Hit     bool    // a hazard is within lethal range
	HitID   uint64  // the closest lethal hazard when Hit
}

// Evaluate measures ball-hazard distances. Each hazard inside the scoring
// band pays in proportion to how close it is; every other hazard pays the
// flat survival increment. Hazards must be sorted by ID so ties resolve
// to the lowest ID.
func Evaluate(ball Ball, hazards []*Hazard, cfg config.GameConfig) Evaluation {
	ev := Evaluation{MinDist: math.Inf(1)}
	band := cfg.ScoringDistance()
	lethal := cfg.LethalDistance()
	hitDist := math.Inf(1)

	for _, h := range hazards {
		d := ball.Pos.Dist(h.Pos)
		if math.IsNaN(d) {
			continue
		}
		if d < ev.MinDist {
			ev.MinDist = d
		}

		if d < band {
			ev.Points += (band - d) / band * cfg.Scoring.ProximityPoints
		} else {
			ev.Points += cfg.Scoring.SurvivalPoints
		}

		if d < lethal && d < hitDist {
			hitDist = d
			ev.Hit = true
			ev.HitID = h.ID
		}
	}
	return ev
}

// Expression is the ball's cosmetic mood.
type Expression int

const (
	ExpressionNormal Expression = iota
	ExpressionScared
	ExpressionRelieved
)

// String returns the expression name.
func (e Expression) String() string {
	switch e {
	case ExpressionNormal:
		return "normal"
	case ExpressionScared:
		return "scared"
	case ExpressionRelieved:
		return "relieved"
	default:
		return "unknown"
	}
}

// ExpressionTracker turns per-tick minimum distances into an Expression.
// Scared while a hazard is within near-miss range, relieved for a short
// while after, then back to normal.
type ExpressionTracker struct {
	state     Expression
	remaining time.Duration
}

// Update feeds one tick's minimum distance.
func (t *ExpressionTracker) Update(minDist, nearMiss float64, dt, relievedFor time.Duration) Expression {
	switch {
	case minDist < nearMiss:
		t.state = ExpressionScared
		t.remaining = 0
	case t.state == ExpressionScared:
		t.state = ExpressionRelieved
		t.remaining = relievedFor
	case t.state == ExpressionRelieved:
		t.remaining -= dt
		if t.remaining <= 0 {
			t.state = ExpressionNormal
			t.remaining = 0
		}
	}
	return t.state
}

// State returns the current expression.
func (t *ExpressionTracker) State() Expression { return t.state }

// Reset returns to normal.
func (t *ExpressionTracker) Reset() { *t = ExpressionTracker{} }
