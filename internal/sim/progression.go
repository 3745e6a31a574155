package sim

import (
	"math"
	"time"

	"github.com/vovakirdan/rope-survival/internal/config"
)

// Progression raises the difficulty level from the score on a fixed
// interval of simulated time. Levels never go down within a session.
type Progression struct {
	Level int
	cfg   config.ProgressionConfig
	timer Timer
}

// NewProgression creates a progression at level 1.
func NewProgression(cfg config.ProgressionConfig) Progression {
	return Progression{
		Level: 1,
		cfg:   cfg,
		timer: NewTimer(cfg.Interval),
	}
}

// MercyActive reports whether the player has died often enough for the
// mercy rule to apply.
func MercyActive(deaths int, cfg config.ProgressionConfig) bool {
	return cfg.MercyDeaths > 0 && deaths >= cfg.MercyDeaths
}

// SpeedScale returns the hazard speed factor for a death count.
func SpeedScale(deaths int, cfg config.ProgressionConfig) float64 {
	if MercyActive(deaths, cfg) {
		return cfg.MercySpeedScale
	}
	return 1
}

// Candidate returns the level the score earns, after the mercy offset.
// The result is never below 1.
func (p *Progression) Candidate(score float64, deaths int) int {
	c := int(math.Floor(score/p.cfg.ScoreStep)) + 1
	if MercyActive(deaths, p.cfg) {
		c -= p.cfg.MercyOffset
	}
	if c < 1 {
		c = 1
	}
	return c
}

// Advance moves the interval timer by dt. When the timer fires and the
// candidate exceeds the current level, the level is raised and returned
// with raised=true.
func (p *Progression) Advance(dt time.Duration, score float64, deaths int) (level int, raised bool) {
	if !p.timer.Advance(dt) {
		return p.Level, false
	}
	if c := p.Candidate(score, deaths); c > p.Level {
		p.Level = c
		return p.Level, true
	}
	return p.Level, false
}

// Reset returns to level 1 with a fresh timer.
func (p *Progression) Reset() {
	p.Level = 1
	p.timer.Reset()
}
