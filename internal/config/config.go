// Package config provides YAML-based game configuration loading and
// difficulty presets for rope survival.
package config

import (
	"errors"
	"fmt"
	"time"
)

// GameConfig contains all tunables of a rope survival session.
type GameConfig struct {
	Field       FieldConfig       `yaml:"field"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Rope        RopeConfig        `yaml:"rope"`
	Hazards     HazardConfig      `yaml:"hazards"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Progression ProgressionConfig `yaml:"progression"`
	Session     SessionConfig     `yaml:"session"`
	Commentary  CommentaryConfig  `yaml:"commentary"`
	Generator   GeneratorConfig   `yaml:"generator"`
}

// FieldConfig is the logical playfield size. Rendering scales it to the terminal.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig defines the pendulum integrator parameters.
type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`        // Added to y every tick
	Damping        float64 `yaml:"damping"`        // Velocity retained per tick, (0,1]
	BallRadius     float64 `yaml:"ball_radius"`    // Collision radius of the ball
	Responsiveness float64 `yaml:"responsiveness"` // Horizontal pointer follow factor
}

// RopeConfig defines the rope length band.
type RopeConfig struct {
	InitialLength float64 `yaml:"initial_length"`
	MinLength     float64 `yaml:"min_length"`
	MaxLength     float64 `yaml:"max_length"`
}

// HazardConfig defines saw motion and population parameters.
type HazardConfig struct {
	Radius         float64 `yaml:"radius"`
	BaseCount      int     `yaml:"base_count"`      // Live hazards at difficulty 1
	PerLevel       int     `yaml:"per_level"`       // Extra hazards per difficulty level
	MaxCount       int     `yaml:"max_count"`       // Hard cap on live hazards
	SpinPerTick    float64 `yaml:"spin_per_tick"`   // Cosmetic rotation, radians
	HomingGain     float64 `yaml:"homing_gain"`     // Attraction toward the ball
	RepelRadius    float64 `yaml:"repel_radius"`    // Separation below which saws push apart
	RepelForce     float64 `yaml:"repel_force"`     // Impulse at zero separation
	CapFactor      float64 `yaml:"cap_factor"`      // Max speed = cap_factor * effective speed
	ReversalChance float64 `yaml:"reversal_chance"` // Per-tick chance for erratic saws
	ReversalGain   float64 `yaml:"reversal_gain"`   // Amplification of the flipped axis
	LaunchSpeed    float64 `yaml:"launch_speed"`    // Initial speed before the pattern multiplier
	AimJitter      float64 `yaml:"aim_jitter"`      // Side of the random box around the ball to aim at
}

// ScoringConfig defines proximity scoring and near-miss detection.
type ScoringConfig struct {
	NearMissFactor  float64       `yaml:"near_miss_factor"` // Near-miss distance = factor * hazard radius
	ScoringFactor   float64       `yaml:"scoring_factor"`   // Scoring distance = factor * near-miss distance
	ProximityPoints float64       `yaml:"proximity_points"`
	SurvivalPoints  float64       `yaml:"survival_points"`
	NearMissChance  float64       `yaml:"near_miss_chance"` // Per-tick sampling probability
	RelievedFor     time.Duration `yaml:"relieved_for"`     // Expression decay back to normal
}

// ProgressionConfig defines difficulty progression and the mercy rule.
type ProgressionConfig struct {
	Interval        time.Duration `yaml:"interval"`   // How often difficulty is re-evaluated
	ScoreStep       float64       `yaml:"score_step"` // Score per difficulty level
	MercyDeaths     int           `yaml:"mercy_deaths"`
	MercyOffset     int           `yaml:"mercy_offset"`
	MercySpeedScale float64       `yaml:"mercy_speed_scale"`
}

// SessionConfig defines lives and monetization caps.
type SessionConfig struct {
	InitialLives      int `yaml:"initial_lives"`
	MaxPurchasedLives int `yaml:"max_purchased_lives"`
}

// CommentaryConfig defines commentary scheduling.
type CommentaryConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval"`    // Periodic nearMiss chatter
	DisplayFor time.Duration `yaml:"display_for"` // How long a line stays visible
}

// GeneratorConfig selects and tunes the external generator backend.
type GeneratorConfig struct {
	Backend string        `yaml:"backend"` // Registry name: local, http, offline
	URL     string        `yaml:"url"`     // Base URL for the http backend
	Timeout time.Duration `yaml:"timeout"` // Per-request deadline
}

// NearMissDistance returns the near-miss threshold in playfield units.
func (c GameConfig) NearMissDistance() float64 {
	return c.Scoring.NearMissFactor * c.Hazards.Radius
}

// ScoringDistance returns the proximity scoring band in playfield units.
func (c GameConfig) ScoringDistance() float64 {
	return c.NearMissDistance() * c.Scoring.ScoringFactor
}

// LethalDistance returns the ball-hazard center distance below which the ball dies.
func (c GameConfig) LethalDistance() float64 {
	return c.Physics.BallRadius + c.Hazards.Radius
}

// Validate checks the config for values the simulation cannot run with.
func (c GameConfig) Validate() error {
	var errs []error
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field must be positive, got %gx%g", c.Field.Width, c.Field.Height))
	}
	if c.Physics.Damping <= 0 || c.Physics.Damping > 1 {
		errs = append(errs, fmt.Errorf("physics.damping must be in (0,1], got %g", c.Physics.Damping))
	}
	if c.Physics.BallRadius <= 0 {
		errs = append(errs, errors.New("physics.ball_radius must be positive"))
	}
	if c.Rope.MinLength <= 0 || c.Rope.MinLength > c.Rope.MaxLength {
		errs = append(errs, fmt.Errorf("rope band [%g,%g] is invalid", c.Rope.MinLength, c.Rope.MaxLength))
	}
	if c.Hazards.Radius <= 0 {
		errs = append(errs, errors.New("hazards.radius must be positive"))
	}
	if c.Hazards.MaxCount < c.Hazards.BaseCount || c.Hazards.BaseCount < 1 {
		errs = append(errs, fmt.Errorf("hazards count band [%d,%d] is invalid", c.Hazards.BaseCount, c.Hazards.MaxCount))
	}
	if c.Hazards.CapFactor <= 0 {
		errs = append(errs, errors.New("hazards.cap_factor must be positive"))
	}
	if c.Progression.ScoreStep <= 0 {
		errs = append(errs, errors.New("progression.score_step must be positive"))
	}
	if c.Progression.Interval <= 0 {
		errs = append(errs, errors.New("progression.interval must be positive"))
	}
	if c.Session.InitialLives < 1 {
		errs = append(errs, errors.New("session.initial_lives must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
