package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/rope.yaml
var defaultRopeYAML []byte

// DefaultGameConfig returns the built-in configuration. It mirrors
// defaults/rope.yaml and is used when the embedded YAML cannot be parsed.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Field: FieldConfig{
			Width:  800,
			Height: 600,
		},
		Physics: PhysicsConfig{
			Gravity:        0.5,
			Damping:        0.995,
			BallRadius:     15,
			Responsiveness: 0.1,
		},
		Rope: RopeConfig{
			InitialLength: 200,
			MinLength:     50,
			MaxLength:     580,
		},
		Hazards: HazardConfig{
			Radius:         40,
			BaseCount:      3,
			PerLevel:       0,
			MaxCount:       6,
			SpinPerTick:    0.25,
			HomingGain:     0.0005,
			RepelRadius:    160,
			RepelForce:     0.2,
			CapFactor:      3,
			ReversalChance: 0.015,
			ReversalGain:   1.2,
			LaunchSpeed:    2,
			AimJitter:      200,
		},
		Scoring: ScoringConfig{
			NearMissFactor:  2.5,
			ScoringFactor:   1.5,
			ProximityPoints: 0.2,
			SurvivalPoints:  0.01,
			NearMissChance:  0.02,
			RelievedFor:     500 * time.Millisecond,
		},
		Progression: ProgressionConfig{
			Interval:        2 * time.Second,
			ScoreStep:       100,
			MercyDeaths:     5,
			MercyOffset:     2,
			MercySpeedScale: 0.7,
		},
		Session: SessionConfig{
			InitialLives:      3,
			MaxPurchasedLives: 3,
		},
		Commentary: CommentaryConfig{
			Enabled:    true,
			Interval:   6 * time.Second,
			DisplayFor: 5 * time.Second,
		},
		Generator: GeneratorConfig{
			Backend: "local",
			Timeout: 3 * time.Second,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRopeYAML
}
