package core

import "time"

// RuntimeConfig contains configuration passed to a session at initialization.
// Screen dimensions are terminal cells; the playfield itself has its own
// logical size from the game config and is scaled onto the screen.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the nominal duration of one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState is the coarse state the platform needs after each tick.
type GameState struct {
	Score      int  // Current score, floored
	Lives      int  // Lives remaining
	Difficulty int  // Current difficulty level
	GameOver   bool // Whether the session has ended
	Paused     bool // Whether the session is paused
}

// StepResult is returned after each simulation tick.
type StepResult struct {
	State GameState
}
