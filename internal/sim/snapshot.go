package sim

import "github.com/vovakirdan/rope-survival/internal/core"

// Snapshot is an immutable view of one tick, sufficient to draw the game.
// It shares no memory with the engine and is safe to hand to other
// goroutines. Tags define the observer wire format.
type Snapshot struct {
	Tick       uint64 `msgpack:"tick"`
	Generation uint64 `msgpack:"gen"`
	Phase      Phase  `msgpack:"phase"`

	FieldW float64 `msgpack:"fw"`
	FieldH float64 `msgpack:"fh"`

	Ball    BallView     `msgpack:"ball"`
	Rope    RopeView     `msgpack:"rope"`
	Hazards []HazardView `msgpack:"hazards"`

	Score           float64 `msgpack:"score"`
	Lives           int     `msgpack:"lives"`
	Difficulty      int     `msgpack:"difficulty"`
	Deaths          int     `msgpack:"deaths"`
	Purchased       int     `msgpack:"purchased"`
	MaxPurchased    int     `msgpack:"max_purchased"`
	PendingSpawns   int     `msgpack:"pending"`
	Commentary      string  `msgpack:"commentary,omitempty"`
	CommentaryEvent string  `msgpack:"commentary_event,omitempty"`
	Events          []Event `msgpack:"events,omitempty"`
}

// BallView is the drawable ball.
type BallView struct {
	Pos        core.Vec2  `msgpack:"pos"`
	Radius     float64    `msgpack:"r"`
	Expression Expression `msgpack:"expr"`
}

// RopeView is the drawable rope.
type RopeView struct {
	Anchor core.Vec2 `msgpack:"anchor"`
	End    core.Vec2 `msgpack:"end"`
	Length float64   `msgpack:"len"`
	Skin   string    `msgpack:"skin"`
	Color  string    `msgpack:"color"`
}

// HazardView is the drawable saw.
type HazardView struct {
	ID       uint64    `msgpack:"id"`
	Pos      core.Vec2 `msgpack:"pos"`
	Vel      core.Vec2 `msgpack:"vel"`
	Radius   float64   `msgpack:"r"`
	Rotation float64   `msgpack:"rot"`
	Label    string    `msgpack:"label"`
	Behavior string    `msgpack:"behavior"`
}

// Playing reports whether the run is live and unpaused.
func (s Snapshot) Playing() bool { return s.Phase == PhasePlaying }

// Paused reports whether the run is paused.
func (s Snapshot) Paused() bool { return s.Phase == PhasePaused }

// GameOver reports whether the run has ended.
func (s Snapshot) GameOver() bool { return s.Phase == PhaseGameOver }

// DisplayScore returns the score floored for display.
func (s Snapshot) DisplayScore() int { return int(s.Score) }

// SnapshotSink receives a snapshot after every tick.
type SnapshotSink interface {
	Publish(Snapshot)
}
