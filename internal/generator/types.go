// Package generator defines the contract between the simulation and the
// services that supply hazard patterns and commentary lines.
//
// Implementations live in subpackages and register themselves with the
// registry package in init(), the same way games do.
package generator

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by backends that cannot serve a request at all.
var ErrUnavailable = errors.New("generator: backend unavailable")

// EventKind names a game event that commentary can react to.
type EventKind string

const (
	EventGameStart EventKind = "gameStart"
	EventLevelUp   EventKind = "levelUp"
	EventLostLife  EventKind = "lostLife"
	EventGameOver  EventKind = "gameOver"
	EventNearMiss  EventKind = "nearMiss"
	EventContinued EventKind = "continued"
)

// PatternRequest asks for a hazard movement descriptor at a difficulty level.
type PatternRequest struct {
	Difficulty int `json:"difficulty"`
}

// PatternResponse is a hazard movement descriptor.
type PatternResponse struct {
	Pattern         string  `json:"pattern"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
}

// CommentaryRequest carries the game state a commentator reacts to.
type CommentaryRequest struct {
	Score         int       `json:"score"`
	Difficulty    int       `json:"difficulty"`
	Event         EventKind `json:"event"`
	PlayerMessage string    `json:"playerMessage,omitempty"`
}

// CommentaryResponse is a single commentary line.
type CommentaryResponse struct {
	Commentary string `json:"commentary"`
}

// PatternGenerator supplies hazard patterns.
type PatternGenerator interface {
	GeneratePattern(ctx context.Context, req PatternRequest) (PatternResponse, error)
}

// CommentaryGenerator supplies commentary lines.
type CommentaryGenerator interface {
	GenerateCommentary(ctx context.Context, req CommentaryRequest) (CommentaryResponse, error)
}

// Backend is a complete generator service.
type Backend interface {
	PatternGenerator
	CommentaryGenerator

	// Ping checks that the backend can serve requests.
	Ping(ctx context.Context) error
}

// Options configures a backend at construction time.
type Options struct {
	URL     string        // Base URL for network backends
	Timeout time.Duration // Per-request deadline for network backends
	Seed    int64         // RNG seed for backends that pick lines at random
}
