// Package local provides generator backends that run in-process:
// a deterministic designer table and an always-failing offline stub.
package local

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/rope-survival/internal/generator"
	"github.com/vovakirdan/rope-survival/internal/registry"
)

func init() {
	registry.Register("local", "Built-in designer table and canned commentary", func(opts generator.Options) (generator.Backend, error) {
		return New(opts.Seed), nil
	})
	registry.Register("offline", "Always fails; every pattern falls back", func(generator.Options) (generator.Backend, error) {
		return Offline{}, nil
	})
}

// tier is one row of the designer table.
type tier struct {
	label string
	speed float64
}

// designerTable maps difficulty 1..10 to a pattern.
var designerTable = []tier{
	{"steady horizontal", 1.0},
	{"sudden direction changes", 1.2},
	{"double speed", 2.0},
	{"zig-zag", 2.5},
	{"accelerated zig-zag", 3.0},
	{"sinusoidal wave", 3.5},
	{"complex wave", 4.0},
	{"erratic", 4.5},
	{"very erratic", 5.0},
	{"extremely erratic", 5.5},
}

// Pattern returns the designer pattern for a difficulty level.
// Levels past the table keep the last label and add 0.5 per level.
func Pattern(difficulty int) generator.PatternResponse {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty <= len(designerTable) {
		t := designerTable[difficulty-1]
		return generator.PatternResponse{Pattern: t.label, SpeedMultiplier: t.speed}
	}
	last := designerTable[len(designerTable)-1]
	extra := float64(difficulty - len(designerTable))
	return generator.PatternResponse{
		Pattern:         last.label,
		SpeedMultiplier: last.speed + 0.5*extra,
	}
}

var lines = map[generator.EventKind][]string{
	generator.EventGameStart: {
		"Started already? Let's see how long you last.",
		"Remember to breathe, rookie.",
		"Saws are sharp. Just so you know.",
	},
	generator.EventLevelUp: {
		"Level %[2]d! Good luck, you'll need it.",
		"Thought that was hard? Wait for it.",
		"Level %[2]d. The saws are getting ideas.",
	},
	generator.EventLostLife: {
		"Oops. Was that saw too sharp?",
		"You call that dodging? Terrible.",
		"That looked like it hurt.",
	},
	generator.EventGameOver: {
		"Final score: %[1]d. A bit disappointing.",
		"Game over already? Not everyone can be good.",
		"%[1]d points. I've seen pendulums do better.",
	},
	generator.EventNearMiss: {
		"That close! Pure luck.",
		"Was that skill or prayer?",
		"Still swinging. Barely.",
	},
	generator.EventContinued: {
		"Back for more? Brave.",
		"A second chance. Don't waste it.",
	},
}

// Backend answers from the designer table and a fixed set of lines.
type Backend struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a local backend. Seed 0 uses the current time.
func New(seed int64) *Backend {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Backend{rng: rand.New(rand.NewSource(seed))}
}

// GeneratePattern returns the designer table row for the requested level.
func (b *Backend) GeneratePattern(ctx context.Context, req generator.PatternRequest) (generator.PatternResponse, error) {
	if err := ctx.Err(); err != nil {
		return generator.PatternResponse{}, err
	}
	return Pattern(req.Difficulty), nil
}

// GenerateCommentary picks a line for the event. A player message is echoed back.
func (b *Backend) GenerateCommentary(ctx context.Context, req generator.CommentaryRequest) (generator.CommentaryResponse, error) {
	if err := ctx.Err(); err != nil {
		return generator.CommentaryResponse{}, err
	}
	if msg := strings.TrimSpace(req.PlayerMessage); msg != "" {
		return generator.CommentaryResponse{
			Commentary: fmt.Sprintf("%q? Talk is cheap at %d points.", msg, req.Score),
		}, nil
	}

	pool, ok := lines[req.Event]
	if !ok || len(pool) == 0 {
		return generator.CommentaryResponse{}, fmt.Errorf("local: no lines for event %q", req.Event)
	}

	b.mu.Lock()
	line := pool[b.rng.Intn(len(pool))]
	b.mu.Unlock()

	if strings.Contains(line, "%[") {
		line = fmt.Sprintf(line, req.Score, req.Difficulty)
	}
	return generator.CommentaryResponse{Commentary: line}, nil
}

// Ping always succeeds.
func (b *Backend) Ping(context.Context) error { return nil }

// Offline is a backend that never answers.
type Offline struct{}

func (Offline) GeneratePattern(context.Context, generator.PatternRequest) (generator.PatternResponse, error) {
	return generator.PatternResponse{}, generator.ErrUnavailable
}

func (Offline) GenerateCommentary(context.Context, generator.CommentaryRequest) (generator.CommentaryResponse, error) {
	return generator.CommentaryResponse{}, generator.ErrUnavailable
}

func (Offline) Ping(context.Context) error { return generator.ErrUnavailable }
