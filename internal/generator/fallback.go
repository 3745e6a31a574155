package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// FallbackLabel is the pattern used whenever the generator fails.
const FallbackLabel = "steady horizontal"

// Fallback returns the descriptor used when no valid pattern is available.
func Fallback(difficulty int) PatternResponse {
	if difficulty < 1 {
		difficulty = 1
	}
	return PatternResponse{
		Pattern:         FallbackLabel,
		SpeedMultiplier: float64(difficulty)*0.5 + 0.5,
	}
}

// Validate reports whether a pattern can drive a hazard.
func (p PatternResponse) Validate() error {
	if strings.TrimSpace(p.Pattern) == "" {
		return errors.New("generator: empty pattern label")
	}
	if math.IsNaN(p.SpeedMultiplier) || math.IsInf(p.SpeedMultiplier, 0) || p.SpeedMultiplier <= 0 {
		return fmt.Errorf("generator: invalid speed multiplier %v", p.SpeedMultiplier)
	}
	return nil
}

// PatternOrFallback asks g for a pattern, bounded by timeout.
// It always returns a usable descriptor; the error is non-nil when the
// fallback was substituted and says why.
func PatternOrFallback(ctx context.Context, g PatternGenerator, difficulty int, timeout time.Duration) (PatternResponse, error) {
	if g == nil {
		return Fallback(difficulty), ErrUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := await(ctx, func(ctx context.Context) (PatternResponse, error) {
		return g.GeneratePattern(ctx, PatternRequest{Difficulty: difficulty})
	})
	if err == nil {
		err = resp.Validate()
	}
	if err != nil {
		return Fallback(difficulty), err
	}
	resp.Pattern = strings.TrimSpace(resp.Pattern)
	return resp, nil
}

// CommentaryWithTimeout asks g for a commentary line, bounded by timeout.
// Empty lines are reported as errors so callers keep the previous line.
func CommentaryWithTimeout(ctx context.Context, g CommentaryGenerator, req CommentaryRequest, timeout time.Duration) (string, error) {
	if g == nil {
		return "", ErrUnavailable
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := await(ctx, func(ctx context.Context) (CommentaryResponse, error) {
		return g.GenerateCommentary(ctx, req)
	})
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(resp.Commentary)
	if line == "" {
		return "", errors.New("generator: empty commentary")
	}
	return line, nil
}

type result[T any] struct {
	val T
	err error
}

// await runs fn and returns when it finishes or ctx is done, whichever is
// first. A backend that ignores ctx cannot stall the caller past the
// deadline, and a panicking backend is reported as an error.
func await[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	ch := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result[T]{err: fmt.Errorf("generator: backend panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result[T]{v, err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
