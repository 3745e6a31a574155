package generator

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

type stubPatterns struct {
	resp  PatternResponse
	err   error
	block bool
}

func (s stubPatterns) GeneratePattern(ctx context.Context, _ PatternRequest) (PatternResponse, error) {
	if s.block {
		select {} // ignores ctx on purpose
	}
	return s.resp, s.err
}

func TestFallback(t *testing.T) {
	tests := []struct {
		difficulty int
		want       float64
	}{
		{1, 1.0},
		{2, 1.5},
		{5, 3.0},
		{0, 1.0},
		{-3, 1.0},
	}
	for _, tt := range tests {
		p := Fallback(tt.difficulty)
		if p.Pattern != FallbackLabel {
			t.Errorf("Fallback(%d).Pattern = %q", tt.difficulty, p.Pattern)
		}
		if p.SpeedMultiplier != tt.want {
			t.Errorf("Fallback(%d).SpeedMultiplier = %v, want %v", tt.difficulty, p.SpeedMultiplier, tt.want)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Fallback(%d) is invalid: %v", tt.difficulty, err)
		}
	}
}

func TestPatternOrFallback(t *testing.T) {
	tests := []struct {
		name     string
		gen      PatternGenerator
		wantErr  bool
		wantResp PatternResponse
	}{
		{"valid", stubPatterns{resp: PatternResponse{" zig-zag ", 2.5}}, false, PatternResponse{"zig-zag", 2.5}},
		{"error", stubPatterns{err: errors.New("down")}, true, Fallback(4)},
		{"empty label", stubPatterns{resp: PatternResponse{"", 2}}, true, Fallback(4)},
		{"zero multiplier", stubPatterns{resp: PatternResponse{"wave", 0}}, true, Fallback(4)},
		{"negative multiplier", stubPatterns{resp: PatternResponse{"wave", -1}}, true, Fallback(4)},
		{"nan multiplier", stubPatterns{resp: PatternResponse{"wave", math.NaN()}}, true, Fallback(4)},
		{"inf multiplier", stubPatterns{resp: PatternResponse{"wave", math.Inf(1)}}, true, Fallback(4)},
		{"nil generator", nil, true, Fallback(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PatternOrFallback(context.Background(), tt.gen, 4, time.Second)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.wantResp {
				t.Errorf("got %+v, want %+v", got, tt.wantResp)
			}
		})
	}
}

func TestPatternOrFallbackTimeout(t *testing.T) {
	start := time.Now()
	got, err := PatternOrFallback(context.Background(), stubPatterns{block: true}, 2, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if got != Fallback(2) {
		t.Errorf("got %+v, want fallback", got)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout not honored for a generator that ignores ctx")
	}
}

type stubCommentary struct {
	line string
	err  error
}

func (s stubCommentary) GenerateCommentary(context.Context, CommentaryRequest) (CommentaryResponse, error) {
	return CommentaryResponse{Commentary: s.line}, s.err
}

func TestCommentaryWithTimeout(t *testing.T) {
	line, err := CommentaryWithTimeout(context.Background(), stubCommentary{line: "  nice  "}, CommentaryRequest{Event: EventNearMiss}, time.Second)
	if err != nil || line != "nice" {
		t.Errorf("got %q, %v; want %q, nil", line, err, "nice")
	}

	if _, err := CommentaryWithTimeout(context.Background(), stubCommentary{line: "   "}, CommentaryRequest{}, time.Second); err == nil {
		t.Error("empty commentary should be an error")
	}
	if _, err := CommentaryWithTimeout(context.Background(), stubCommentary{err: ErrUnavailable}, CommentaryRequest{}, time.Second); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

type panicPatterns struct{}

func (panicPatterns) GeneratePattern(context.Context, PatternRequest) (PatternResponse, error) {
	panic("boom")
}

func TestPatternOrFallbackRecoversPanic(t *testing.T) {
	got, err := PatternOrFallback(context.Background(), panicPatterns{}, 1, time.Second)
	if err == nil {
		t.Error("expected panic to surface as an error")
	}
	if got != Fallback(1) {
		t.Errorf("got %+v, want fallback", got)
	}
}
