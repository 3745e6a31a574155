package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/generator"
)

func TestTimer(t *testing.T) {
	tm := NewTimer(2 * time.Second)
	if tm.Advance(time.Second) {
		t.Fatal("fired early")
	}
	if !tm.Advance(time.Second) {
		t.Fatal("did not fire at interval")
	}
	if tm.Elapsed() != 0 {
		t.Errorf("elapsed = %v, want 0", tm.Elapsed())
	}
	if !tm.Advance(5 * time.Second) {
		t.Fatal("did not fire on long dt")
	}
	if tm.Elapsed() != time.Second {
		t.Errorf("elapsed = %v, want 1s", tm.Elapsed())
	}
	if tm.Advance(0) || tm.Advance(-time.Second) {
		t.Error("non-positive dt fired")
	}

	tm.Reset()
	if tm.Elapsed() != 0 {
		t.Error("Reset did not clear elapsed")
	}

	var zero Timer
	if zero.Advance(time.Hour) {
		t.Error("zero interval timer fired")
	}
}

func TestProgressionCandidate(t *testing.T) {
	pc := config.DefaultGameConfig().Progression
	p := NewProgression(pc)

	tests := []struct {
		score  float64
		deaths int
		want   int
	}{
		{0, 0, 1},
		{99.9, 0, 1},
		{100, 0, 2},
		{250, 0, 3},
		{250, 4, 3},
		{250, 5, 1},
		{450, 5, 3},
		{0, 9, 1},
	}
	for _, tt := range tests {
		if got := p.Candidate(tt.score, tt.deaths); got != tt.want {
			t.Errorf("Candidate(%v, %d) = %d, want %d", tt.score, tt.deaths, got, tt.want)
		}
	}
}

func TestProgressionAdvance(t *testing.T) {
	p := NewProgression(config.DefaultGameConfig().Progression)

	if level, raised := p.Advance(time.Second, 250, 0); raised || level != 1 {
		t.Fatalf("before interval: level %d raised %v", level, raised)
	}
	if level, raised := p.Advance(time.Second, 250, 0); !raised || level != 3 {
		t.Fatalf("at interval: level %d raised %v, want 3 true", level, raised)
	}
	// A lower candidate never lowers the level.
	if level, raised := p.Advance(2*time.Second, 250, 5); raised || level != 3 {
		t.Fatalf("mercy after raise: level %d raised %v, want 3 false", level, raised)
	}

	p.Reset()
	if p.Level != 1 {
		t.Errorf("Reset level = %d", p.Level)
	}
}

func TestSpeedScale(t *testing.T) {
	pc := config.DefaultGameConfig().Progression
	if SpeedScale(4, pc) != 1 {
		t.Error("scale below mercy threshold should be 1")
	}
	if SpeedScale(5, pc) != pc.MercySpeedScale {
		t.Error("scale at mercy threshold should be the mercy scale")
	}
	pc.MercyDeaths = 0
	if MercyActive(100, pc) {
		t.Error("mercy with zero threshold should be disabled")
	}
}

func TestEvaluateLethalBoundary(t *testing.T) {
	cfg := config.DefaultGameConfig()
	ball := Ball{Pos: core.V(400, 300), Radius: cfg.Physics.BallRadius}
	lethal := cfg.LethalDistance()

	inside := Evaluate(ball, []*Hazard{{ID: 1, Pos: core.V(400+lethal-1e-6, 300)}}, cfg)
	if !inside.Hit || inside.HitID != 1 {
		t.Errorf("just inside lethal range: %+v", inside)
	}
	outside := Evaluate(ball, []*Hazard{{ID: 1, Pos: core.V(400+lethal+1e-6, 300)}}, cfg)
	if outside.Hit {
		t.Errorf("just outside lethal range: %+v", outside)
	}
}

func TestEvaluatePoints(t *testing.T) {
	cfg := config.DefaultGameConfig()
	ball := Ball{Pos: core.V(400, 300)}
	band := cfg.ScoringDistance()

	tests := []struct {
		name    string
		hazards []*Hazard
		want    float64
	}{
		{"none", nil, 0},
		{"far", []*Hazard{{ID: 1, Pos: core.V(0, 0)}}, cfg.Scoring.SurvivalPoints},
		{"half band", []*Hazard{{ID: 1, Pos: core.V(400+band/2, 300)}}, cfg.Scoring.ProximityPoints / 2},
		{"mixed", []*Hazard{
			{ID: 1, Pos: core.V(400+band/2, 300)},
			{ID: 2, Pos: core.V(0, 0)},
		}, cfg.Scoring.ProximityPoints/2 + cfg.Scoring.SurvivalPoints},
	}
	for _, tt := range tests {
		ev := Evaluate(ball, tt.hazards, cfg)
		if math.Abs(ev.Points-tt.want) > 1e-12 {
			t.Errorf("%s: points = %v, want %v", tt.name, ev.Points, tt.want)
		}
	}

	if ev := Evaluate(ball, nil, cfg); !math.IsInf(ev.MinDist, 1) {
		t.Errorf("MinDist with no hazards = %v, want +Inf", ev.MinDist)
	}
}

func TestEvaluateClosestHitWins(t *testing.T) {
	cfg := config.DefaultGameConfig()
	ball := Ball{Pos: core.V(400, 300)}
	hazards := []*Hazard{
		{ID: 1, Pos: core.V(440, 300)},
		{ID: 2, Pos: core.V(410, 300)},
		{ID: 3, Pos: core.V(390, 300)},
	}
	ev := Evaluate(ball, hazards, cfg)
	if !ev.Hit || ev.HitID != 2 {
		t.Errorf("HitID = %d, want 2 (closest, lowest id on tie)", ev.HitID)
	}
	if ev.MinDist != 10 {
		t.Errorf("MinDist = %v, want 10", ev.MinDist)
	}
}

func TestExpressionTracker(t *testing.T) {
	var tr ExpressionTracker
	dt := 300 * time.Millisecond
	relieved := 500 * time.Millisecond

	steps := []struct {
		dist float64
		want Expression
	}{
		{200, ExpressionNormal},
		{50, ExpressionScared},
		{60, ExpressionScared},
		{200, ExpressionRelieved},
		{200, ExpressionRelieved},
		{200, ExpressionNormal},
		{math.Inf(1), ExpressionNormal},
	}
	for i, s := range steps {
		if got := tr.Update(s.dist, 100, dt, relieved); got != s.want {
			t.Fatalf("step %d: got %v, want %v", i, got, s.want)
		}
	}

	tr.Update(10, 100, dt, relieved)
	tr.Reset()
	if tr.State() != ExpressionNormal {
		t.Error("Reset should return to normal")
	}
}

func TestLifecycleTarget(t *testing.T) {
	hc := config.DefaultGameConfig().Hazards
	l := NewLifecycle(hc)
	for _, level := range []int{0, 1, 5, 50} {
		if got := l.Target(level); got != 3 {
			t.Errorf("Target(%d) = %d, want 3", level, got)
		}
	}

	hc.PerLevel = 1
	l = NewLifecycle(hc)
	if got := l.Target(3); got != 5 {
		t.Errorf("Target(3) = %d, want 5", got)
	}
	if got := l.Target(10); got != hc.MaxCount {
		t.Errorf("Target(10) = %d, want cap %d", got, hc.MaxCount)
	}
}

func TestLifecycleNeedCountsPending(t *testing.T) {
	l := NewLifecycle(config.DefaultGameConfig().Hazards)
	if n := l.Need(1, 0); n != 3 {
		t.Fatalf("Need = %d, want 3", n)
	}
	l.requested()
	l.requested()
	if n := l.Need(1, 0); n != 1 {
		t.Errorf("Need with 2 pending = %d, want 1", n)
	}
	l.landed()
	if n := l.Need(1, 1); n != 1 {
		t.Errorf("Need with 1 live 1 pending = %d, want 1", n)
	}
	if n := l.Need(1, 5); n != 0 {
		t.Errorf("Need over target = %d, want 0", n)
	}
	l.Reset()
	l.landed()
	if l.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", l.Pending())
	}
}

func TestInitialEdges(t *testing.T) {
	want := []Edge{EdgeLeft, EdgeLeft, EdgeRight, EdgeLeft}
	for i, e := range want {
		if got := InitialEdge(i); got != e {
			t.Errorf("InitialEdge(%d) = %v, want %v", i, got, e)
		}
	}
}

func TestSpawnPoint(t *testing.T) {
	field := core.NewBounds(800, 600)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		e := RandomEdge(rng)
		p := SpawnPoint(e, field, 40, rng)
		switch e {
		case EdgeLeft:
			if p.X != -40 || p.Y < 0 || p.Y > 600 {
				t.Fatalf("left spawn %+v", p)
			}
		case EdgeRight:
			if p.X != 840 || p.Y < 0 || p.Y > 600 {
				t.Fatalf("right spawn %+v", p)
			}
		case EdgeTop:
			if p.Y != -40 || p.X < 0 || p.X > 800 {
				t.Fatalf("top spawn %+v", p)
			}
		case EdgeBottom:
			if p.Y != 640 || p.X < 0 || p.X > 800 {
				t.Fatalf("bottom spawn %+v", p)
			}
		}
	}
}

func TestLaunchVelocity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	from := core.V(-40, 300)
	ball := core.V(400, 200)
	for i := 0; i < 50; i++ {
		v := LaunchVelocity(from, ball, 200, 3, rng)
		if math.Abs(v.Len()-3) > 1e-9 {
			t.Fatalf("speed = %v, want 3", v.Len())
		}
		if v.X <= 0 {
			t.Fatalf("velocity %+v does not head into the field", v)
		}
	}

	if v := LaunchVelocity(ball, ball, 0, 3, rng); v != (core.Vec2{}) {
		t.Errorf("degenerate aim = %+v, want zero", v)
	}
}

func TestSessionLives(t *testing.T) {
	var s Session
	s.Restart(3, 1)
	if s.Phase != PhasePlaying || s.Lives != 3 || s.Purchased != 1 {
		t.Fatalf("Restart: %+v", s)
	}
	if s.LoseLife() || s.LoseLife() {
		t.Fatal("game over too early")
	}
	if !s.LoseLife() {
		t.Fatal("third loss should end the run")
	}
	if s.Lives != 0 || s.Phase != PhaseGameOver || s.Deaths != 3 {
		t.Errorf("after game over: %+v", s)
	}
	if s.TogglePause() {
		t.Error("pause should not toggle after game over")
	}
}

func TestSessionContinue(t *testing.T) {
	var s Session
	s.Restart(1, 0)

	if err := s.BuyLife(3); !errors.Is(err, ErrNotGameOver) {
		t.Errorf("BuyLife while playing: %v", err)
	}
	if err := s.WatchAd(); !errors.Is(err, ErrNotGameOver) {
		t.Errorf("WatchAd while playing: %v", err)
	}

	for i := 1; i <= 3; i++ {
		s.LoseLife()
		if err := s.BuyLife(3); err != nil {
			t.Fatalf("purchase %d: %v", i, err)
		}
		if s.Lives != 1 || s.Phase != PhasePlaying || s.Purchased != i {
			t.Fatalf("after purchase %d: %+v", i, s)
		}
	}

	s.LoseLife()
	if err := s.BuyLife(3); !errors.Is(err, ErrPurchaseCap) {
		t.Fatalf("fourth purchase: %v", err)
	}
	if s.Phase != PhaseGameOver {
		t.Fatal("denied purchase should stay game over")
	}
	for i := 0; i < 5; i++ {
		if err := s.WatchAd(); err != nil {
			t.Fatalf("ad %d: %v", i, err)
		}
		s.LoseLife()
	}
}

func TestSessionPause(t *testing.T) {
	var s Session
	s.Restart(3, 0)
	if !s.TogglePause() || s.Phase != PhasePaused {
		t.Fatal("pause failed")
	}
	if !s.TogglePause() || s.Phase != PhasePlaying {
		t.Fatal("resume failed")
	}
}

func TestNewPattern(t *testing.T) {
	p := NewPattern(generator.PatternResponse{Pattern: "Homing missile", SpeedMultiplier: 2.5})
	if p.Behavior != BehaviorHoming || p.SpeedMultiplier != 2.5 || p.Label != "Homing missile" {
		t.Errorf("NewPattern = %+v", p)
	}
}
