package sim

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/generator"
	"github.com/vovakirdan/rope-survival/internal/generator/local"
)

func testOptions(gen generator.Backend) Options {
	return Options{
		Config:     config.DefaultGameConfig(),
		Seed:       42,
		Generator:  gen,
		Dispatcher: InlineDispatcher{},
	}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e := NewEngine(opts)
	t.Cleanup(e.Close)
	return e
}

func step(e *Engine, actions ...core.Action) Snapshot {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	e.Step(in, DefaultDT)
	return e.Snapshot()
}

func hasEvent(s Snapshot, kind EventKind) bool {
	for _, ev := range s.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

// placeHazard inserts a motionless hazard directly into the engine.
func placeHazard(e *Engine, pos core.Vec2) *Hazard {
	e.nextID++
	h := &Hazard{ID: e.nextID, Pos: pos, Pattern: Pattern{SpeedMultiplier: 1}}
	e.hazards[h.ID] = h
	return h
}

// collide replaces all hazards with one sitting on the ball and steps.
func collide(t *testing.T, e *Engine) Snapshot {
	t.Helper()
	if e.session.Phase != PhasePlaying {
		t.Fatalf("collide while %v", e.session.Phase)
	}
	clear(e.hazards)
	placeHazard(e, e.ball.Pos)
	return step(e)
}

// stillConfig removes every force that would move the ball or a hazard
// on its own.
func stillConfig() config.GameConfig {
	cfg := config.DefaultGameConfig()
	cfg.Physics.Gravity = 0
	cfg.Hazards.HomingGain = 0
	cfg.Hazards.RepelForce = 0
	cfg.Scoring.NearMissChance = 0
	return cfg
}

func TestEngineInitialWave(t *testing.T) {
	e := newTestEngine(t, testOptions(local.New(1)))

	s := step(e)
	if len(s.Hazards) != 3 {
		t.Fatalf("hazards = %d, want 3", len(s.Hazards))
	}
	if s.PendingSpawns != 0 {
		t.Errorf("pending = %d, want 0", s.PendingSpawns)
	}
	if !hasEvent(s, EventGameStart) {
		t.Error("first snapshot should carry the gameStart event")
	}
	if s.Commentary == "" || s.CommentaryEvent != string(generator.EventGameStart) {
		t.Errorf("commentary = %q (%s), want a gameStart line", s.Commentary, s.CommentaryEvent)
	}
	for _, h := range s.Hazards {
		if h.Label != "steady horizontal" {
			t.Errorf("hazard %d label %q, want level 1 pattern", h.ID, h.Label)
		}
	}
	if s.Lives != 3 || s.Difficulty != 1 || !s.Playing() {
		t.Errorf("initial state: lives %d difficulty %d phase %v", s.Lives, s.Difficulty, s.Phase)
	}

	if s2 := step(e); hasEvent(s2, EventGameStart) {
		t.Error("events should not repeat in the next snapshot")
	}
}

func TestEngineCollisionBoundary(t *testing.T) {
	lethal := config.DefaultGameConfig().LethalDistance()
	tests := []struct {
		name      string
		offset    float64
		wantLives int
	}{
		{"just inside", lethal - 1e-6, 2},
		{"just outside", lethal + 1e-6, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(nil)
			opts.Config = stillConfig()
			e := newTestEngine(t, opts)
			step(e)

			clear(e.hazards)
			e.ball.Pos = e.rope.Anchor.Add(core.V(0, e.rope.Length))
			e.ball.Prev = e.ball.Pos
			placeHazard(e, core.V(e.ball.Pos.X+tt.offset, e.ball.Pos.Y))

			s := step(e)
			if s.Lives != tt.wantLives {
				t.Errorf("lives = %d, want %d", s.Lives, tt.wantLives)
			}
			if tt.wantLives == 2 {
				if !hasEvent(s, EventLostLife) {
					t.Error("missing lostLife event")
				}
				if len(s.Hazards) != 0 {
					t.Errorf("hit hazard should be removed, %d left", len(s.Hazards))
				}
			}
		})
	}
}

func TestEngineLastLifeEndsRun(t *testing.T) {
	opts := testOptions(nil)
	opts.Config.Session.InitialLives = 1
	e := newTestEngine(t, opts)
	step(e)

	s := collide(t, e)
	if !s.GameOver() || s.Lives != 0 || s.Deaths != 1 {
		t.Fatalf("after last life: phase %v lives %d deaths %d", s.Phase, s.Lives, s.Deaths)
	}
	if !hasEvent(s, EventGameOver) {
		t.Error("missing gameOver event")
	}

	frozen := s
	for i := 0; i < 30; i++ {
		s = step(e)
	}
	if s.Score != frozen.Score || s.Ball.Pos != frozen.Ball.Pos {
		t.Error("state changed after game over")
	}
	for i := range s.Hazards {
		if s.Hazards[i].Pos != frozen.Hazards[i].Pos {
			t.Errorf("hazard %d moved after game over", s.Hazards[i].ID)
		}
	}
}

func TestEngineRestart(t *testing.T) {
	opts := testOptions(local.New(1))
	opts.Config.Session.InitialLives = 1
	e := newTestEngine(t, opts)
	step(e)
	e.session.Score = 123
	collide(t, e)

	gen := e.Generation()
	s := step(e, core.ActionRestart)
	if e.Generation() != gen+1 {
		t.Errorf("generation = %d, want %d", e.Generation(), gen+1)
	}
	if !s.Playing() || s.Lives != 1 || s.Deaths != 0 || s.Difficulty != 1 {
		t.Errorf("after restart: %+v", s)
	}
	if s.Score != 0 {
		t.Errorf("score = %v, want 0", s.Score)
	}
	if len(s.Hazards) != 0 || s.PendingSpawns != 3 {
		t.Errorf("hazards %d pending %d, want 0 and 3", len(s.Hazards), s.PendingSpawns)
	}
	if s.Commentary != "" {
		t.Errorf("commentary = %q, want cleared", s.Commentary)
	}

	s = step(e)
	if len(s.Hazards) != 3 || s.PendingSpawns != 0 {
		t.Errorf("next tick: hazards %d pending %d, want 3 and 0", len(s.Hazards), s.PendingSpawns)
	}
}

func TestEngineFallbackPattern(t *testing.T) {
	for _, gen := range []generator.Backend{nil, local.Offline{}} {
		e := newTestEngine(t, testOptions(gen))
		s := step(e)

		if len(s.Hazards) != 3 {
			t.Fatalf("hazards = %d, want 3", len(s.Hazards))
		}
		for _, h := range s.Hazards {
			if h.Label != generator.FallbackLabel {
				t.Errorf("label = %q, want fallback", h.Label)
			}
		}
		if !hasEvent(s, EventFallback) {
			t.Error("missing patternFallback event")
		}
		if s.Commentary != "" {
			t.Errorf("commentary = %q, want none", s.Commentary)
		}
	}
}

func TestEngineDropsStaleResults(t *testing.T) {
	held := &HeldDispatcher{}
	opts := testOptions(local.New(1))
	opts.Dispatcher = held
	e := newTestEngine(t, opts)

	step(e, core.ActionRestart)
	if held.Held() == 0 {
		t.Fatal("no requests held")
	}
	held.Release()

	s := step(e)
	if len(s.Hazards) != 3 {
		t.Errorf("hazards = %d, want 3 (stale spawns must be dropped)", len(s.Hazards))
	}
	if s.PendingSpawns != 0 {
		t.Errorf("pending = %d, want 0", s.PendingSpawns)
	}
	if e.merges.len() != 0 {
		t.Errorf("merge queue not drained: %d", e.merges.len())
	}
}

func TestEngineDropsResultsAfterGameOver(t *testing.T) {
	held := &HeldDispatcher{}
	opts := testOptions(local.New(1))
	opts.Config.Session.InitialLives = 1
	opts.Dispatcher = held
	e := newTestEngine(t, opts)
	held.Release()
	step(e)

	clear(e.hazards)
	if s := step(e); s.PendingSpawns == 0 {
		t.Fatal("no spawns in flight")
	}
	if s := collide(t, e); !s.GameOver() {
		t.Fatalf("phase = %v, want gameover", s.Phase)
	}
	held.Release()
	e.merges.push(mergeIntent{
		kind:       intentCommentary,
		generation: e.generation,
		event:      generator.EventLostLife,
		commentary: "too late",
	})

	s := step(e)
	if !s.GameOver() {
		t.Fatalf("phase = %v, want gameover", s.Phase)
	}
	if len(s.Hazards) != 0 {
		t.Errorf("hazards = %d after game over, want 0", len(s.Hazards))
	}
	if s.PendingSpawns != 0 {
		t.Errorf("pending = %d, want 0", s.PendingSpawns)
	}
	if s.CommentaryEvent != string(generator.EventGameOver) {
		t.Errorf("commentary event = %q, want gameOver", s.CommentaryEvent)
	}
}

func TestEngineLevelUpRepatterns(t *testing.T) {
	e := newTestEngine(t, testOptions(local.New(1)))
	s := step(e)
	before := make(map[uint64]bool)
	for _, h := range s.Hazards {
		before[h.ID] = true
	}

	e.session.Score = 250
	e.Step(core.NewInputFrame(), 2*time.Second)
	s = e.Snapshot()
	if s.Difficulty != 3 {
		t.Fatalf("difficulty = %d, want 3", s.Difficulty)
	}
	if !hasEvent(s, EventLevelUp) {
		t.Error("missing levelUp event")
	}

	s = step(e)
	if len(s.Hazards) != len(before) {
		t.Fatalf("hazards = %d, want %d", len(s.Hazards), len(before))
	}
	want := local.Pattern(3).Pattern
	for _, h := range s.Hazards {
		if !before[h.ID] {
			t.Errorf("hazard %d is new; repattern must keep live hazards", h.ID)
		}
		if h.Label != want {
			t.Errorf("hazard %d label %q, want %q", h.ID, h.Label, want)
		}
	}
	if s.CommentaryEvent != string(generator.EventLevelUp) {
		t.Errorf("commentary event = %q, want levelUp", s.CommentaryEvent)
	}
}

func TestEngineMercyHoldsLevel(t *testing.T) {
	e := newTestEngine(t, testOptions(nil))
	step(e)

	e.session.Score = 250
	e.session.Deaths = 5
	e.Step(core.NewInputFrame(), 2*time.Second)
	if s := e.Snapshot(); s.Difficulty != 1 || hasEvent(s, EventLevelUp) {
		t.Errorf("difficulty = %d, want 1 under mercy", s.Difficulty)
	}
}

func TestEngineCapHoldsWhenMercyStarts(t *testing.T) {
	opts := testOptions(nil)
	opts.Config = stillConfig()
	opts.Config.Session.InitialLives = 10
	opts.Config.Progression.MercyDeaths = 1
	e := newTestEngine(t, opts)
	step(e)

	clear(e.hazards)
	r := e.cfg.Hazards.Radius
	full := MaxSpeed(e.cfg.Hazards, Pattern{SpeedMultiplier: 1}, 1)
	for _, pos := range []core.Vec2{
		core.V(e.field.MinX+r+1, e.field.MaxY-r-1),
		core.V(e.field.MaxX-r-1, e.field.MaxY-r-1),
	} {
		placeHazard(e, pos).Vel = core.V(0, -full)
	}
	placeHazard(e, e.ball.Pos)

	s := step(e)
	if s.Deaths != 1 || !MercyActive(s.Deaths, e.cfg.Progression) {
		t.Fatalf("deaths = %d, want mercy active", s.Deaths)
	}
	if len(e.hazards) < 2 {
		t.Fatalf("hazards = %d, want the two survivors", len(e.hazards))
	}
	scale := SpeedScale(s.Deaths, e.cfg.Progression)
	for _, h := range e.hazards {
		if limit := MaxSpeed(e.cfg.Hazards, h.Pattern, scale); h.Vel.Len() > limit+1e-9 {
			t.Errorf("hazard %d speed %v, cap %v", h.ID, h.Vel.Len(), limit)
		}
	}
}

func TestEngineRepatternWhilePausedKeepsCap(t *testing.T) {
	e := newTestEngine(t, testOptions(nil))
	step(e)
	step(e, core.ActionPause)

	full := MaxSpeed(e.cfg.Hazards, Pattern{SpeedMultiplier: 1}, 1)
	for _, h := range e.hazards {
		h.Pattern.SpeedMultiplier = 1
		h.Vel = core.V(full, 0)
	}
	e.merges.push(mergeIntent{
		kind:       intentRepattern,
		generation: e.generation,
		pattern:    generator.PatternResponse{Pattern: "slow drift", SpeedMultiplier: 0.5},
	})

	s := step(e)
	if !s.Paused() {
		t.Fatalf("phase = %v, want paused", s.Phase)
	}
	limit := MaxSpeed(e.cfg.Hazards, Pattern{SpeedMultiplier: 0.5}, 1)
	for _, h := range e.hazards {
		if h.Pattern.Label != "slow drift" {
			t.Errorf("hazard %d label %q", h.ID, h.Pattern.Label)
		}
		if h.Vel.Len() > limit+1e-9 {
			t.Errorf("hazard %d speed %v, cap %v", h.ID, h.Vel.Len(), limit)
		}
	}
}

type panickySettings struct {
	MemorySettings
}

func (p *panickySettings) SetSelectedSkin(string) error {
	panic("disk on fire")
}

func TestEngineRecoversFromPanic(t *testing.T) {
	opts := testOptions(nil)
	opts.Settings = &panickySettings{}
	e := newTestEngine(t, opts)
	step(e)

	in := core.NewInputFrame()
	in.Set(core.ActionCycleSkin)
	res := e.Step(in, DefaultDT)
	if res.State.GameOver {
		t.Error("unexpected game over")
	}

	tick := e.Snapshot().Tick
	s := step(e)
	if s.Tick != tick+1 {
		t.Errorf("tick = %d, want %d", s.Tick, tick+1)
	}
	if !s.Playing() {
		t.Errorf("phase = %v after recovered panic", s.Phase)
	}
}

func TestEnginePauseFreezes(t *testing.T) {
	e := newTestEngine(t, testOptions(local.New(1)))
	for i := 0; i < 10; i++ {
		step(e)
	}

	paused := step(e, core.ActionPause)
	if !paused.Paused() || !hasEvent(paused, EventPaused) {
		t.Fatalf("phase = %v, want paused", paused.Phase)
	}
	elapsed := e.progression.timer.Elapsed()

	var s Snapshot
	for i := 0; i < 300; i++ {
		s = step(e)
	}
	if s.Ball != paused.Ball || s.Score != paused.Score {
		t.Error("ball or score changed while paused")
	}
	if !reflect.DeepEqual(s.Hazards, paused.Hazards) {
		t.Error("hazards changed while paused")
	}
	if e.progression.timer.Elapsed() != elapsed {
		t.Error("progression timer advanced while paused")
	}

	s = step(e, core.ActionPause)
	if !s.Playing() || !hasEvent(s, EventResumed) {
		t.Fatalf("phase = %v, want playing", s.Phase)
	}
	if s.Ball.Pos == paused.Ball.Pos {
		t.Error("ball did not move after resume")
	}
}

func TestEnginePurchasedLivesCap(t *testing.T) {
	settings := &MemorySettings{}
	opts := testOptions(nil)
	opts.Config.Session.InitialLives = 1
	opts.Config.Session.MaxPurchasedLives = 2
	opts.Settings = settings
	e := newTestEngine(t, opts)
	step(e)

	for i := 1; i <= 2; i++ {
		collide(t, e)
		s := step(e, core.ActionBuyLife)
		if !s.Playing() || s.Lives != 1 || s.Purchased != i {
			t.Fatalf("purchase %d: phase %v lives %d purchased %d", i, s.Phase, s.Lives, s.Purchased)
		}
		if !hasEvent(s, EventContinued) {
			t.Errorf("purchase %d: missing continued event", i)
		}
	}
	if n, _ := settings.PurchasedLives(); n != 2 {
		t.Errorf("persisted purchases = %d, want 2", n)
	}

	collide(t, e)
	s := step(e, core.ActionBuyLife)
	if !s.GameOver() || !hasEvent(s, EventPurchaseDenied) {
		t.Fatalf("purchase over cap: phase %v events %+v", s.Phase, s.Events)
	}

	s = step(e, core.ActionWatchAd)
	if !s.Playing() || s.Lives != 1 {
		t.Fatalf("ad continue: phase %v lives %d", s.Phase, s.Lives)
	}

	s = step(e, core.ActionRestart)
	if s.Purchased != 2 || s.Lives != 1 {
		t.Errorf("restart: purchased %d lives %d, want 2 and 1", s.Purchased, s.Lives)
	}
}

func TestEngineContinueOnlyAfterGameOver(t *testing.T) {
	e := newTestEngine(t, testOptions(nil))
	step(e)
	s := step(e, core.ActionBuyLife, core.ActionWatchAd)
	if s.Lives != 3 || s.Purchased != 0 || hasEvent(s, EventContinued) {
		t.Errorf("continue while playing changed state: lives %d purchased %d", s.Lives, s.Purchased)
	}
}

func TestEngineCommentaryLifetime(t *testing.T) {
	e := newTestEngine(t, testOptions(local.New(1)))
	s := step(e)
	if s.Commentary == "" {
		t.Fatal("no opening commentary")
	}

	e.Step(core.NewInputFrame(), e.Config().Commentary.DisplayFor)
	if s := e.Snapshot(); s.Commentary != "" {
		t.Errorf("commentary = %q after display time", s.Commentary)
	}
}

func TestEngineCommentaryDisabled(t *testing.T) {
	opts := testOptions(local.New(1))
	opts.Config.Commentary.Enabled = false
	e := newTestEngine(t, opts)
	for i := 0; i < 5; i++ {
		if s := step(e); s.Commentary != "" {
			t.Fatalf("commentary %q while disabled", s.Commentary)
		}
	}
}

func TestEnginePlayerMessage(t *testing.T) {
	e := newTestEngine(t, testOptions(local.New(1)))
	step(e)

	in := core.NewInputFrame()
	in.Set(core.ActionSay)
	in.Text = "watch this"
	e.Step(in, DefaultDT)

	if s := step(e); !strings.Contains(s.Commentary, "watch this") {
		t.Errorf("commentary = %q, want the message echoed", s.Commentary)
	}
}

func TestEngineGameOverCommentaryOnly(t *testing.T) {
	opts := testOptions(local.New(1))
	opts.Config.Session.InitialLives = 1
	e := newTestEngine(t, opts)
	step(e)
	collide(t, e)

	s := step(e)
	if s.CommentaryEvent != string(generator.EventGameOver) {
		t.Fatalf("commentary event = %q, want gameOver", s.CommentaryEvent)
	}
	line := s.Commentary

	in := core.NewInputFrame()
	in.Set(core.ActionSay)
	in.Text = "hello?"
	e.Step(in, DefaultDT)
	if s := step(e); s.Commentary != line {
		t.Errorf("commentary replaced after game over: %q", s.Commentary)
	}
}

func TestEngineSkins(t *testing.T) {
	settings := &MemorySettings{}
	settings.SetSelectedSkin("metal") //nolint:errcheck

	opts := testOptions(nil)
	opts.Settings = settings
	e := newTestEngine(t, opts)

	s := step(e)
	if s.Rope.Skin != "metal" || s.Rope.Color != "#C0C0C0" {
		t.Fatalf("rope skin = %s %s, want metal", s.Rope.Skin, s.Rope.Color)
	}

	s = step(e, core.ActionCycleSkin)
	if s.Rope.Skin != "default" || !hasEvent(s, EventSkinChanged) {
		t.Errorf("after cycle: skin %s", s.Rope.Skin)
	}
	if id, _ := settings.SelectedSkin(); id != "default" {
		t.Errorf("persisted skin = %q", id)
	}

	e.SelectSkin("no-such-skin")
	if e.Snapshot().Rope.Skin != "default" {
		t.Error("unknown skin should be ignored")
	}
}

func TestEngineDeterministic(t *testing.T) {
	run := func() []Snapshot {
		e := newTestEngine(t, testOptions(local.New(9)))
		rng := rand.New(rand.NewSource(5))
		var out []Snapshot
		for i := 0; i < 600; i++ {
			in := core.NewInputFrame()
			in.PointAt(core.V(rng.Float64()*800, rng.Float64()*600))
			if e.State().GameOver {
				in.Set(core.ActionRestart)
			}
			e.Step(in, DefaultDT)
			out = append(out, e.Snapshot())
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			t.Fatalf("runs diverged at tick %d", i+1)
		}
	}
}

func TestEngineInvariantsUnderRandomInput(t *testing.T) {
	e := newTestEngine(t, testOptions(local.New(3)))
	cfg := e.Config()
	inner := core.NewBounds(cfg.Field.Width, cfg.Field.Height).Inset(cfg.Physics.BallRadius)
	rng := rand.New(rand.NewSource(11))

	weird := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1e9, 1e9}
	var last Snapshot
	for i := 0; i < 5000; i++ {
		in := core.NewInputFrame()
		x, y := rng.Float64()*1000-100, rng.Float64()*800-100
		if rng.Intn(20) == 0 {
			x = weird[rng.Intn(len(weird))]
		}
		in.PointAt(core.V(x, y))
		if e.State().GameOver {
			in.Set(core.ActionRestart)
		}

		e.Step(in, DefaultDT)
		s := e.Snapshot()

		if !inner.Contains(s.Ball.Pos) {
			t.Fatalf("tick %d: ball %+v outside %+v", s.Tick, s.Ball.Pos, inner)
		}
		if s.Rope.Length < cfg.Rope.MinLength || s.Rope.Length > cfg.Rope.MaxLength {
			t.Fatalf("tick %d: rope length %v out of band", s.Tick, s.Rope.Length)
		}
		if len(s.Hazards) > cfg.Hazards.MaxCount {
			t.Fatalf("tick %d: %d hazards over cap", s.Tick, len(s.Hazards))
		}
		if s.Generation == last.Generation {
			if s.Score < last.Score {
				t.Fatalf("tick %d: score went down %v -> %v", s.Tick, last.Score, s.Score)
			}
			if s.Difficulty < last.Difficulty {
				t.Fatalf("tick %d: difficulty went down", s.Tick)
			}
		}
		scale := SpeedScale(s.Deaths, cfg.Progression)
		for _, h := range s.Hazards {
			max := cfg.Hazards.CapFactor * h.speedMultiplier(e) * scale
			if h.Vel.Len() > max*(1+1e-9) {
				t.Fatalf("tick %d: hazard %d speed %v over cap %v", s.Tick, h.ID, h.Vel.Len(), max)
			}
		}
		last = s
	}
}

// speedMultiplier looks up the live pattern of a hazard view.
func (h HazardView) speedMultiplier(e *Engine) float64 {
	if live, ok := e.hazards[h.ID]; ok {
		return live.Pattern.SpeedMultiplier
	}
	return math.Inf(1)
}
