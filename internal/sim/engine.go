package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"runtime/debug"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/generator"
)

// DefaultDT is the tick length used when a caller passes no dt.
const DefaultDT = time.Second / 60

// Options configures an Engine.
type Options struct {
	Config     config.GameConfig
	Seed       int64             // 0 uses the current time
	Generator  generator.Backend // nil means every pattern falls back
	Dispatcher Dispatcher        // nil means a GoDispatcher
	Settings   Settings          // nil means in-memory settings
	Sink       SnapshotSink      // optional, receives every snapshot
	Logger     *log.Logger       // nil discards logs
}

// Engine owns one rope survival session. All methods except Close must be
// called from a single goroutine, normally the one driving Step.
type Engine struct {
	cfg      config.GameConfig
	field    core.Bounds
	gen      generator.Backend
	dispatch Dispatcher
	settings Settings
	sink     SnapshotSink
	log      *log.Logger
	rng      *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc

	ball        Ball
	rope        Rope
	hazards     map[uint64]*Hazard
	nextID      uint64
	session     Session
	progression Progression
	lifecycle   Lifecycle
	expression  ExpressionTracker
	chatter     Timer
	skin        Skin

	commentary      string
	commentaryEvent string
	commentaryLeft  time.Duration

	merges     mergeQueue
	generation uint64
	tick       uint64
	events     []Event // since the last published snapshot
	published  bool
}

// NewEngine creates an engine and starts the first run.
func NewEngine(opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	dispatch := opts.Dispatcher
	if dispatch == nil {
		dispatch = &GoDispatcher{}
	}
	settings := opts.Settings
	if settings == nil {
		settings = &MemorySettings{}
	}

	cfg := opts.Config
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		cfg:      cfg,
		field:    core.NewBounds(cfg.Field.Width, cfg.Field.Height),
		gen:      opts.Generator,
		dispatch: dispatch,
		settings: settings,
		sink:     opts.Sink,
		log:      logger,
		rng:      rand.New(rand.NewSource(seed)),
		ctx:      ctx,
		cancel:   cancel,
		hazards:  make(map[uint64]*Hazard),
	}
	e.ball.Radius = cfg.Physics.BallRadius
	e.rope.Anchor = core.V(e.field.Center().X, e.field.MinY)
	e.progression = NewProgression(cfg.Progression)
	e.lifecycle = NewLifecycle(cfg.Hazards)
	e.chatter = NewTimer(cfg.Commentary.Interval)

	skinID, err := settings.SelectedSkin()
	if err != nil {
		e.log.Warn("cannot load skin", "error", err)
	}
	e.skin, _ = SkinByID(skinID)

	e.restart()
	return e
}

// Close cancels outstanding generator requests and waits for them when
// the dispatcher supports it.
func (e *Engine) Close() {
	e.cancel()
	if w, ok := e.dispatch.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// Config returns the game configuration.
func (e *Engine) Config() config.GameConfig { return e.cfg }

// Generation returns the current session generation.
func (e *Engine) Generation() uint64 { return e.generation }

// Step advances the session by one tick of length dt and publishes a
// snapshot. A panic inside the tick is logged and swallowed; the next
// Step runs normally.
func (e *Engine) Step(in core.InputFrame, dt time.Duration) (res core.StepResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("tick panicked", "tick", e.tick, "panic", r, "stack", string(debug.Stack()))
			res = core.StepResult{State: e.State()}
		}
	}()

	if dt <= 0 {
		dt = DefaultDT
	}
	e.tick++
	e.flushEvents()

	e.applyMerges()
	e.handleInput(in)

	if e.session.Phase == PhasePlaying {
		e.simulate(dt)
	}

	if e.commentaryLeft > 0 {
		e.commentaryLeft -= dt
		if e.commentaryLeft <= 0 {
			e.commentary = ""
			e.commentaryEvent = ""
			e.commentaryLeft = 0
		}
	}

	if e.sink != nil {
		e.sink.Publish(e.Snapshot())
	}
	e.published = true
	return core.StepResult{State: e.State()}
}

// State returns the coarse state for the platform layer.
func (e *Engine) State() core.GameState {
	return core.GameState{
		Score:      int(e.session.Score),
		Lives:      e.session.Lives,
		Difficulty: e.progression.Level,
		GameOver:   e.session.Phase == PhaseGameOver,
		Paused:     e.session.Phase == PhasePaused,
	}
}

func (e *Engine) handleInput(in core.InputFrame) {
	if in.Has(core.ActionRestart) {
		e.restart()
	}
	if in.Has(core.ActionPause) && e.session.TogglePause() {
		if e.session.Phase == PhasePaused {
			e.emit(EventPaused, "")
		} else {
			e.emit(EventResumed, "")
		}
	}
	if in.Has(core.ActionBuyLife) {
		e.buyLife()
	}
	if in.Has(core.ActionWatchAd) {
		if err := e.session.WatchAd(); err == nil {
			e.continued("ad")
		}
	}
	if in.Has(core.ActionCycleSkin) {
		e.SelectSkin(NextSkin(e.skin.ID).ID)
	}
	if in.Has(core.ActionSay) && in.Text != "" {
		e.requestCommentary(generator.EventNearMiss, in.Text)
	}
	if in.Pointer != nil && e.session.Phase == PhasePlaying {
		ApplyPointer(&e.ball, &e.rope, *in.Pointer, e.cfg.Rope, e.cfg.Physics.Responsiveness, e.field)
	}
}

// simulate runs one Playing tick: physics, hazards, scoring, collisions,
// replenishment and the interval timers.
func (e *Engine) simulate(dt time.Duration) {
	Integrate(&e.ball, e.rope, e.cfg.Physics, e.field)

	hazards := e.sortedHazards()
	scale := SpeedScale(e.session.Deaths, e.cfg.Progression)
	StepHazards(hazards, e.ball.Pos, e.cfg.Hazards, scale, e.field, dt, e.rng)

	ev := Evaluate(e.ball, hazards, e.cfg)
	e.session.Score += ev.Points

	if ev.Hit {
		delete(e.hazards, ev.HitID)
		e.loseLife()
		// A death can switch the mercy scale on.
		e.capHazards()
	}

	e.expression.Update(ev.MinDist, e.cfg.NearMissDistance(), dt, e.cfg.Scoring.RelievedFor)

	if e.session.Phase != PhasePlaying {
		return
	}

	if ev.MinDist < e.cfg.NearMissDistance() && e.rng.Float64() < e.cfg.Scoring.NearMissChance {
		e.announce(EventNearMiss, "")
	}

	e.replenish()

	if level, raised := e.progression.Advance(dt, e.session.Score, e.session.Deaths); raised {
		e.announce(EventLevelUp, "")
		e.requestRepattern(level)
	}

	if e.chatter.Advance(dt) {
		e.requestCommentary(generator.EventNearMiss, "")
	}
}

func (e *Engine) loseLife() {
	if e.session.LoseLife() {
		e.announce(EventGameOver, "")
		e.log.Info("game over", "score", int(e.session.Score), "difficulty", e.progression.Level, "deaths", e.session.Deaths)
		return
	}
	e.resetBall()
	e.announce(EventLostLife, "")
}

func (e *Engine) buyLife() {
	err := e.session.BuyLife(e.cfg.Session.MaxPurchasedLives)
	switch {
	case errors.Is(err, ErrPurchaseCap):
		e.emit(EventPurchaseDenied, fmt.Sprintf("max %d purchased lives", e.cfg.Session.MaxPurchasedLives))
	case err == nil:
		if err := e.settings.SetPurchasedLives(e.session.Purchased); err != nil {
			e.log.Warn("cannot persist purchased lives", "error", err)
		}
		e.continued("purchase")
	}
}

func (e *Engine) continued(how string) {
	e.resetBall()
	e.expression.Reset()
	e.announce(EventContinued, how)
}

// restart begins a new run under a new generation. Results of requests
// issued before this point are dropped when they arrive.
func (e *Engine) restart() {
	e.generation++

	purchased, err := e.settings.PurchasedLives()
	if err != nil {
		e.log.Warn("cannot load purchased lives", "error", err)
	}
	e.session.Restart(e.cfg.Session.InitialLives, purchased)
	e.progression.Reset()
	e.lifecycle.Reset()
	e.expression.Reset()
	e.chatter.Reset()
	clear(e.hazards)

	e.commentary = ""
	e.commentaryEvent = ""
	e.commentaryLeft = 0

	e.rope.Length = e.cfg.Rope.InitialLength
	e.resetBall()

	for i := 0; i < e.lifecycle.Target(1); i++ {
		e.requestSpawn(InitialEdge(i))
	}

	e.announce(EventGameStart, "")
	e.log.Debug("session started", "generation", e.generation)
}

func (e *Engine) resetBall() {
	e.rope.Length = e.cfg.Rope.InitialLength
	resetBall(&e.ball, e.field, e.field.MinY+e.cfg.Rope.InitialLength)
}

func (e *Engine) replenish() {
	for n := e.lifecycle.Need(e.progression.Level, len(e.hazards)); n > 0; n-- {
		e.requestSpawn(RandomEdge(e.rng))
	}
}

// SelectSkin switches the rope skin and persists the choice.
func (e *Engine) SelectSkin(id string) {
	skin, ok := SkinByID(id)
	if !ok {
		e.log.Warn("unknown skin", "id", id)
		return
	}
	e.skin = skin
	if err := e.settings.SetSelectedSkin(skin.ID); err != nil {
		e.log.Warn("cannot persist skin", "error", err)
	}
	e.emit(EventSkinChanged, skin.Name)
}

// flushEvents drops events that already went out with a tick.
func (e *Engine) flushEvents() {
	if e.published {
		e.events = e.events[:0]
		e.published = false
	}
}

// announce emits an event and asks the commentator to react to it.
func (e *Engine) announce(kind EventKind, detail string) {
	e.emit(kind, detail)
	if event, ok := commentaryEvent(kind); ok {
		e.requestCommentary(event, "")
	}
}

func (e *Engine) emit(kind EventKind, detail string) {
	e.flushEvents()
	e.events = append(e.events, Event{
		Kind:       kind,
		Tick:       e.tick,
		Score:      int(e.session.Score),
		Difficulty: e.progression.Level,
		Lives:      e.session.Lives,
		Detail:     detail,
	})
}

// requestSpawn asks for a pattern for one new hazard entering from edge.
func (e *Engine) requestSpawn(edge Edge) {
	e.lifecycle.requested()
	gen, level := e.generation, e.progression.Level
	e.dispatch.Dispatch(func() {
		resp, err := generator.PatternOrFallback(e.ctx, e.gen, level, e.cfg.Generator.Timeout)
		e.merges.push(mergeIntent{kind: intentSpawn, generation: gen, edge: edge, level: level, pattern: resp, err: err})
	})
}

// requestRepattern asks for a pattern to apply to every live hazard.
func (e *Engine) requestRepattern(level int) {
	gen := e.generation
	e.dispatch.Dispatch(func() {
		resp, err := generator.PatternOrFallback(e.ctx, e.gen, level, e.cfg.Generator.Timeout)
		e.merges.push(mergeIntent{kind: intentRepattern, generation: gen, level: level, pattern: resp, err: err})
	})
}

// requestCommentary asks for a line about event. Nothing is requested
// after game over except the game over line itself.
func (e *Engine) requestCommentary(event generator.EventKind, playerMessage string) {
	if e.gen == nil || !e.cfg.Commentary.Enabled {
		return
	}
	if e.session.Phase == PhaseGameOver && event != generator.EventGameOver {
		return
	}
	gen := e.generation
	req := generator.CommentaryRequest{
		Score:         int(e.session.Score),
		Difficulty:    e.progression.Level,
		Event:         event,
		PlayerMessage: playerMessage,
	}
	e.dispatch.Dispatch(func() {
		line, err := generator.CommentaryWithTimeout(e.ctx, e.gen, req, e.cfg.Generator.Timeout)
		e.merges.push(mergeIntent{kind: intentCommentary, generation: gen, event: event, commentary: line, err: err})
	})
}

// applyMerges applies queued generator results in arrival order.
// Results from an earlier generation are dropped, and so is everything
// but the gameOver line once the session is over.
func (e *Engine) applyMerges() {
	for _, it := range e.merges.drain() {
		if it.generation != e.generation {
			e.log.Debug("discarding stale result", "generation", it.generation, "current", e.generation)
			continue
		}
		if e.session.Phase == PhaseGameOver && it.event != generator.EventGameOver {
			if it.kind == intentSpawn {
				e.lifecycle.landed()
			}
			e.log.Debug("discarding result after game over", "kind", it.kind)
			continue
		}
		switch it.kind {
		case intentSpawn:
			e.lifecycle.landed()
			e.noteFallback(it)
			e.spawn(it.edge, NewPattern(it.pattern))
		case intentRepattern:
			e.noteFallback(it)
			p := NewPattern(it.pattern)
			for _, h := range e.hazards {
				h.Pattern = p
			}
			e.capHazards()
		case intentCommentary:
			if it.err != nil {
				e.log.Debug("commentary unavailable", "error", it.err)
				continue
			}
			e.commentary = it.commentary
			e.commentaryEvent = string(it.event)
			e.commentaryLeft = e.cfg.Commentary.DisplayFor
		}
	}
}

// capHazards clamps every hazard to the speed cap of its current pattern
// and the current mercy scale.
func (e *Engine) capHazards() {
	scale := SpeedScale(e.session.Deaths, e.cfg.Progression)
	for _, h := range e.hazards {
		h.Vel = capSpeed(h.Vel, MaxSpeed(e.cfg.Hazards, h.Pattern, scale))
	}
}

func (e *Engine) noteFallback(it mergeIntent) {
	if it.err == nil {
		return
	}
	if errors.Is(it.err, generator.ErrUnavailable) {
		e.log.Debug("pattern fallback", "difficulty", it.level, "error", it.err)
	} else {
		e.log.Warn("pattern fallback", "difficulty", it.level, "error", it.err)
	}
	e.emit(EventFallback, it.pattern.Pattern)
}

// spawn places a new hazard off the given edge, aimed near the ball as it
// is now.
func (e *Engine) spawn(edge Edge, p Pattern) {
	if len(e.hazards) >= e.cfg.Hazards.MaxCount {
		return
	}
	e.nextID++
	pos := SpawnPoint(edge, e.field, e.cfg.Hazards.Radius, e.rng)
	speed := e.cfg.Hazards.LaunchSpeed * p.SpeedMultiplier
	vel := LaunchVelocity(pos, e.ball.Pos, e.cfg.Hazards.AimJitter, speed, e.rng)
	e.hazards[e.nextID] = &Hazard{
		ID:      e.nextID,
		Pos:     pos,
		Vel:     capSpeed(vel, MaxSpeed(e.cfg.Hazards, p, SpeedScale(e.session.Deaths, e.cfg.Progression))),
		Pattern: p,
		Edge:    edge,
	}
}

// sortedHazards returns live hazards in ID order.
func (e *Engine) sortedHazards() []*Hazard {
	out := make([]*Hazard, 0, len(e.hazards))
	for _, h := range e.hazards {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Snapshot returns an immutable view of the current state.
func (e *Engine) Snapshot() Snapshot {
	hazards := e.sortedHazards()
	views := make([]HazardView, len(hazards))
	for i, h := range hazards {
		views[i] = HazardView{
			ID:       h.ID,
			Pos:      h.Pos,
			Vel:      h.Vel,
			Radius:   e.cfg.Hazards.Radius,
			Rotation: h.Angle,
			Label:    h.Pattern.Label,
			Behavior: h.Pattern.Behavior.String(),
		}
	}

	var events []Event
	if len(e.events) > 0 {
		events = make([]Event, len(e.events))
		copy(events, e.events)
	}

	return Snapshot{
		Tick:       e.tick,
		Generation: e.generation,
		Phase:      e.session.Phase,
		FieldW:     e.field.Width(),
		FieldH:     e.field.Height(),
		Ball: BallView{
			Pos:        e.ball.Pos,
			Radius:     e.ball.Radius,
			Expression: e.expression.State(),
		},
		Rope: RopeView{
			Anchor: e.rope.Anchor,
			End:    e.ball.Pos,
			Length: e.rope.Length,
			Skin:   e.skin.ID,
			Color:  e.skin.Color,
		},
		Hazards:         views,
		Score:           e.session.Score,
		Lives:           e.session.Lives,
		Difficulty:      e.progression.Level,
		Deaths:          e.session.Deaths,
		Purchased:       e.session.Purchased,
		MaxPurchased:    e.cfg.Session.MaxPurchasedLives,
		PendingSpawns:   e.lifecycle.Pending(),
		Commentary:      e.commentary,
		CommentaryEvent: e.commentaryEvent,
		Events:          events,
	}
}
