package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/generator"
	"github.com/vovakirdan/rope-survival/internal/sim"
	"github.com/vovakirdan/rope-survival/internal/storage"
)

// Options configures a play session.
type Options struct {
	Config     config.GameConfig
	Runtime    core.RuntimeConfig
	Generator  generator.Backend // nil means every pattern falls back
	Store      *storage.Store    // optional; scores and settings
	Player     string
	Sink       sim.SnapshotSink // optional, e.g. an observer hub
	Logger     *log.Logger
	Autopilot  bool    // start with the autopilot panel on
	ScoreScale float64 // presentation multiplier for the score, default 1
}

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// Model is the Bubble Tea model for playing rope survival.
type Model struct {
	engine     *sim.Engine
	shadow     *sim.Shadow
	autopilot  bool
	screen     *core.Screen
	store      *storage.Store
	player     string
	config     core.RuntimeConfig
	keys       *KeyMapper
	help       help.Model
	chat       textinput.Model
	chatting   bool
	inputFrame core.InputFrame
	pointer    core.Vec2
	aimed      bool // pointer moved since the last tick
	snap       sim.Snapshot
	lastTick   time.Time
	scoreScale float64
	scoreSaved bool // score recorded for the current game over
	status     string
	logger     *log.Logger
	quitting   bool
}

// NewModel creates a play model with its own engine.
func NewModel(opts Options) Model {
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.ScoreScale <= 0 {
		opts.ScoreScale = 1
	}
	if opts.Player == "" {
		opts.Player = "player"
	}

	var settings sim.Settings
	if opts.Store != nil {
		settings = opts.Store.Settings(opts.Player)
	}

	engine := sim.NewEngine(sim.Options{
		Config:    opts.Config,
		Seed:      cfg.Seed,
		Generator: opts.Generator,
		Settings:  settings,
		Sink:      opts.Sink,
		Logger:    opts.Logger,
	})

	chat := textinput.New()
	chat.Placeholder = "say something to the commentator"
	chat.CharLimit = 120
	chat.Prompt = "> "

	m := Model{
		engine:     engine,
		autopilot:  opts.Autopilot,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		store:      opts.Store,
		player:     opts.Player,
		config:     cfg,
		keys:       NewKeyMapper(),
		help:       help.New(),
		chat:       chat,
		inputFrame: core.NewInputFrame(),
		pointer:    core.V(opts.Config.Field.Width/2, opts.Config.Rope.InitialLength),
		snap:       engine.Snapshot(),
		scoreScale: opts.ScoreScale,
		logger:     opts.Logger,
	}
	if m.autopilot {
		m.shadow = sim.NewShadow(opts.Config)
	}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		vp := NewViewport(m.snap.FieldW, m.snap.FieldH, m.screen.Width(), m.screen.Height())
		m.pointer = vp.ToField(msg.X, msg.Y)
		m.aimed = true
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		m.chat.Width = max(msg.Width-4, 10)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chatting {
		return m.handleChatKey(msg)
	}

	keys := m.keys.Keys()
	switch {
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Chat):
		m.chatting = true
		return m, m.chat.Focus()
	case key.Matches(msg, keys.Autopilot):
		m.autopilot = !m.autopilot
		if m.autopilot && m.shadow == nil {
			m.shadow = sim.NewShadow(m.engine.Config())
		}
		return m, nil
	case key.Matches(msg, keys.Share):
		m.share()
		return m, nil
	}

	if delta, ok := m.keys.PointerDelta(msg); ok {
		field := core.NewBounds(m.snap.FieldW, m.snap.FieldH)
		m.pointer = field.Clamp(m.pointer.Add(delta))
		m.aimed = true
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}
	m.status = ""
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if text := strings.TrimSpace(m.chat.Value()); text != "" {
			m.inputFrame.Set(core.ActionSay)
			m.inputFrame.Text = text
		}
		fallthrough
	case tea.KeyEsc:
		m.chat.Reset()
		m.chat.Blur()
		m.chatting = false
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// handleTick advances the engine by the wall time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	dt := frameDT(m.lastTick, now, m.config.TickDuration())
	m.lastTick = now

	if m.aimed {
		m.inputFrame.PointAt(m.pointer)
	}
	m.engine.Step(m.inputFrame, dt)
	m.snap = m.engine.Snapshot()

	if m.autopilot && m.shadow != nil {
		m.shadow.Observe(m.snap, dt)
	}

	switch {
	case m.snap.GameOver() && !m.scoreSaved:
		m.saveScore()
		m.scoreSaved = true
	case !m.snap.GameOver():
		m.scoreSaved = false
	}

	m.inputFrame.Clear()
	m.aimed = false
	return m, tickCmd(m.config.TickRate)
}

// saveScore records the run. Each game over is recorded, so a run that
// continues after a purchase appears once per ending.
func (m *Model) saveScore() {
	if m.store == nil || m.snap.DisplayScore() <= 0 {
		return
	}
	_, err := m.store.SaveScore(storage.ScoreEntry{
		Player:     m.player,
		Score:      m.snap.DisplayScore(),
		Difficulty: m.snap.Difficulty,
		Deaths:     m.snap.Deaths,
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("cannot save score", "error", err)
	}
}

// share copies a one-line summary of the finished run to the clipboard.
func (m *Model) share() {
	if !m.snap.GameOver() {
		return
	}
	line := fmt.Sprintf("I survived the saws for %d points, level %d, in rope survival.",
		displayScore(m.snap, m.scoreScale), m.snap.Difficulty)
	if err := clipboard.WriteAll(line); err != nil {
		m.status = "clipboard unavailable"
		return
	}
	m.status = "score copied"
}

// Close releases the engine. Safe to call more than once.
func (m Model) Close() {
	m.engine.Close()
}

// Snapshot returns the last snapshot drawn.
func (m Model) Snapshot() sim.Snapshot {
	return m.snap
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	opts := DrawOptions{ScoreScale: m.scoreScale}
	if m.autopilot && m.shadow != nil {
		v := m.shadow.View()
		opts.Shadow = &v
	}
	DrawSnapshot(m.screen, m.snap, opts)

	var footer string
	switch {
	case m.chatting:
		footer = m.chat.View()
	case m.status != "":
		footer = statusStyle.Render(m.status)
	default:
		footer = footerStyle.Render(m.help.View(m.keys.Keys()))
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err := p.Run()
	return err
}
