package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/observer"
	"github.com/vovakirdan/rope-survival/internal/sim"
)

// snapshotMsg carries a snapshot received from an observer stream.
type snapshotMsg sim.Snapshot

// streamEndMsg reports that the observer stream closed.
type streamEndMsg struct{ err error }

// WatchKeyMap defines the watcher key bindings.
type WatchKeyMap struct {
	Autopilot key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Autopilot, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// WatchModel draws a session streamed from another process. It never
// sends anything back.
type WatchModel struct {
	source    string
	screen    *core.Screen
	shadow    *sim.Shadow
	autopilot bool
	keys      WatchKeyMap
	help      help.Model
	snap      sim.Snapshot
	received  bool
	lastTick  uint64
	ended     bool
	err       error
	quitting  bool
}

// NewWatchModel creates a watcher for the stream at source.
func NewWatchModel(source string, cfg config.GameConfig, rt core.RuntimeConfig, autopilot bool) WatchModel {
	return WatchModel{
		source:    source,
		screen:    core.NewScreen(rt.ScreenW, max(rt.ScreenH-1, 1)),
		shadow:    sim.NewShadow(cfg),
		autopilot: autopilot,
		keys: WatchKeyMap{
			Autopilot: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "autopilot")),
			Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
		},
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Autopilot):
			m.autopilot = !m.autopilot
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width

	case snapshotMsg:
		snap := sim.Snapshot(msg)
		ticks := uint64(1)
		if m.received && snap.Tick > m.lastTick {
			ticks = snap.Tick - m.lastTick
		}
		m.shadow.Observe(snap, sim.DefaultDT*time.Duration(ticks))
		m.snap = snap
		m.lastTick = snap.Tick
		m.received = true

	case streamEndMsg:
		m.ended = true
		m.err = msg.err
	}
	return m, nil
}

// View implements tea.Model.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.received {
		return fmt.Sprintf("\n  waiting for %s ...\n\n  %s", m.source, m.help.View(m.keys))
	}

	opts := DrawOptions{ScoreScale: 1, Banner: "watching " + m.source}
	if m.ended {
		opts.Banner = "stream ended"
		if m.err != nil {
			opts.Banner += ": " + m.err.Error()
		}
	}
	if m.autopilot {
		v := m.shadow.View()
		opts.Shadow = &v
	}
	DrawSnapshot(m.screen, m.snap, opts)
	return RenderScreen(m.screen) + "\n" + footerStyle.Render(m.help.View(m.keys))
}

// RunWatch streams snapshots from client into a watcher until the user
// quits or ctx is done.
func RunWatch(ctx context.Context, client *observer.Client, source string, cfg config.GameConfig, rt core.RuntimeConfig, autopilot bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewWatchModel(source, cfg, rt, autopilot),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	go func() {
		err := client.Stream(ctx, func(s sim.Snapshot) {
			p.Send(snapshotMsg(s))
		})
		p.Send(streamEndMsg{err: err})
	}()

	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
