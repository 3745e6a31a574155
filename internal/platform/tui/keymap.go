package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rope-survival/internal/core"
)

// pointerStep is how far, in playfield units, the arrow keys move the
// virtual pointer on terminals without mouse reporting.
const pointerStep = 40

// KeyMap defines the in-game key bindings.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Shorter   key.Binding
	Longer    key.Binding
	Pause     key.Binding
	Restart   key.Binding
	BuyLife   key.Binding
	WatchAd   key.Binding
	CycleSkin key.Binding
	Chat      key.Binding
	Autopilot key.Binding
	Share     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Restart, k.Chat, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Shorter, k.Longer},
		{k.Pause, k.Restart, k.BuyLife, k.WatchAd},
		{k.CycleSkin, k.Chat, k.Autopilot, k.Share},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "swing left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "swing right"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "shorter rope"),
		),
		Longer: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "longer rope"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		BuyLife: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "buy a life"),
		),
		WatchAd: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "watch an ad"),
		),
		CycleSkin: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next skin"),
		),
		Chat: key.NewBinding(
			key.WithKeys("enter", "t"),
			key.WithHelp("t", "talk"),
		),
		Autopilot: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "autopilot"),
		),
		Share: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy score"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to a simulation action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, km.keys.Pause):
		return core.ActionPause, false
	case key.Matches(msg, km.keys.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, km.keys.BuyLife):
		return core.ActionBuyLife, false
	case key.Matches(msg, km.keys.WatchAd):
		return core.ActionWatchAd, false
	case key.Matches(msg, km.keys.CycleSkin):
		return core.ActionCycleSkin, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && action != core.ActionQuit {
		frame.Set(action)
	}
	return isQuit
}

// PointerDelta returns how a key moves the virtual pointer, if at all.
func (km *KeyMapper) PointerDelta(msg tea.KeyMsg) (core.Vec2, bool) {
	switch {
	case key.Matches(msg, km.keys.Left):
		return core.V(-pointerStep, 0), true
	case key.Matches(msg, km.keys.Right):
		return core.V(pointerStep, 0), true
	case key.Matches(msg, km.keys.Shorter):
		return core.V(0, -pointerStep), true
	case key.Matches(msg, km.keys.Longer):
		return core.V(0, pointerStep), true
	}
	return core.Vec2{}, false
}
