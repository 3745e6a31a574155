package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionPause            // P - pause/resume
	ActionRestart          // R - restart after game over (or any time)
	ActionBuyLife          // B - simulated purchase of one extra life
	ActionWatchAd          // A - simulated ad view for one extra life
	ActionCycleSkin        // K - switch to the next rope skin
	ActionSay              // Enter in chat - send Text to the commentator
	ActionQuit             // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBuyLife:
		return "BuyLife"
	case ActionWatchAd:
		return "WatchAd"
	case ActionCycleSkin:
		return "CycleSkin"
	case ActionSay:
		return "Say"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is the player input for a single simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool

	// Pointer is the cursor position in playfield coordinates, if the
	// player moved it this frame.
	Pointer *Vec2

	// Text accompanies ActionSay.
	Text string
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// PointAt records a pointer position for this frame.
func (f *InputFrame) PointAt(p Vec2) {
	f.Pointer = &p
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer = nil
	f.Text = ""
}
