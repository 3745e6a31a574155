package sim

import "errors"

// Phase is the session's top-level state.
type Phase int

const (
	PhasePlaying Phase = iota
	PhasePaused
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

var (
	// ErrNotGameOver is returned by continue actions outside GameOver.
	ErrNotGameOver = errors.New("sim: session is not over")
	// ErrPurchaseCap is returned when no more lives may be bought.
	ErrPurchaseCap = errors.New("sim: purchased lives cap reached")
)

// Session tracks phase, lives and score.
type Session struct {
	Phase     Phase
	Lives     int
	Purchased int // lives bought so far, persisted across restarts
	Deaths    int
	Score     float64
}

// Restart begins a fresh run.
func (s *Session) Restart(lives, purchased int) {
	*s = Session{
		Phase:     PhasePlaying,
		Lives:     lives,
		Purchased: purchased,
	}
}

// LoseLife handles a lethal collision and reports whether the run ended.
func (s *Session) LoseLife() (gameOver bool) {
	s.Deaths++
	if s.Lives > 1 {
		s.Lives--
		return false
	}
	s.Lives = 0
	s.Phase = PhaseGameOver
	return true
}

// TogglePause flips between Playing and Paused. It has no effect after
// game over and reports whether the phase changed.
func (s *Session) TogglePause() bool {
	switch s.Phase {
	case PhasePlaying:
		s.Phase = PhasePaused
	case PhasePaused:
		s.Phase = PhasePlaying
	default:
		return false
	}
	return true
}

// BuyLife grants one life after game over while under the purchase cap.
func (s *Session) BuyLife(maxPurchased int) error {
	if s.Phase != PhaseGameOver {
		return ErrNotGameOver
	}
	if s.Purchased >= maxPurchased {
		return ErrPurchaseCap
	}
	s.Purchased++
	s.revive()
	return nil
}

// WatchAd grants one life after game over. It is not capped.
func (s *Session) WatchAd() error {
	if s.Phase != PhaseGameOver {
		return ErrNotGameOver
	}
	s.revive()
	return nil
}

func (s *Session) revive() {
	s.Lives = 1
	s.Phase = PhasePlaying
}
