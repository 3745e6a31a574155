// Package tui provides the Bubble Tea front end for rope survival: local
// play, the read-only watcher, the scoreboard and SSH sessions via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// maxFrameDT bounds the simulated time of one frame so a stalled terminal
// does not teleport the pendulum.
const maxFrameDT = 100 * time.Millisecond

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameDT returns the simulated time between two ticks.
func frameDT(prev, now time.Time, nominal time.Duration) time.Duration {
	if prev.IsZero() {
		return nominal
	}
	dt := now.Sub(prev)
	if dt <= 0 {
		return nominal
	}
	if dt > maxFrameDT {
		return maxFrameDT
	}
	return dt
}
