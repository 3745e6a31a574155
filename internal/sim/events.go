package sim

import "github.com/vovakirdan/rope-survival/internal/generator"

// EventKind names something that happened during a tick.
type EventKind string

const (
	EventGameStart      EventKind = "gameStart"
	EventLevelUp        EventKind = "levelUp"
	EventLostLife       EventKind = "lostLife"
	EventGameOver       EventKind = "gameOver"
	EventNearMiss       EventKind = "nearMiss"
	EventContinued      EventKind = "continued"
	EventPaused         EventKind = "paused"
	EventResumed        EventKind = "resumed"
	EventPurchaseDenied EventKind = "purchaseDenied"
	EventSkinChanged    EventKind = "skinChanged"
	EventFallback       EventKind = "patternFallback"
)

// Event is emitted into the tick's snapshot.
type Event struct {
	Kind       EventKind `msgpack:"kind"`
	Tick       uint64    `msgpack:"tick"`
	Score      int       `msgpack:"score"`
	Difficulty int       `msgpack:"difficulty"`
	Lives      int       `msgpack:"lives"`
	Detail     string    `msgpack:"detail,omitempty"`
}

// commentaryEvent maps an event to the commentary request kind, if the
// commentator reacts to it.
func commentaryEvent(k EventKind) (generator.EventKind, bool) {
	switch k {
	case EventGameStart:
		return generator.EventGameStart, true
	case EventLevelUp:
		return generator.EventLevelUp, true
	case EventLostLife:
		return generator.EventLostLife, true
	case EventGameOver:
		return generator.EventGameOver, true
	case EventNearMiss:
		return generator.EventNearMiss, true
	case EventContinued:
		return generator.EventContinued, true
	default:
		return "", false
	}
}
