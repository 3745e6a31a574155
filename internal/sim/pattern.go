package sim

import (
	"strings"

	"github.com/vovakirdan/rope-survival/internal/generator"
)

// Behavior is the motion variant a pattern label maps to.
// It is decided once when a descriptor arrives.
type Behavior int

const (
	BehaviorSteady Behavior = iota
	BehaviorHoming
	BehaviorWave
	BehaviorZigZag
	BehaviorErraticReversal
)

// String returns the behavior name.
func (b Behavior) String() string {
	switch b {
	case BehaviorSteady:
		return "steady"
	case BehaviorHoming:
		return "homing"
	case BehaviorWave:
		return "wave"
	case BehaviorZigZag:
		return "zigzag"
	case BehaviorErraticReversal:
		return "erratic"
	default:
		return "unknown"
	}
}

// Keywords checked in order; the first hit wins.
var behaviorKeywords = []struct {
	word     string
	behavior Behavior
}{
	{"erratic", BehaviorErraticReversal},
	{"reversal", BehaviorErraticReversal},
	{"sudden", BehaviorErraticReversal},
	{"zig", BehaviorZigZag},
	{"wave", BehaviorWave},
	{"sinus", BehaviorWave},
	{"homing", BehaviorHoming},
	{"chase", BehaviorHoming},
	{"seek", BehaviorHoming},
}

// Classify maps a free-form pattern label to a Behavior.
func Classify(label string) Behavior {
	l := strings.ToLower(label)
	for _, k := range behaviorKeywords {
		if strings.Contains(l, k.word) {
			return k.behavior
		}
	}
	return BehaviorSteady
}

// Pattern is a hazard motion descriptor.
type Pattern struct {
	Label           string
	SpeedMultiplier float64
	Behavior        Behavior
}

// NewPattern builds a Pattern from a generator response.
func NewPattern(resp generator.PatternResponse) Pattern {
	return Pattern{
		Label:           resp.Pattern,
		SpeedMultiplier: resp.SpeedMultiplier,
		Behavior:        Classify(resp.Pattern),
	}
}

// Behavior tuning. Homing saws pull harder, waves sway sideways,
// zig-zags snap their lateral direction on a fixed period.
const (
	homingBoost    = 2.0
	waveAmplitude  = 0.15 // lateral impulse per tick at unit speed
	waveFrequency  = 3.0  // radians per second of age
	zigZagPeriod   = 0.6  // seconds between lateral flips
	zigZagStrength = 0.2
)
