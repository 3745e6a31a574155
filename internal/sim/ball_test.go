package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/rope-survival/internal/config"
	"github.com/vovakirdan/rope-survival/internal/core"
)

func TestIntegrateAtRestOnCircleStaysPut(t *testing.T) {
	field := core.NewBounds(10000, 10000)
	rope := Rope{Anchor: core.V(5000, 5000), Length: 200}
	b := Ball{Pos: core.V(5000, 5200), Prev: core.V(5000, 5200), Radius: 15}
	p := config.PhysicsConfig{Gravity: 0, Damping: 1}

	for i := 0; i < 500; i++ {
		Integrate(&b, rope, p, field)
		if d := b.Pos.Dist(rope.Anchor); math.Abs(d-rope.Length) > 1e-9 {
			t.Fatalf("tick %d: distance %v drifted from %v", i, d, rope.Length)
		}
	}
}

func TestIntegrateSwingStaysOnRope(t *testing.T) {
	field := core.NewBounds(10000, 10000)
	rope := Rope{Anchor: core.V(5000, 5000), Length: 200}
	// Tangential initial velocity of 2 units per tick
	b := Ball{Pos: core.V(5000, 5200), Prev: core.V(4998, 5200), Radius: 15}
	p := config.PhysicsConfig{Gravity: 0, Damping: 1}

	for i := 0; i < 2000; i++ {
		Integrate(&b, rope, p, field)
		if d := b.Pos.Dist(rope.Anchor); math.Abs(d-rope.Length) > 0.01*rope.Length {
			t.Fatalf("tick %d: distance %v left the rope band around %v", i, d, rope.Length)
		}
	}
}

func TestIntegrateGravityAndDamping(t *testing.T) {
	field := core.NewBounds(800, 600)
	// Rope longer than the drop so the constraint only pulls back halfway
	rope := Rope{Anchor: core.V(400, 0), Length: 100}
	b := Ball{Pos: core.V(400, 100), Prev: core.V(400, 100), Radius: 15}
	p := config.PhysicsConfig{Gravity: 0.5, Damping: 0.995}

	Integrate(&b, rope, p, field)

	// y = 100 + 0.5 = 100.5, then half the 0.5 excess is removed
	if math.Abs(b.Pos.Y-100.25) > 1e-9 {
		t.Errorf("y = %v, want 100.25", b.Pos.Y)
	}
	if b.Prev.Y != 100 {
		t.Errorf("prev y = %v, want 100", b.Prev.Y)
	}
}

func TestIntegrateDegenerateAnchor(t *testing.T) {
	field := core.NewBounds(800, 600)
	rope := Rope{Anchor: core.V(400, 300), Length: 200}
	b := Ball{Pos: core.V(400, 300), Prev: core.V(400, 300), Radius: 15}
	p := config.PhysicsConfig{Gravity: 0, Damping: 1}

	Integrate(&b, rope, p, field)

	if !b.Pos.IsFinite() {
		t.Fatalf("position became non-finite: %+v", b.Pos)
	}
	if b.Pos != core.V(400, 300) {
		t.Errorf("zero-length delta should skip correction, got %+v", b.Pos)
	}
}

func TestIntegrateClampsWithoutTouchingPrev(t *testing.T) {
	field := core.NewBounds(800, 600)
	rope := Rope{Anchor: core.V(400, 0), Length: 580}
	b := Ball{Pos: core.V(790, 300), Prev: core.V(760, 300), Radius: 15}
	p := config.PhysicsConfig{Gravity: 0.5, Damping: 0.995}

	Integrate(&b, rope, p, field)

	if b.Pos.X > 785 {
		t.Errorf("x = %v, want <= 785", b.Pos.X)
	}
	if b.Prev.X != 790 {
		t.Errorf("prev x = %v, want 790 (unclamped)", b.Prev.X)
	}
}

func TestIntegrateRecoversFromNonFinite(t *testing.T) {
	field := core.NewBounds(800, 600)
	rope := Rope{Anchor: core.V(400, 0), Length: 200}
	b := Ball{Pos: core.V(400, 200), Prev: core.V(math.Inf(-1), 200), Radius: 15}
	p := config.PhysicsConfig{Gravity: 0.5, Damping: 0.995}

	Integrate(&b, rope, p, field)

	if !b.Pos.IsFinite() {
		t.Fatalf("position not finite: %+v", b.Pos)
	}
	if !field.Inset(15).Contains(b.Pos) {
		t.Errorf("position %+v outside field", b.Pos)
	}
}

func TestApplyPointer(t *testing.T) {
	field := core.NewBounds(800, 600)
	rc := config.RopeConfig{InitialLength: 200, MinLength: 50, MaxLength: 580}

	tests := []struct {
		name    string
		pointer core.Vec2
		wantLen float64
		wantX   float64
	}{
		{"inside band", core.V(500, 300), 300, 410},
		{"above band", core.V(400, 10), 50, 400},
		{"below band", core.V(400, 599), 580, 400},
		{"far left clamps x", core.V(-100000, 300), 300, 15},
		{"far right clamps x", core.V(100000, 300), 300, 785},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Ball{Pos: core.V(400, 200), Prev: core.V(400, 200), Radius: 15}
			r := Rope{Anchor: core.V(400, 0), Length: 200}
			ApplyPointer(&b, &r, tt.pointer, rc, 0.1, field)
			if r.Length != tt.wantLen {
				t.Errorf("rope length = %v, want %v", r.Length, tt.wantLen)
			}
			if math.Abs(b.Pos.X-tt.wantX) > 1e-9 {
				t.Errorf("x = %v, want %v", b.Pos.X, tt.wantX)
			}
		})
	}
}

func TestApplyPointerIgnoresNaN(t *testing.T) {
	field := core.NewBounds(800, 600)
	rc := config.RopeConfig{MinLength: 50, MaxLength: 580}
	b := Ball{Pos: core.V(400, 200), Radius: 15}
	r := Rope{Length: 200}

	ApplyPointer(&b, &r, core.V(math.NaN(), 100), rc, 0.1, field)

	if r.Length != 200 || b.Pos.X != 400 {
		t.Errorf("NaN pointer changed state: len=%v x=%v", r.Length, b.Pos.X)
	}
}
