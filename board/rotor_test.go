package board

import (
	"math"
	"testing"

	"github.com/lixenwraith/marble-lottery/parameter"
)

func fp(v float64) *float64 { return &v }

func TestResolveRotors(t *testing.T) {
	specs := []RotorSpec{
		{X: fp(100), Y: fp(200)},
		{FX: fp(0.5), FY: fp(0.25)},
		{X: fp(300), FY: fp(0.5), Radius: fp(40), Bounce: fp(0.9), AngularVelocity: fp(-2)},
		{X: fp(math.NaN()), Y: fp(10)},
		{X: fp(math.Inf(1)), Y: fp(10)},
		{Y: fp(10)},
		{X: fp(-5), Y: fp(10)},
		{FX: fp(1.5), FY: fp(0.5)},
		{X: fp(10), Y: fp(10), Radius: fp(0)},
		{X: fp(10), Y: fp(10), Damping: fp(2)},
		{X: fp(10), Y: fp(10), Kick: fp(math.NaN())},
	}
	rotors := ResolveRotors(specs, 800, 1000)
	if len(rotors) != 3 {
		t.Fatalf("Expected 3 valid rotors, got %d", len(rotors))
	}

	if rotors[0].Center.X != 100 || rotors[0].Center.Y != 200 {
		t.Errorf("Expected world placement, got %+v", rotors[0].Center)
	}
	if rotors[0].Radius != parameter.RotorRadius || rotors[0].Kick != parameter.RotorKick {
		t.Errorf("Expected defaults, got %+v", rotors[0])
	}

	if rotors[1].Center.X != 400 || rotors[1].Center.Y != 250 {
		t.Errorf("Expected fractional placement (400,250), got %+v", rotors[1].Center)
	}

	r := rotors[2]
	if r.Center.X != 300 || r.Center.Y != 500 {
		t.Errorf("Expected mixed placement (300,500), got %+v", r.Center)
	}
	if r.Radius != 40 || r.Bounce != 0.9 || r.AngularVelocity != -2 {
		t.Errorf("Expected overrides applied, got %+v", r)
	}
}

func TestRotorOverrideReplacesGenerated(t *testing.T) {
	b, err := Build(Options{Layout: LayoutFixed, Rotors: []RotorSpec{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Rotors) != 0 {
		t.Errorf("Expected empty override to clear rotors, got %d", len(b.Rotors))
	}

	b, err = Build(Options{Rotors: []RotorSpec{{FX: fp(0.5), FY: fp(0.5)}, {X: fp(math.NaN())}}})
	if err != nil {
		t.Fatalf("Invalid rotor entries must not fail the build: %v", err)
	}
	if len(b.Rotors) != 1 {
		t.Errorf("Expected one rotor on classic board, got %d", len(b.Rotors))
	}
}
