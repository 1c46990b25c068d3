package physics

import (
	"math"
	"testing"

	"github.com/lixenwraith/marble-lottery/vmath"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestIntegrateFreeFall(t *testing.T) {
	b := Body{Pos: vmath.V(0, 0), Radius: 5}
	h := 1.0 / 60
	Integrate(&b, 900, 0, 0, 1e9, h)
	if !near(b.Vel.Y, 15, 1e-9) {
		t.Errorf("Expected vy 15, got %v", b.Vel.Y)
	}
	// Semi-implicit: position uses the updated velocity
	if !near(b.Pos.Y, 0.25, 1e-9) {
		t.Errorf("Expected y 0.25, got %v", b.Pos.Y)
	}
}

func TestIntegrateDragAndCap(t *testing.T) {
	b := Body{Vel: vmath.V(100, 0)}
	Integrate(&b, 0, 0.6, 0, 1e9, 0.1)
	if !near(b.Vel.X, 94, 1e-9) {
		t.Errorf("Expected drag to leave vx 94, got %v", b.Vel.X)
	}

	b = Body{Vel: vmath.V(3000, 4000)}
	Integrate(&b, 0, 0, 0, 1000, 0.01)
	if !near(b.Vel.Len(), 1000, 1e-9) {
		t.Errorf("Expected speed capped to 1000, got %v", b.Vel.Len())
	}
	if !near(b.Vel.X/b.Vel.Y, 0.75, 1e-9) {
		t.Error("Cap must preserve direction")
	}

	b = Body{Vel: vmath.V(100, 0)}
	Integrate(&b, 0, 50, 0, 1e9, 1)
	if b.Vel.X != 0 {
		t.Errorf("Huge drag must stop, not reverse: vx %v", b.Vel.X)
	}
}

func TestCapSpeed(t *testing.T) {
	b := Body{Vel: vmath.V(0, 50)}
	if CapSpeed(&b, 100) {
		t.Error("Expected no clamp under the cap")
	}
	b.Vel = vmath.V(0, 500)
	if !CapSpeed(&b, 100) || b.Vel.Y != 100 {
		t.Errorf("Expected clamp to 100, got %v", b.Vel.Y)
	}
}

func TestWallRespond(t *testing.T) {
	tests := []struct {
		name string
		v, n vmath.Vec2
		want vmath.Vec2
	}{
		{"head on", vmath.V(-100, 0), vmath.V(1, 0), vmath.V(26, 0)},
		{"leaving", vmath.V(100, 0), vmath.V(1, 0), vmath.V(100, 0)},
		{"slide down", vmath.V(-100, 200), vmath.V(1, 0), vmath.V(26, 200*(1-0.004))},
		{"slide up", vmath.V(-100, -200), vmath.V(1, 0), vmath.V(26, -200*(1-0.02))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wall.Respond(tt.v, tt.n)
			if !near(got.X, tt.want.X, 1e-9) || !near(got.Y, tt.want.Y, 1e-9) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestClampX(t *testing.T) {
	b := Body{Pos: vmath.V(3, 50), Vel: vmath.V(-100, 0), Radius: 9}
	if !ClampX(&b, 0, 900, &Wall) {
		t.Fatal("Expected clamp")
	}
	if b.Pos.X != 9 || !near(b.Vel.X, 26, 1e-9) {
		t.Errorf("Expected x 9 vx 26, got %v %v", b.Pos.X, b.Vel.X)
	}

	b = Body{Pos: vmath.V(899, 50), Vel: vmath.V(10, 0), Radius: 9}
	ClampX(&b, 0, 900, nil)
	if b.Pos.X != 891 || b.Vel.X != 10 {
		t.Errorf("Position-only clamp must keep velocity, got %v %v", b.Pos.X, b.Vel.X)
	}

	b = Body{Pos: vmath.V(450, 50), Radius: 9}
	if ClampX(&b, 0, 900, &Wall) {
		t.Error("Expected no clamp inside bounds")
	}

	b = Body{Pos: vmath.V(0, 0), Radius: 9}
	ClampX(&b, 100, 110, nil)
	if b.Pos.X != 105 {
		t.Errorf("Expected centre of a too-narrow gap, got %v", b.Pos.X)
	}
}

func TestResolveSegment(t *testing.T) {
	// Horizontal floor at y=100, marble falling onto it
	b := Body{Pos: vmath.V(50, 95), Vel: vmath.V(0, 300), Radius: 9}
	if !ResolveSegment(&b, vmath.V(0, 100), vmath.V(100, 100), &Wall) {
		t.Fatal("Expected contact")
	}
	if !near(b.Pos.Y, 91, 1e-9) {
		t.Errorf("Expected marble pushed to y 91, got %v", b.Pos.Y)
	}
	if !near(b.Vel.Y, -78, 1e-9) {
		t.Errorf("Expected bounce vy -78, got %v", b.Vel.Y)
	}

	far := Body{Pos: vmath.V(50, 50), Radius: 9}
	if ResolveSegment(&far, vmath.V(0, 100), vmath.V(100, 100), &Wall) {
		t.Error("Expected no contact out of reach")
	}

	// Centre exactly on the segment is degenerate and skipped
	on := Body{Pos: vmath.V(50, 100), Vel: vmath.V(0, 10), Radius: 9}
	if ResolveSegment(&on, vmath.V(0, 100), vmath.V(100, 100), &Wall) {
		t.Error("Expected degenerate contact skipped")
	}
	if !on.Pos.IsFinite() || !on.Vel.IsFinite() {
		t.Error("Degenerate contact produced non-finite state")
	}
}

func TestSeparateSegmentKeepsVelocity(t *testing.T) {
	b := Body{Pos: vmath.V(50, 95), Vel: vmath.V(0, 300), Radius: 9}
	if !SeparateSegment(&b, vmath.V(0, 100), vmath.V(100, 100)) {
		t.Fatal("Expected separation")
	}
	if !near(b.Pos.Y, 91, 1e-9) || b.Vel.Y != 300 {
		t.Errorf("Expected position fix only, got pos %v vel %v", b.Pos, b.Vel)
	}
}

func TestResolveCircle(t *testing.T) {
	b := Body{Pos: vmath.V(0, -10), Vel: vmath.V(0, 100), Radius: 9}
	if !ResolveCircle(&b, vmath.V(0, 0), 5, &Peg) {
		t.Fatal("Expected peg contact")
	}
	if !near(b.Pos.Y, -14, 1e-9) {
		t.Errorf("Expected y -14, got %v", b.Pos.Y)
	}
	if !near(b.Vel.Y, -42, 1e-9) {
		t.Errorf("Expected vy -42, got %v", b.Vel.Y)
	}
}

func TestResolvePair(t *testing.T) {
	a := Body{Pos: vmath.V(0, 0), Vel: vmath.V(100, 0), Radius: 9}
	b := Body{Pos: vmath.V(10, 0), Vel: vmath.V(-100, 0), Radius: 9}
	if !ResolvePair(&a, &b, 0.35) {
		t.Fatal("Expected overlap")
	}
	if d := a.Pos.Dist(b.Pos); !near(d, 18, 1e-9) {
		t.Errorf("Expected separation 18, got %v", d)
	}
	if !near(a.Pos.X, -4, 1e-9) || !near(b.Pos.X, 14, 1e-9) {
		t.Errorf("Expected symmetric correction, got %v %v", a.Pos.X, b.Pos.X)
	}
	// Equal mass: momentum conserved, relative normal speed scaled by restitution
	if !near(a.Vel.X+b.Vel.X, 0, 1e-9) {
		t.Errorf("Momentum not conserved: %v", a.Vel.X+b.Vel.X)
	}
	if !near(b.Vel.X-a.Vel.X, 70, 1e-9) {
		t.Errorf("Expected separating speed 70, got %v", b.Vel.X-a.Vel.X)
	}

	c := Body{Pos: vmath.V(0, 0), Radius: 9}
	d := Body{Pos: vmath.V(0, 0), Radius: 9}
	if ResolvePair(&c, &d, 0.35) {
		t.Error("Expected coincident centres skipped")
	}

	e := Body{Pos: vmath.V(0, 0), Vel: vmath.V(-5, 0), Radius: 9}
	g := Body{Pos: vmath.V(17, 0), Vel: vmath.V(5, 0), Radius: 9}
	ResolvePair(&e, &g, 0.35)
	if e.Vel.X != -5 || g.Vel.X != 5 {
		t.Error("Separating pair must keep velocities")
	}
}

func TestSeparatePair(t *testing.T) {
	a := Body{Pos: vmath.V(0, 0), Vel: vmath.V(1, 2), Radius: 9}
	b := Body{Pos: vmath.V(0, 6), Vel: vmath.V(3, 4), Radius: 9}
	if !SeparatePair(&a, &b) {
		t.Fatal("Expected separation")
	}
	if d := a.Pos.Dist(b.Pos); !near(d, 18, 1e-9) {
		t.Errorf("Expected distance 18, got %v", d)
	}
	if a.Vel != vmath.V(1, 2) || b.Vel != vmath.V(3, 4) {
		t.Error("SeparatePair must not touch velocity")
	}
}

func TestResolveSpinning(t *testing.T) {
	sp := SurfaceProfile{MaxSurfaceSpeed: 1000, Bounce: 0.5, UpCap: 1e9}

	// Marble resting on top of a clockwise rotor of radius 20 at the origin
	b := Body{Pos: vmath.V(0, -28), Vel: vmath.V(0, 0), Radius: 9}
	if !ResolveSpinning(&b, vmath.V(0, 0), vmath.V(0, 0), 29, 2, &sp) {
		t.Fatal("Expected rotor contact")
	}
	if !near(b.Pos.Y, -29, 1e-9) {
		t.Errorf("Expected marble pushed to y -29, got %v", b.Pos.Y)
	}
	// Surface at the top moves right at ω·R = 40; a marble at rest leaves with it
	if !near(b.Vel.X, 0, 1e-9) {
		t.Errorf("Without mix no tangential transfer expected, got vx %v", b.Vel.X)
	}

	sp.Mix = 0.5
	b = Body{Pos: vmath.V(0, -28), Radius: 9}
	ResolveSpinning(&b, vmath.V(0, 0), vmath.V(0, 0), 29, 2, &sp)
	if !near(b.Vel.X, 20, 1e-9) {
		t.Errorf("Expected mix to add half the surface speed, got vx %v", b.Vel.X)
	}

	// Approaching marble reflects relative to the surface
	sp = SurfaceProfile{MaxSurfaceSpeed: 1000, Bounce: 0.5, Kick: 10, DownBias: 3, UpCap: 1e9}
	b = Body{Pos: vmath.V(0, -28), Vel: vmath.V(0, 100), Radius: 9}
	ResolveSpinning(&b, vmath.V(0, 0), vmath.V(0, 0), 29, 0, &sp)
	// -50 from bounce, -10 from kick along the upward normal, +3 down bias
	if !near(b.Vel.Y, -57, 1e-9) {
		t.Errorf("Expected vy -57, got %v", b.Vel.Y)
	}

	sp.UpCap = 20
	b = Body{Pos: vmath.V(0, -28), Vel: vmath.V(0, 100), Radius: 9}
	ResolveSpinning(&b, vmath.V(0, 0), vmath.V(0, 0), 29, 0, &sp)
	if b.Vel.Y != -20 {
		t.Errorf("Expected upward speed capped at 20, got %v", b.Vel.Y)
	}
}

func TestSpinningSurfaceSpeedCap(t *testing.T) {
	sp := SurfaceProfile{MaxSurfaceSpeed: 10, Bounce: 0, UpCap: 1e9}
	// Marble hit by the surface moving at ω·R = 1000 toward it, capped to 10
	b := Body{Pos: vmath.V(-28, 0), Radius: 9}
	ResolveSpinning(&b, vmath.V(0, 0), vmath.V(0, 0), 29, -50, &sp)
	if b.Vel.Len() > 10+1e-9 {
		t.Errorf("Expected surface speed cap to bound the transfer, got %v", b.Vel)
	}
}
