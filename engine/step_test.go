package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/vmath"
)

const frame = 1.0 / 60

// dropOne starts a single-marble run and places the marble at pos with velocity vel
func dropOne(t *testing.T, b *board.Board, tune func(*Tuning), pos, vel vmath.Vec2) (*GameState, *Marble) {
	t.Helper()
	s := NewGameState(1, b, abc)
	if tune != nil {
		tune(&s.Tuning)
	}
	s.SetEntityCount("a", 1)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	s.DropAll()
	m := s.Active[0]
	m.Pos, m.Vel = pos, vel
	m.resetWindow(s.Time)
	return s, m
}

// runToCompletion steps until a winner or until maxSteps, returning steps taken
func runToCompletion(s *GameState, maxSteps int) int {
	for i := 0; i < maxSteps; i++ {
		if s.Winner != nil {
			return i
		}
		s.Step(frame)
	}
	return maxSteps
}

func TestStepNoop(t *testing.T) {
	s := NewGameState(1, mustBoard(t, board.Options{}), abc)
	s.Step(frame)
	if s.Time != 0 {
		t.Error("Step must not advance an idle state")
	}

	s.SetEntityCount("a", 1)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		s.Step(dt)
		if s.Time != 0 {
			t.Errorf("Step(%v) advanced time to %g", dt, s.Time)
		}
	}

	// Running without released marbles only advances time
	s.Step(frame)
	if math.Abs(s.Time-frame) > 1e-12 || len(s.Pending) != 1 {
		t.Errorf("Expected time %g with marble still pending, got %g", frame, s.Time)
	}
}

func TestFreeFallTrajectory(t *testing.T) {
	b := mustBoard(t, board.Options{NoPegs: true})
	noDrag := func(tu *Tuning) { tu.DragX, tu.DragY = 0, 0 }
	y0, v0 := 100.0, 30.0
	s, m := dropOne(t, b, noDrag, vmath.V(450, y0), vmath.V(0, v0))

	g := s.Tuning.Gravity
	for i := 1; i <= 60; i++ {
		s.Step(frame)
		tt := s.Time
		want := y0 + v0*tt + 0.5*g*tt*tt
		// Semi-implicit Euler overshoots by at most g·h·t/2 with h <= dt
		if tol := 0.5*g*frame*tt + 1e-6; math.Abs(m.Pos.Y-want) > tol {
			t.Fatalf("step %d: expected y %.3f ± %.3f, got %.3f", i, want, tol, m.Pos.Y)
		}
		if math.Abs(m.Vel.Y-(v0+g*tt)) > 1e-6 {
			t.Fatalf("step %d: expected vy %.3f, got %.3f", i, v0+g*tt, m.Vel.Y)
		}
	}
	if m.Pos.X != 450 || m.Vel.X != 0 {
		t.Errorf("Free fall drifted sideways: x %g vx %g", m.Pos.X, m.Vel.X)
	}
	if math.Abs(s.Time-1) > 1e-9 {
		t.Errorf("Expected one simulated second, got %g", s.Time)
	}
}

func TestWallBounce(t *testing.T) {
	b := mustBoard(t, board.Options{NoPegs: true})
	r := b.MarbleRadius

	still := func(tu *Tuning) { tu.Gravity, tu.DragX, tu.DragY = 0, 0, 0 }
	s, m := dropOne(t, b, still, vmath.V(r+0.5, 500), vmath.V(-100, 0))
	s.Step(frame)
	if math.Abs(m.Vel.X-26) > 1e-9 {
		t.Errorf("Expected vx 26 after the bounce, got %v", m.Vel.X)
	}
	if m.Pos.X < r {
		t.Errorf("Marble left the playfield: x %v", m.Pos.X)
	}

	// Production tuning adds gravity and drag, the outcome stays close
	s, m = dropOne(t, b, nil, vmath.V(r+0.5, 500), vmath.V(-100, 0))
	s.Step(frame)
	if math.Abs(m.Vel.X-26) > 1 {
		t.Errorf("Expected vx near 26, got %v", m.Vel.X)
	}

	s, m = dropOne(t, b, still, vmath.V(b.Width-r-0.5, 500), vmath.V(100, 0))
	s.Step(frame)
	if math.Abs(m.Vel.X+26) > 1e-9 {
		t.Errorf("Expected vx -26 off the right wall, got %v", m.Vel.X)
	}
}

func TestSubStepCount(t *testing.T) {
	b := mustBoard(t, board.Options{NoPegs: true})
	s, m := dropOne(t, b, nil, vmath.V(450, 500), vmath.V(0, 0))
	if n := s.subSteps(frame); n != 1 {
		t.Errorf("Expected 1 sub-step at rest, got %d", n)
	}
	m.Vel = vmath.V(0, 600)
	// (600 + 15) / 60 = 10.25 units over a 4.05 target
	if n := s.subSteps(frame); n != 3 {
		t.Errorf("Expected 3 sub-steps, got %d", n)
	}
	m.Vel = vmath.V(0, 1e5)
	if n := s.subSteps(frame); n != 6 {
		t.Errorf("Expected cap of 6 sub-steps, got %d", n)
	}
}

func TestPegDeflects(t *testing.T) {
	b := mustBoard(t, board.Options{})
	row := b.Grid.Rows[3]
	px := row.Xs[len(row.Xs)/2]
	// Slightly off-centre above a peg
	s, m := dropOne(t, b, nil, vmath.V(px+2, row.Y-30), vmath.V(0, 200))
	for i := 0; i < 30; i++ {
		s.Step(frame)
	}
	if math.Abs(m.Pos.X-(px+2)) < 1 {
		t.Errorf("Expected the peg to push the marble sideways, x %g", m.Pos.X)
	}
}

func TestFixedWallSupports(t *testing.T) {
	fl := &board.FixedLayout{
		Polylines: []board.Polyline{{Points: [][2]float64{{100, 600}, {800, 600}}}},
	}
	b := mustBoard(t, board.Options{Layout: board.LayoutFixed, Fixed: fl})
	noNudge := func(tu *Tuning) { tu.Deadlock.Disabled = true }
	s, m := dropOne(t, b, noNudge, vmath.V(450, 500), vmath.V(0, 0))
	for i := 0; i < 180; i++ {
		s.Step(frame)
	}
	if math.Abs(m.Pos.Y-(600-m.Radius)) > 0.5 {
		t.Errorf("Expected marble resting on the floor at %g, got %g", 600-m.Radius, m.Pos.Y)
	}
	if m.Done {
		t.Error("Marble must not pass through the floor")
	}
}

func TestRotorDeflects(t *testing.T) {
	fx, fy := 0.5, 0.5
	b := mustBoard(t, board.Options{NoPegs: true, Rotors: []board.RotorSpec{{FX: &fx, FY: &fy}}})
	rot := b.Rotors[0]
	s, m := dropOne(t, b, nil, vmath.V(rot.Center.X, rot.Center.Y-80), vmath.V(0, 0))
	for i := 0; i < 60; i++ {
		s.Step(frame)
		if d := m.Pos.Dist(rot.Center); !m.Done && d < rot.Radius+m.Radius-0.5 {
			t.Fatalf("step %d: marble penetrated the rotor, distance %g", i, d)
		}
	}
	// Clockwise rotor carries a marble landing on top to the right
	if m.Pos.X <= rot.Center.X {
		t.Errorf("Expected marble carried right, x %g", m.Pos.X)
	}
}

func TestPaddleBlocks(t *testing.T) {
	fl := &board.FixedLayout{
		Paddles: []board.PaddleSpec{{X: 450, Y: 700, HalfLength: 80, AngularVelocity: 0.001}},
	}
	b := mustBoard(t, board.Options{Layout: board.LayoutFixed, Fixed: fl})
	s, m := dropOne(t, b, nil, vmath.V(450, 600), vmath.V(0, 0))
	for i := 0; i < 60; i++ {
		s.Step(frame)
	}
	p := b.Fixed.Paddles[0]
	if m.Pos.Y > p.Center.Y-m.Radius-p.HalfThickness+0.5 {
		t.Errorf("Expected marble held above the paddle, y %g", m.Pos.Y)
	}
}

func TestCorridorContainment(t *testing.T) {
	b := mustBoard(t, board.Options{Layout: board.LayoutCorridorFunnel, NoPegs: true})
	c := b.Corridor
	neck := (c.NeckTopY + c.NeckBottomY) / 2
	s, m := dropOne(t, b, nil, vmath.V(20, c.TopY), vmath.V(0, 0))
	for i := 0; i < 600 && !m.Done; i++ {
		s.Step(frame)
		if math.Abs(m.Pos.Y-neck) < 20 {
			if dx := math.Abs(m.Pos.X - c.CenterX); dx > c.NarrowHalf-m.Radius+1e-6 {
				t.Fatalf("marble outside neck: |dx| %g > %g", dx, c.NarrowHalf-m.Radius)
			}
		}
	}
	if !m.Done {
		t.Error("Expected the marble to pass the corridor")
	}
}

func TestFinishSlotAndPacking(t *testing.T) {
	b := mustBoard(t, board.Options{NoPegs: true, SlotCount: 4})
	s := NewGameState(11, b, abc)
	s.SetEntityCount("a", 3)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	s.DropAll()
	xs := []float64{100, 110, 700}
	for i, m := range s.Active {
		m.Pos = vmath.V(xs[i], b.FinishY-m.Radius-0.1)
		m.Vel = vmath.V(0, 100)
	}
	s.Step(frame)

	if len(s.Finished) != 3 {
		t.Fatalf("Expected 3 finished, got %d", len(s.Finished))
	}
	want := []int{0, 0, 3}
	for i, rec := range s.Finished {
		if rec.Slot != want[i] {
			t.Errorf("record %d: expected slot %d, got %d", i, want[i], rec.Slot)
		}
	}
	r := b.MarbleRadius
	a0, a1 := s.Active[0], s.Active[1]
	if !a0.Done || a0.Vel != (vmath.Vec2{}) || a0.Result == nil || a0.Result.Order != 1 {
		t.Errorf("Expected frozen first marble, got %+v", a0)
	}
	if a0.Pos != vmath.V(r, b.Height-r) || a1.Pos != vmath.V(3*r, b.Height-r) {
		t.Errorf("Expected packed row, got %+v %+v", a0.Pos, a1.Pos)
	}
	if s.Winner == nil || *s.Winner != s.Finished[0] {
		t.Errorf("Expected first record as winner on a time tie, got %+v", s.Winner)
	}
}

func TestPackingOverflowsUpward(t *testing.T) {
	b := mustBoard(t, board.Options{NoPegs: true, Width: 90, SlotCount: 1})
	s := NewGameState(1, b, abc)
	r := b.MarbleRadius
	var got []vmath.Vec2
	for i := 0; i < 7; i++ {
		got = append(got, s.packedPosition(0, r))
	}
	// 90 wide fits 5 marbles per row
	if got[4].Y != got[0].Y || got[5].Y != got[0].Y-2*r || got[5].X != r {
		t.Errorf("Expected second row above the first, got %+v", got)
	}
}

func TestSingleSlotLabelsByArrival(t *testing.T) {
	b := mustBoard(t, board.Options{SlotCount: 1})
	s := NewGameState(5, b, abc)
	s.SetEntityCount("a", 2)
	s.SetEntityCount("b", 2)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	s.DropAll()
	runToCompletion(s, 60*120)
	if s.Winner == nil {
		t.Fatal("run did not finish")
	}
	for i, rec := range s.Finished {
		if want := []string{"1", "2", "3", "4"}[i]; rec.Label != want {
			t.Errorf("record %d: expected label %s, got %s", i, want, rec.Label)
		}
	}
}

func TestWinnerStopsSimulation(t *testing.T) {
	s := NewGameState(3, mustBoard(t, board.Options{}), abc)
	s.SetEntityCount("c", 2)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	s.DropAll()
	runToCompletion(s, 60*120)
	if s.Winner == nil {
		t.Fatal("run did not finish")
	}
	at := s.Time
	s.Step(frame)
	if s.Time != at {
		t.Error("Step after the winner must be a no-op")
	}
	if s.Mode != ModeRunning {
		t.Errorf("Expected mode to stay running, got %v", s.Mode)
	}
}

func TestEmptyRunHasNoWinner(t *testing.T) {
	s := NewGameState(3, mustBoard(t, board.Options{}), abc)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	if n := s.DropAll(); n != 0 {
		t.Errorf("Expected nothing to drop, got %d", n)
	}
	for i := 0; i < 10; i++ {
		s.Step(frame)
	}
	if s.Winner != nil {
		t.Error("Empty run must not produce a winner")
	}
}

// Seed 1337, one marble each of a, b, c on the default classic board
func TestDeterministicFinishOrder(t *testing.T) {
	run := func() ([]FinishRecord, *FinishRecord) {
		s := NewGameState(1337, mustBoard(t, board.Options{}), abc)
		for _, e := range abc {
			s.SetEntityCount(e.ID, 1)
		}
		if err := s.StartGame(); err != nil {
			t.Fatal(err)
		}
		s.DropAll()
		runToCompletion(s, 60*120)
		return s.Finished, s.Winner
	}

	f1, w1 := run()
	f2, w2 := run()
	if len(f1) != 3 || w1 == nil {
		t.Fatalf("Expected 3 finishers and a winner, got %d", len(f1))
	}
	if !reflect.DeepEqual(f1, f2) {
		t.Errorf("Finish order differs between runs:\n%+v\n%+v", f1, f2)
	}
	if *w1 != *w2 {
		t.Errorf("Winner differs between runs: %+v vs %+v", w1, w2)
	}
}
