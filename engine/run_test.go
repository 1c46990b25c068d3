package engine

import (
	"fmt"
	"testing"

	"github.com/lixenwraith/marble-lottery/board"
)

func layoutCases(t *testing.T) map[string]*board.Board {
	t.Helper()
	hourglass, err := board.Preset("hourglass")
	if err != nil {
		t.Fatal(err)
	}
	return map[string]*board.Board{
		"classic":   mustBoard(t, board.Options{}),
		"corridor":  mustBoard(t, board.Options{Layout: board.LayoutCorridorFunnel}),
		"zigzag":    mustBoard(t, board.Options{Layout: board.LayoutFixed}),
		"hourglass": mustBoard(t, hourglass),
	}
}

// checkRun steps a started, dropped state to completion and checks run-wide properties
func checkRun(t *testing.T, s *GameState, maxSteps int) {
	t.Helper()
	b := s.Board
	prev := 0
	for i := 0; i < maxSteps && s.Winner == nil; i++ {
		s.Step(frame)

		if n := len(s.Finished); n < prev || n > s.TotalToDrop {
			t.Fatalf("finished count %d after %d, total %d", n, prev, s.TotalToDrop)
		}
		prev = len(s.Finished)

		for _, m := range s.Active {
			if m.Pos.X < m.Radius-1e-6 || m.Pos.X > b.Width-m.Radius+1e-6 {
				t.Fatalf("t=%.3f marble %d outside the world at x=%g", s.Time, m.ID, m.Pos.X)
			}
			if !m.Pos.IsFinite() || !m.Vel.IsFinite() {
				t.Fatalf("t=%.3f marble %d has non-finite state", s.Time, m.ID)
			}
		}
	}

	if s.Winner == nil {
		t.Fatalf("no winner after %.1fs, %d/%d finished", s.Time, len(s.Finished), s.TotalToDrop)
	}

	seen := make(map[int]bool, len(s.Finished))
	last := s.Finished[0]
	for _, rec := range s.Finished {
		if rec.Slot < 0 || rec.Slot >= len(b.Slots) {
			t.Errorf("marble %d in invalid slot %d", rec.MarbleID, rec.Slot)
		}
		if seen[rec.MarbleID] {
			t.Errorf("marble %d finished twice", rec.MarbleID)
		}
		seen[rec.MarbleID] = true
		if rec.T > s.Winner.T {
			t.Errorf("record %+v later than winner %+v", rec, *s.Winner)
		}
		if rec.T > last.T {
			last = rec
		}
	}
	if last != *s.Winner {
		t.Errorf("Expected first latest record %+v as winner, got %+v", last, *s.Winner)
	}
	for _, m := range s.Active {
		if !m.Done || m.Result == nil {
			t.Errorf("marble %d not finished", m.ID)
		}
	}
}

func TestRunProperties(t *testing.T) {
	for name, b := range layoutCases(t) {
		for seed := uint32(1); seed <= 3; seed++ {
			t.Run(fmt.Sprintf("%s/seed%d", name, seed), func(t *testing.T) {
				s := NewGameState(seed, b, abc)
				s.SetEntityCount("a", 8)
				s.SetEntityCount("b", 7)
				s.SetEntityCount("c", 5)
				if err := s.StartGame(); err != nil {
					t.Fatal(err)
				}
				s.DropAll()
				checkRun(t, s, 60*120)
			})
		}
	}
}

// Three hundred marbles on the zig-zag layout all reach the finish
func TestZigZagMassDrop(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	cat := []EntityType{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	s := NewGameState(1337, mustBoard(t, board.Options{Layout: board.LayoutFixed}), cat)
	s.SetEntityCount("a", 99)
	s.SetEntityCount("b", 99)
	s.SetEntityCount("c", 99)
	s.SetEntityCount("d", 3)
	if err := s.StartGame(); err != nil {
		t.Fatal(err)
	}
	if s.TotalToDrop != 300 {
		t.Fatalf("Expected 300 marbles, got %d", s.TotalToDrop)
	}
	s.DropAll()
	checkRun(t, s, 60*240)
	if len(s.Finished) != 300 {
		t.Errorf("Expected 300 finished, got %d", len(s.Finished))
	}
}

// Peg grids squeezed by width or column count still drain every marble
func TestNarrowPegBoardsTerminate(t *testing.T) {
	boards := map[string]board.Options{
		"narrow classic":  {Width: 300},
		"dense columns":   {PegCols: 50},
		"narrow corridor": {Layout: board.LayoutCorridorFunnel, Width: 300},
	}
	for name, opts := range boards {
		t.Run(name, func(t *testing.T) {
			s := NewGameState(11, mustBoard(t, opts), abc)
			s.SetEntityCount("a", 3)
			s.SetEntityCount("b", 2)
			if err := s.StartGame(); err != nil {
				t.Fatal(err)
			}
			s.DropAll()
			checkRun(t, s, 60*40)
		})
	}
}
