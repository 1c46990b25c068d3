package main

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marble-lottery/automation"
	"github.com/lixenwraith/marble-lottery/engine"
)

// app holds the viewer state between frames
type app struct {
	driver   *automation.Driver
	selected int // Catalog index adjusted by +/-
	paused   bool
	message  string // Shown after the status line until the next key
}

func newApp(d *automation.Driver) *app {
	return &app{driver: d}
}

func (a *app) state() *engine.GameState {
	return a.driver.State
}

// handleKey applies one key press, returns false to quit
//
// Keys:
//
//	s        start a run from the current counts
//	space    start if idle, then drop
//	d        drop pending marbles
//	r        reset to idle
//	p        pause or resume
//	tab      select the next entity
//	+ -      change the selected entity's count while idle
//	q esc    quit
func (a *app) handleKey(ev *tcell.EventKey) bool {
	a.message = ""
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		if n := len(a.state().Catalog()); n > 0 {
			a.selected = (a.selected + 1) % n
		}
		a.message = a.selectionText()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	s := a.state()
	switch ev.Rune() {
	case 'q':
		return false
	case 's':
		a.start()
	case ' ':
		if s.Mode == engine.ModeIdle {
			if !a.start() {
				return true
			}
		}
		a.drop()
	case 'd':
		a.drop()
	case 'r':
		a.driver.Reset()
		a.paused = false
	case 'p':
		a.paused = !a.paused
	case '+', '=':
		a.adjust(1)
	case '-', '_':
		a.adjust(-1)
	}
	return true
}

func (a *app) start() bool {
	if err := a.driver.Start(); err != nil {
		a.message = err.Error()
		return false
	}
	a.paused = false
	return true
}

func (a *app) drop() {
	if n := a.driver.Drop(); n > 0 {
		a.message = fmt.Sprintf("dropped %d", n)
	}
}

func (a *app) adjust(delta int) {
	s := a.state()
	cat := s.Catalog()
	if s.Mode != engine.ModeIdle || len(cat) == 0 {
		return
	}
	id := cat[a.selected].ID
	s.SetEntityCount(id, s.EntityCount(id)+delta)
	a.message = a.selectionText()
}

func (a *app) selectionText() string {
	cat := a.state().Catalog()
	if len(cat) == 0 {
		return ""
	}
	e := cat[a.selected]
	return fmt.Sprintf("%s: %d", e.Name, a.state().EntityCount(e.ID))
}

// tick advances the simulation by elapsed wall-clock milliseconds unless paused
func (a *app) tick(elapsedMs float64) int {
	if a.paused {
		return 0
	}
	steps := a.driver.Advance(elapsedMs)
	if steps > 1 {
		log.Printf("caught up %d steps", steps)
	}
	return steps
}
