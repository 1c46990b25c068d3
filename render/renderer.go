// Package render draws a GameState onto a tcell screen
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/marble-lottery/board"
	"github.com/lixenwraith/marble-lottery/engine"
	"github.com/lixenwraith/marble-lottery/vmath"
)

// Glyphs
const (
	GlyphWall    = '█'
	GlyphPeg     = '·'
	GlyphPaddle  = '='
	GlyphRotor   = 'o'
	GlyphFinish  = '─'
	GlyphDivider = '│'
	GlyphMarble  = '●'
	GlyphPending = '○'
)

// Renderer maps world coordinates onto the terminal grid
// The bottom row is reserved for the status line
type Renderer struct {
	screen tcell.Screen
	cols   int
	rows   int // Board rows, excluding status
	sx, sy float64
	bg     tcell.Style
}

// NewRenderer creates a renderer for screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		bg:     tcell.StyleDefault.Background(RgbBackground),
	}
}

// Cell returns the grid cell holding world point p, ok false when off-grid
func (r *Renderer) Cell(p vmath.Vec2) (x, y int, ok bool) {
	if r.sx <= 0 || r.sy <= 0 || !p.IsFinite() {
		return 0, 0, false
	}
	x = int(math.Floor(p.X / r.sx))
	y = int(math.Floor(p.Y / r.sy))
	return x, y, x >= 0 && x < r.cols && y >= 0 && y < r.rows
}

// Draw renders one frame, the caller calls Show
func (r *Renderer) Draw(s *engine.GameState) {
	w, h := r.screen.Size()
	r.cols, r.rows = w, h-1
	b := s.Board
	if r.cols <= 0 || r.rows <= 0 || b == nil {
		return
	}
	r.sx = b.Width / float64(r.cols)
	r.sy = b.Height / float64(r.rows)

	r.screen.Fill(' ', r.bg)

	r.drawPegs(b.Pegs())
	if b.Corridor != nil {
		r.drawCorridor(b.Corridor)
	}
	if b.Fixed != nil {
		for _, seg := range b.Fixed.Segments {
			r.line(seg.A, seg.B, GlyphWall, r.bg.Foreground(RgbWall))
		}
		for i := range b.Fixed.Paddles {
			a, e := b.Fixed.Paddles[i].Endpoints(s.Time)
			r.line(a, e, GlyphPaddle, r.bg.Foreground(RgbPaddle))
		}
	}
	for _, rot := range b.Rotors {
		r.circle(rot.Center, rot.Radius, GlyphRotor, r.bg.Foreground(RgbRotor))
	}
	r.drawSlots(b)
	r.drawMarbles(s)
	r.drawStatus(s)
}

func (r *Renderer) set(p vmath.Vec2, ch rune, style tcell.Style) {
	if x, y, ok := r.Cell(p); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

func (r *Renderer) drawPegs(g *board.PegGrid) {
	if g == nil {
		return
	}
	style := r.bg.Foreground(RgbPeg)
	for _, row := range g.Rows {
		for _, x := range row.Xs {
			r.set(vmath.V(x, row.Y), GlyphPeg, style)
		}
	}
}

func (r *Renderer) drawCorridor(c *board.CorridorFunnel) {
	style := r.bg.Foreground(RgbWall)
	for y := 0; y < r.rows; y++ {
		wy := (float64(y) + 0.5) * r.sy
		half := c.HalfWidthAt(wy)
		r.set(vmath.V(c.CenterX-half, wy), GlyphDivider, style)
		r.set(vmath.V(c.CenterX+half, wy), GlyphDivider, style)
	}
}

// line samples the segment at half-cell spacing
func (r *Renderer) line(a, b vmath.Vec2, ch rune, style tcell.Style) {
	step := math.Min(r.sx, r.sy) / 2
	n := int(math.Ceil(a.Dist(b)/step)) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		r.set(vmath.V(vmath.Lerp(a.X, b.X, t), vmath.Lerp(a.Y, b.Y, t)), ch, style)
	}
}

func (r *Renderer) circle(c vmath.Vec2, radius float64, ch rune, style tcell.Style) {
	step := math.Min(r.sx, r.sy) / 2
	n := max(int(math.Ceil(2*math.Pi*radius/step)), 8)
	for i := 0; i < n; i++ {
		r.set(c.Add(vmath.FromAngle(2*math.Pi*float64(i)/float64(n)).Scale(radius)), ch, style)
	}
	r.set(c, ch, style)
}

func (r *Renderer) drawSlots(b *board.Board) {
	_, finishRow, ok := r.Cell(vmath.V(0, b.FinishY))
	if !ok {
		return
	}
	lineStyle := r.bg.Foreground(RgbFinishLine)
	for x := 0; x < r.cols; x++ {
		r.screen.SetContent(x, finishRow, GlyphFinish, nil, lineStyle)
	}

	labelStyle := r.bg.Foreground(RgbSlotLabel)
	for _, slot := range b.Slots {
		if slot.Index > 0 {
			for y := finishRow + 1; y < r.rows; y++ {
				r.set(vmath.V(slot.X0, (float64(y)+0.5)*r.sy), GlyphDivider, lineStyle)
			}
		}
		x, _, _ := r.Cell(vmath.V((slot.X0+slot.X1)/2, 0))
		x -= len(slot.Label) / 2
		for i, ch := range slot.Label {
			if x+i >= 0 && x+i < r.cols {
				r.screen.SetContent(x+i, r.rows-1, ch, nil, labelStyle)
			}
		}
	}
}

func (r *Renderer) drawMarbles(s *engine.GameState) {
	for _, m := range s.Pending {
		style := r.bg.Foreground(EntityColor(s.EntityIndex(m.EntityID), m.EntityID))
		r.set(m.Pos, GlyphPending, style)
	}
	for _, m := range s.Active {
		style := r.bg.Foreground(EntityColor(s.EntityIndex(m.EntityID), m.EntityID))
		if s.Winner != nil && m.ID == s.Winner.MarbleID {
			style = style.Bold(true).Reverse(true)
		}
		r.set(m.Pos, GlyphMarble, style)
	}
}

// StatusText returns the status line for s
func StatusText(s *engine.GameState) string {
	text := fmt.Sprintf(" %s | t=%.1fs | %d/%d finished", s.Mode, s.Time, len(s.Finished), s.TotalToDrop)
	if s.Mode == engine.ModeIdle {
		text = fmt.Sprintf(" %s | %d selected | seed %d", s.Mode, s.TotalSelectedCount(), s.Seed)
	} else if len(s.Pending) > 0 {
		text += fmt.Sprintf(" | %d waiting", len(s.Pending))
	}
	if w := s.Winner; w != nil {
		text += fmt.Sprintf(" | winner #%d %s slot %s", w.MarbleID, w.EntityID, w.Label)
	}
	return text + " "
}

func (r *Renderer) drawStatus(s *engine.GameState) {
	bg := RgbModeIdleBg
	switch {
	case s.Winner != nil:
		bg = RgbModeFinishedBg
	case s.Mode == engine.ModeRunning:
		bg = RgbModeRunningBg
	}
	style := tcell.StyleDefault.Foreground(RgbStatusText).Background(bg)
	x := 0
	for _, ch := range StatusText(s) {
		if x >= r.cols {
			break
		}
		r.screen.SetContent(x, r.rows, ch, nil, style)
		x++
	}
}
