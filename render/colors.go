package render

import (
	"github.com/cespare/xxhash/v2"
	"github.com/gdamore/tcell/v2"
)

// Board palette
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(120, 124, 150) // Muted steel
	RgbPeg        = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbPaddle     = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbRotor      = tcell.NewRGBColor(0, 200, 200)   // Vibrant cyan
	RgbFinishLine = tcell.NewRGBColor(200, 50, 50)   // Red
	RgbSlotLabel  = tcell.NewRGBColor(255, 255, 0)   // Bright yellow

	RgbStatusText       = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
	RgbStatusForeground = tcell.NewRGBColor(255, 255, 255) // White
	RgbModeIdleBg       = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbModeRunningBg    = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbModeFinishedBg   = tcell.NewRGBColor(255, 192, 203) // Pink once a winner exists
)

// entityPalette cycles in catalog order
var entityPalette = []tcell.Color{
	tcell.NewRGBColor(255, 80, 80),   // Red
	tcell.NewRGBColor(100, 150, 255), // Blue
	tcell.NewRGBColor(0, 200, 0),     // Green
	tcell.NewRGBColor(255, 255, 0),   // Yellow
	tcell.NewRGBColor(200, 100, 255), // Violet
	tcell.NewRGBColor(255, 165, 0),   // Orange
	tcell.NewRGBColor(0, 200, 200),   // Cyan
	tcell.NewRGBColor(255, 192, 203), // Pink
}

// EntityColor returns the marble color of the catalog entry at index
// A negative index (id missing from the catalog) hashes id instead
func EntityColor(index int, id string) tcell.Color {
	if index < 0 {
		index = int(xxhash.Sum64String(id) % uint64(len(entityPalette)))
	}
	return entityPalette[index%len(entityPalette)]
}
