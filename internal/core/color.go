package core

import (
	"fmt"
	"strings"
)

// Color represents a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the platform layer.
type Color uint8

// Palette used by the playfield renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightCyan
	ColorOrange
	ColorGray
	ColorSilver
	ColorTan
	ColorDeepSkyBlue
)

// ColorFromHex picks the palette entry closest to a "#RRGGBB" string.
// Rope skins are stored as hex colors; terminals only get the palette.
func ColorFromHex(hex string) Color {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return ColorDefault
	}

	best := ColorWhite
	bestDist := -1
	for c, rgb := range paletteRGB {
		dr, dg, db := r-rgb[0], g-rgb[1], b-rgb[2]
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	return best
}

// paletteRGB is the approximate RGB of the hex-addressable palette entries.
var paletteRGB = map[Color][3]int{
	ColorWhite:       {0xFF, 0xFF, 0xFF},
	ColorSilver:      {0xC0, 0xC0, 0xC0},
	ColorTan:         {0xD2, 0xB4, 0x8C},
	ColorDeepSkyBlue: {0x00, 0xBF, 0xFF},
	ColorRed:         {0xCD, 0x00, 0x00},
	ColorGreen:       {0x00, 0xCD, 0x00},
	ColorYellow:      {0xCD, 0xCD, 0x00},
	ColorOrange:      {0xFF, 0x87, 0x00},
	ColorGray:        {0x8A, 0x8A, 0x8A},
}
