package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rope-survival/internal/core"
	"github.com/vovakirdan/rope-survival/internal/sim"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorBrightRed:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightCyan:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorOrange:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorSilver:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	core.ColorTan:         lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
	core.ColorDeepSkyBlue: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// HUD rows above and below the playfield.
const (
	hudTop    = 1
	hudBottom = 2
)

// Viewport maps playfield coordinates onto terminal cells. The field is
// stretched to fill the area between the HUD rows.
type Viewport struct {
	FieldW, FieldH float64
	Cols, Rows     int
}

// NewViewport creates a viewport for a screen of cols x rows cells.
func NewViewport(fieldW, fieldH float64, cols, rows int) Viewport {
	return Viewport{FieldW: fieldW, FieldH: fieldH, Cols: cols, Rows: rows}
}

func (v Viewport) playRows() int {
	return max(v.Rows-hudTop-hudBottom, 1)
}

func (v Viewport) scale() (sx, sy float64) {
	if v.FieldW <= 0 || v.FieldH <= 0 {
		return 0, 0
	}
	return float64(v.Cols) / v.FieldW, float64(v.playRows()) / v.FieldH
}

// ToCell converts a field position to fractional cell coordinates.
func (v Viewport) ToCell(p core.Vec2) (x, y float64) {
	sx, sy := v.scale()
	return p.X * sx, p.Y*sy + hudTop
}

// ToField converts a cell to the field position at its center.
func (v Viewport) ToField(col, row int) core.Vec2 {
	sx, sy := v.scale()
	if sx == 0 || sy == 0 {
		return core.Vec2{}
	}
	return core.V((float64(col)+0.5)/sx, (float64(row-hudTop)+0.5)/sy)
}

// DrawOptions control how a snapshot is drawn.
type DrawOptions struct {
	ScoreScale float64         // presentation multiplier for the score
	Shadow     *sim.ShadowView // optional autopilot ball
	Banner     string          // optional line under the HUD, e.g. "watching"
}

// spinRunes animate hazards by their rotation.
var spinRunes = [...]rune{'|', '/', '-', '\\'}

// DrawSnapshot rasterizes one snapshot onto the screen.
func DrawSnapshot(scr *core.Screen, snap sim.Snapshot, opts DrawOptions) {
	scr.Clear()
	vp := NewViewport(snap.FieldW, snap.FieldH, scr.Width(), scr.Height())
	sx, sy := vp.scale()

	if opts.Shadow != nil {
		drawBall(scr, vp, opts.Shadow.Rope, opts.Shadow.Ball, core.ColorGray, core.ColorGray)
	}

	for _, h := range snap.Hazards {
		cx, cy := vp.ToCell(h.Pos)
		scr.DrawDisc(cx, cy, h.Radius*sx*0.8, h.Radius*sy*0.8, '*', hazardColor(h.Behavior))
		scr.SetColored(int(math.Round(cx)), int(math.Round(cy)), spinRune(h.Rotation), core.ColorBrightRed)
	}

	drawBall(scr, vp, snap.Rope, snap.Ball, core.ColorFromHex(snap.Rope.Color), expressionColor(snap.Ball.Expression))

	drawHUD(scr, snap, opts)

	switch {
	case snap.GameOver():
		drawOverlay(scr, "GAME OVER",
			fmt.Sprintf("score %d", displayScore(snap, opts.ScoreScale)),
			fmt.Sprintf("r restart  b buy a life (%d/%d)  a watch an ad", snap.Purchased, snap.MaxPurchased))
	case snap.Paused():
		drawOverlay(scr, "PAUSED", "p to resume")
	}
}

func drawBall(scr *core.Screen, vp Viewport, rope sim.RopeView, ball sim.BallView, ropeColor, ballColor core.Color) {
	sx, sy := vp.scale()
	ax, ay := vp.ToCell(rope.Anchor)
	bx, by := vp.ToCell(rope.End)
	scr.DrawLine(int(math.Round(ax)), int(math.Round(ay)), int(math.Round(bx)), int(math.Round(by)), '·', ropeColor)

	cx, cy := vp.ToCell(ball.Pos)
	scr.DrawDisc(cx, cy, ball.Radius*sx, ball.Radius*sy, 'o', ballColor)
	scr.SetColored(int(math.Round(cx)), int(math.Round(cy)), face(ball.Expression), ballColor)
}

func drawHUD(scr *core.Screen, snap sim.Snapshot, opts DrawOptions) {
	hearts := strings.Repeat("♥", max(snap.Lives, 0))
	left := fmt.Sprintf(" SCORE %d  LEVEL %d  %s", displayScore(snap, opts.ScoreScale), snap.Difficulty, hearts)
	scr.DrawText(0, 0, left, core.ColorYellow)

	right := fmt.Sprintf("skin %s ", snap.Rope.Skin)
	if opts.Shadow != nil {
		right = fmt.Sprintf("autopilot %d (best %d, resets %d)  ", int(opts.Shadow.Score), int(opts.Shadow.Best), opts.Shadow.Resets) + right
	}
	scr.DrawText(scr.Width()-len([]rune(right)), 0, right, core.ColorGray)

	if opts.Banner != "" {
		scr.DrawTextCentered(1, opts.Banner, core.ColorCyan)
	}

	if snap.Commentary != "" {
		scr.DrawTextCentered(scr.Height()-2, "« "+snap.Commentary+" »", core.ColorCyan)
	}
	if n := len(snap.Hazards); n > 0 {
		scr.DrawText(1, scr.Height()-1, hazardLegend(snap.Hazards[0]), core.ColorGray)
	}
}

func drawOverlay(scr *core.Screen, lines ...string) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2
	box := core.NewRect((scr.Width()-w)/2, (scr.Height()-h)/2, w, h)
	scr.DrawRect(box, ' ')
	scr.DrawBox(box, core.ColorWhite)
	for i, l := range lines {
		c := core.ColorWhite
		if i == 0 {
			c = core.ColorBrightRed
		}
		scr.DrawText(box.X+(w-len([]rune(l)))/2, box.Y+1+i, l, c)
	}
}

func displayScore(snap sim.Snapshot, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return int(snap.Score * scale)
}

func hazardLegend(h sim.HazardView) string {
	return fmt.Sprintf("saws: %s (%s)", h.Label, h.Behavior)
}

func spinRune(angle float64) rune {
	i := int(math.Floor(angle/(math.Pi/4))) % len(spinRunes)
	if i < 0 {
		i += len(spinRunes)
	}
	return spinRunes[i]
}

func face(e sim.Expression) rune {
	switch e {
	case sim.ExpressionScared:
		return 'O'
	case sim.ExpressionRelieved:
		return 'u'
	default:
		return '•'
	}
}

func expressionColor(e sim.Expression) core.Color {
	switch e {
	case sim.ExpressionScared:
		return core.ColorOrange
	case sim.ExpressionRelieved:
		return core.ColorGreen
	default:
		return core.ColorWhite
	}
}

func hazardColor(behavior string) core.Color {
	switch behavior {
	case "homing":
		return core.ColorMagenta
	case "wave":
		return core.ColorBlue
	case "zigzag":
		return core.ColorYellow
	case "erratic":
		return core.ColorOrange
	default:
		return core.ColorRed
	}
}
