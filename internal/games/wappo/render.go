package wappo

import (
	"fmt"

	"github.com/vovakirdan/wappo/internal/core"
)

const (
	cellWidth  = 4 // Width of each cell including one separator column
	cellHeight = 2 // Height of each cell including one separator row
)

// Glyphs used on the board.
const (
	GlyphPlayer       = '@'
	GlyphEnemy        = 'E'
	GlyphFrozenEnemy  = 'e'
	GlyphTrap         = '^'
	GlyphExit         = 'X'
	GlyphEmpty        = '.'
	GlyphCaught       = '#'
	GlyphWallVertical = '┃'
	GlyphWallFlat     = '━'
)

// BoardSize returns the screen footprint of a rows x cols board, frame
// included.
func BoardSize(rows, cols int) (w, h int) {
	return cols*cellWidth + 1, rows*cellHeight + 1
}

// Render draws the state centered on dst with a title line above the board
// and a status line below it.
func Render(s State, dst *core.Screen) {
	dst.Clear()

	boardW, boardH := BoardSize(s.board.Rows(), s.board.Cols())
	if dst.Width() < boardW || dst.Height() < boardH+4 {
		renderTooSmall(dst)
		return
	}

	ox := (dst.Width() - boardW) / 2
	oy := (dst.Height() - boardH - 4) / 2

	dst.DrawTextCentered(oy, s.name, core.ColorBrightWhite)
	RenderBoard(s, dst, ox, oy+2)
	renderStatus(s, dst, oy+2+boardH+1)
}

func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorYellow)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

// RenderBoard draws the framed board with its top-left corner at (ox, oy).
func RenderBoard(s State, dst *core.Screen, ox, oy int) {
	rows, cols := s.board.Rows(), s.board.Cols()
	boardW, boardH := BoardSize(rows, cols)
	dst.DrawBox(core.NewRect(ox, oy, boardW, boardH), core.ColorGray)

	// Grid dots at inner corners
	for r := 1; r < rows; r++ {
		for c := 1; c < cols; c++ {
			dst.SetColored(ox+c*cellWidth, oy+r*cellHeight, '·', core.ColorGray)
		}
	}

	for _, w := range s.board.Walls() {
		drawWall(dst, ox, oy, w)
	}

	for r := range rows {
		for c := range cols {
			p := core.P(r, c)
			kind, _ := s.board.TileAt(p)
			glyph, color := tileGlyph(kind)
			setCell(dst, ox, oy, p, glyph, color)
		}
	}

	for _, e := range s.enemies {
		if e.Frozen() {
			setCell(dst, ox, oy, e.Pos, GlyphFrozenEnemy, core.ColorCyan)
		} else {
			setCell(dst, ox, oy, e.Pos, GlyphEnemy, core.ColorBrightRed)
		}
	}

	if s.result == ResultPlayerLost {
		setCell(dst, ox, oy, s.player, GlyphCaught, core.ColorRed)
	} else {
		setCell(dst, ox, oy, s.player, GlyphPlayer, core.ColorBrightGreen)
	}
}

func tileGlyph(kind TileKind) (rune, core.Color) {
	switch kind {
	case TileTrap:
		return GlyphTrap, core.ColorYellow
	case TileExit:
		return GlyphExit, core.ColorBrightCyan
	default:
		return GlyphEmpty, core.ColorGray
	}
}

func setCell(dst *core.Screen, ox, oy int, p core.Pos, r rune, c core.Color) {
	dst.SetColored(ox+p.Col*cellWidth+2, oy+p.Row*cellHeight+1, r, c)
}

func drawWall(dst *core.Screen, ox, oy int, w Wall) {
	if w.A.Row == w.B.Row {
		// A is left of B
		x := ox + w.B.Col*cellWidth
		dst.SetColored(x, oy+w.A.Row*cellHeight+1, GlyphWallVertical, core.ColorOrange)
		return
	}
	// A is above B
	y := oy + w.B.Row*cellHeight
	x := ox + w.A.Col*cellWidth
	for i := 1; i < cellWidth; i++ {
		dst.SetColored(x+i, y, GlyphWallFlat, core.ColorOrange)
	}
}

func renderStatus(s State, dst *core.Screen, y int) {
	status := fmt.Sprintf("Moves: %d   Turn: %s", s.moves, s.turn)
	dst.DrawTextCentered(y, status, core.ColorWhite)

	var msg string
	var color core.Color
	switch s.result {
	case ResultOngoing:
		msg, color = frozenSummary(s), core.ColorCyan
	case ResultPlayerWon:
		msg, color = "ESCAPED!", core.ColorBrightGreen
	case ResultPlayerLost:
		msg, color = "CAUGHT!", core.ColorBrightRed
	}
	if msg != "" {
		dst.DrawTextCentered(y+1, msg, color)
	}
}

func frozenSummary(s State) string {
	frozen := 0
	for _, e := range s.enemies {
		if e.Frozen() {
			frozen++
		}
	}
	if frozen == 0 {
		return ""
	}
	return fmt.Sprintf("Frozen enemies: %d", frozen)
}
