package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)

	boardWidth  = BoardSize*cellWidth + 1  // +1 for right border
	boardHeight = BoardSize*cellHeight + 1 // +1 for bottom border
	hudHeight   = 3
)

// TileColor returns the color used to draw a tile value.
func TileColor(value int) core.Color {
	switch value {
	case 0:
		return core.ColorGray
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorOrange
	case 16:
		return core.ColorBrightRed
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorMagenta
	case 128:
		return core.ColorYellow
	case 256:
		return core.ColorBrightYellow
	case 512:
		return core.ColorGold
	case 1024:
		return core.ColorGreen
	case 2048:
		return core.ColorBrightGreen
	default:
		return core.ColorBrightCyan
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardWidth) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws title, score and counters above the board.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := g.Title()
	dst.DrawTextColored(boardX+(boardWidth-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.state.Score()))

	info := fmt.Sprintf("Max: %d", MaxTile(g.state.Board()))
	dst.DrawText(boardX+boardWidth-len(info), 1, info)

	movesStr := fmt.Sprintf("Moves: %d", g.moves)
	if g.last.Gained > 0 {
		movesStr += fmt.Sprintf("  +%d", g.last.Gained)
	}
	dst.DrawTextColored(boardX, 2, movesStr, core.ColorGray)
}

// renderBoard draws the 4x4 grid with tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			dst.Set(px, py, gridJoint(x, y))
			if x < BoardSize {
				dst.DrawHLine(px+1, py, cellWidth-1, '─')
			}
			if y < BoardSize {
				dst.DrawVLine(px, py+1, cellHeight-1, '│')
			}
		}
	}

	board := g.state.Board()
	for y := range BoardSize {
		for x := range BoardSize {
			val := board[y][x]
			cellX := boardX + x*cellWidth + 1
			cellY := boardY + y*cellHeight + 1

			if val == 0 {
				dst.DrawTextColored(cellX+(cellWidth-1)/2, cellY, "·", TileColor(0))
				continue
			}

			valStr := strconv.Itoa(val)
			padLeft := max((cellWidth-1-len(valStr))/2, 0)
			dst.DrawTextColored(cellX+padLeft, cellY, valStr, TileColor(val))
		}
	}
}

// gridJoint picks the box-drawing rune for a grid intersection.
func gridJoint(x, y int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == BoardSize:
		return '┐'
	case y == BoardSize && x == 0:
		return '└'
	case y == BoardSize && x == BoardSize:
		return '┘'
	case y == 0:
		return '┬'
	case y == BoardSize:
		return '┴'
	case x == 0:
		return '├'
	case x == BoardSize:
		return '┤'
	default:
		return '┼'
	}
}

// renderOverlays draws pause and game over boxes on top of the board.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY int) {
	centerX := boardX + boardWidth/2
	centerY := boardY + boardHeight/2

	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.state.IsGameOver():
		drawOverlay(dst, centerX, centerY,
			"GAME OVER",
			fmt.Sprintf("Score: %d", g.state.Score()),
			"Press R to restart")
	}
}

// drawOverlay draws a centered boxed text block.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.CenteredRect(centerX, centerY, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}
