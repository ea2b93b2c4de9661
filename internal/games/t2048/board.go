package t2048

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BoardSize is the board dimension.
const BoardSize = 4

// Board is a 4x4 grid of tiles indexed [row][column].
// A zero cell is empty; any other cell holds a power of two.
// Board is a value type: assignment copies every cell.
type Board [BoardSize][BoardSize]int

// Cell addresses a single board position. X is the column, Y the row.
type Cell struct {
	X, Y int
}

// ErrInvalidTile is returned when a board holds a value that is neither
// zero nor a power of two >= 2.
var ErrInvalidTile = errors.New("t2048: invalid tile value")

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every valid direction.
var Directions = [...]Direction{DirUp, DirDown, DirLeft, DirRight}

// ErrInvalidDirection is returned for input that names no known direction.
var ErrInvalidDirection = errors.New("t2048: invalid direction")

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection maps a direction name ("left", "L", "Up", ...) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Mirror returns the board reflected horizontally (column x becomes 3-x).
func Mirror(b Board) Board {
	var out Board
	for y := range BoardSize {
		for x := range BoardSize {
			out[y][x] = b[y][BoardSize-1-x]
		}
	}
	return out
}

// Transpose returns the matrix transpose.
func Transpose(b Board) Board {
	var out Board
	for y := range BoardSize {
		for x := range BoardSize {
			out[y][x] = b[x][y]
		}
	}
	return out
}

// EmptyCells returns the coordinates of all empty cells in row-major order.
func EmptyCells(b Board) []Cell {
	var cells []Cell
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x] == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// TileCount returns the number of occupied cells.
func TileCount(b Board) int {
	n := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x] != 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(b Board) int {
	maxVal := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if b[y][x] > maxVal {
				maxVal = b[y][x]
			}
		}
	}
	return maxVal
}

// Validate checks that every cell is 0 or a power of two >= 2.
func (b Board) Validate() error {
	for y := range BoardSize {
		for x := range BoardSize {
			if !validTile(b[y][x]) {
				return fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, b[y][x], x, y)
			}
		}
	}
	return nil
}

func validTile(v int) bool {
	if v == 0 {
		return true
	}
	return v >= 2 && v&(v-1) == 0
}

// String renders the board as a plain-text grid, one row per line.
func (b Board) String() string {
	var sb strings.Builder
	for y := range BoardSize {
		for x := range BoardSize {
			if x > 0 {
				sb.WriteByte(' ')
			}
			cell := "."
			if b[y][x] != 0 {
				cell = strconv.Itoa(b[y][x])
			}
			fmt.Fprintf(&sb, "%5s", cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
