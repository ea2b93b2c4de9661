package t2048

import "errors"

// Spawn4Probability is the chance that a spawned tile is a 4 instead of a 2.
const Spawn4Probability = 0.10

// ErrNoEmptyCell is returned by Spawn when the board is full.
var ErrNoEmptyCell = errors.New("t2048: no empty cell")

// ErrNilSource is returned when a state is built without randomness.
var ErrNilSource = errors.New("t2048: nil random source")

// Source is the randomness Spawn draws from. *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// Spawn places a new tile on a uniformly chosen empty cell.
// The tile is 2 with probability 0.9 and 4 otherwise.
// Returns the new board and the cell that received the tile.
func Spawn(board Board, src Source) (Board, Cell, error) {
	empty := EmptyCells(board)
	if len(empty) == 0 {
		return board, Cell{}, ErrNoEmptyCell
	}

	cell := empty[src.Intn(len(empty))]

	value := 2
	if src.Float64() < Spawn4Probability {
		value = 4
	}

	board[cell.Y][cell.X] = value
	return board, cell, nil
}
