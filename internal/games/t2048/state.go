package t2048

import "fmt"

// initialTiles is the number of tiles placed by Reset.
const initialTiles = 2

// MoveResult describes what a single move did.
type MoveResult struct {
	Moved        bool // Board changed; a tile was spawned
	Gained       int  // Score added by merges
	Spawned      Cell // Cell of the spawned tile (valid only if Moved)
	SpawnedValue int  // 2 or 4 (0 if nothing spawned)
}

// State owns one game: board, score and the derived game-over flag.
// It is not safe for concurrent use; callers serialize access.
type State struct {
	board    Board
	score    int
	gameOver bool
	src      Source
}

// NewState creates a game with two spawned tiles.
func NewState(src Source) *State {
	s := &State{src: src}
	s.Reset()
	return s
}

// RestoreState creates a game from an existing board and score.
func RestoreState(board Board, score int, src Source) (*State, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	if score < 0 {
		return nil, fmt.Errorf("t2048: negative score %d", score)
	}
	return &State{
		board:    board,
		score:    score,
		gameOver: IsGameOver(board),
		src:      src,
	}, nil
}

// Reset clears the board and score and spawns the opening tiles.
func (s *State) Reset() {
	s.board = Board{}
	s.score = 0
	for range initialTiles {
		s.spawn()
	}
	s.gameOver = IsGameOver(s.board)
}

// Move slides the board in dir. A move that changes nothing leaves board and
// score untouched and spawns nothing.
func (s *State) Move(dir Direction) MoveResult {
	var res MoveResult

	next, gained, changed := Slide(s.board, dir)
	if changed {
		s.board = next
		s.score += gained
		cell := s.spawn()

		res = MoveResult{
			Moved:        true,
			Gained:       gained,
			Spawned:      cell,
			SpawnedValue: s.board[cell.Y][cell.X],
		}
	}

	s.gameOver = IsGameOver(s.board)
	return res
}

// spawn places one tile. A changed move always vacates or keeps a cell
// free, so a full board here means the state is corrupt.
func (s *State) spawn() Cell {
	next, cell, err := Spawn(s.board, s.src)
	if err != nil {
		panic(fmt.Sprintf("t2048: spawn after move: %v", err))
	}
	s.board = next
	return cell
}

// Board returns a copy of the current board.
func (s *State) Board() Board {
	return s.board
}

// Score returns the current score.
func (s *State) Score() int {
	return s.score
}

// IsGameOver reports whether no move is left.
func (s *State) IsGameOver() bool {
	return s.gameOver
}
