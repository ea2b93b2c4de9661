package t2048

import (
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// ID is the identifier used for score storage.
const ID = "2048"

// Minimum terminal size: board plus HUD and help line.
const (
	minScreenW = boardWidth + 2
	minScreenH = hudHeight + boardHeight + 2
)

// Game drives a State from fixed-tick input frames.
// It adds the things a terminal front end needs on top of the rules:
// pause, a too-small-window guard, a move counter and a tick clock.
type Game struct {
	rng   *rand.Rand
	state *State
	tick  uint64
	moves int
	last  MoveResult

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

// New creates a 2048 game. Call Reset before the first Step.
func New() *Game {
	return &Game{}
}

// Title returns the display name.
func (g *Game) Title() string {
	return "2048"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.state = NewState(g.rng)
	g.tick = 0
	g.moves = 0
	g.last = MoveResult{}
	g.paused = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Restore replaces the board and score of a reset game, e.g. to resume a
// saved position. The random stream and move counter are kept.
func (g *Game) Restore(board Board, score int) error {
	if g.rng == nil {
		return ErrNilSource
	}
	st, err := RestoreState(board, score, g.rng)
	if err != nil {
		return err
	}
	g.state = st
	g.last = MoveResult{}
	return nil
}

// Resize updates the screen size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step advances the game by one tick. At most one move is applied per tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{Status: g.Status()}
	}

	if in.Has(core.ActionPause) && !g.state.IsGameOver() {
		g.paused = !g.paused
	}

	if g.paused || g.state.IsGameOver() {
		return core.StepResult{Status: g.Status()}
	}

	if dir, ok := directionFromInput(in); ok {
		g.last = g.state.Move(dir)
		if g.last.Moved {
			g.moves++
		}
	}

	return core.StepResult{Status: g.Status()}
}

// directionFromInput picks the move requested by this frame, if any.
func directionFromInput(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// Status returns the platform-facing game status.
func (g *Game) Status() core.Status {
	return core.Status{
		Score:    g.state.Score(),
		GameOver: g.state.IsGameOver(),
		Paused:   g.paused || g.tooSmall,
	}
}

// Board returns a copy of the current board.
func (g *Game) Board() Board {
	return g.state.Board()
}

// Moves returns the number of moves that changed the board.
func (g *Game) Moves() int {
	return g.moves
}

// LastMove returns the result of the most recent move attempt.
func (g *Game) LastMove() MoveResult {
	return g.last
}
