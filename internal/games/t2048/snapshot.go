package t2048

// Phase represents the current game phase.
type Phase string

const (
	PhasePlaying     Phase = "playing"
	PhasePaused      Phase = "paused"
	PhaseGameOver    Phase = "game_over"
	PhasePausedSmall Phase = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Score   int
	Moves   int
	Board   Board
	MaxTile int
	Phase   Phase
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	phase := PhasePlaying
	switch {
	case g.tooSmall:
		phase = PhasePausedSmall
	case g.state.IsGameOver():
		phase = PhaseGameOver
	case g.paused:
		phase = PhasePaused
	}

	board := g.state.Board()
	return Snapshot{
		Tick:    g.tick,
		Score:   g.state.Score(),
		Moves:   g.moves,
		Board:   board,
		MaxTile: MaxTile(board),
		Phase:   phase,
	}
}
