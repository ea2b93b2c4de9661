package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	// helpHeight is the number of rows reserved below the board.
	helpHeight = 1

	// maxQueuedMoves bounds the moves typed ahead of the tick loop.
	maxQueuedMoves = 16
)

// Options configures a game Model.
type Options struct {
	Store         *storage.Store // nil disables score saving
	Keys          KeyMap
	Player        string
	ScreenshotDir string            // Empty disables screenshots
	Renderer      *lipgloss.Renderer // nil uses the local terminal
}

// Model is the Bubble Tea model for running a 2048 game.
type Model struct {
	game       *t2048.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	palette    *Palette
	helpStyle  lipgloss.Style
	player     string
	shotDir    string
	inputFrame core.InputFrame
	moves      []core.Action // Directions not yet applied, oldest first
	status     core.Status
	best       int // Player's best score
	record     int // Best score of any player
	notice     string
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a Bubble Tea model and starts a game.
func NewModel(cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		game:       t2048.New(),
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      opts.Store,
		config:     cfg,
		keys:       opts.Keys,
		help:       h,
		palette:    NewPalette(r),
		helpStyle:  r.NewStyle().Foreground(lipgloss.Color("241")),
		player:     opts.Player,
		shotDir:    opts.ScreenshotDir,
		inputFrame: core.NewInputFrame(),
	}

	m.game.Reset(m.gameConfig())
	m.status = m.game.Status()

	if m.store != nil {
		if best, err := m.store.PlayerBest(m.player); err == nil {
			m.best = best
		}
		if record, err := m.store.HighScore(); err == nil {
			m.record = record
		}
	}

	return m
}

func gameHeight(h int) int {
	return max(h-helpHeight, 0)
}

// gameConfig is the runtime config with the help row taken off.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.notice = m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionRestart:
		if m.status.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		// Each press is one move, applied on its own tick
		if len(m.moves) < maxQueuedMoves {
			m.moves = append(m.moves, action)
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize keeps the board and adapts the layout.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.game.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.status.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.status = m.game.Status()
		m.scoreSaved = false
		m.notice = ""
		m.moves = nil
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if len(m.moves) > 0 {
		m.inputFrame.Set(m.moves[0])
		m.moves = m.moves[1:]
	}

	result := m.game.Step(m.inputFrame)
	m.status = result.Status

	// Save score on game over (once)
	if m.status.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m *Model) saveScore() {
	if m.store == nil || m.status.Score == 0 {
		return
	}

	_, err := m.store.SaveScore(storage.Entry{
		Player:  m.player,
		Score:   m.status.Score,
		MaxTile: t2048.MaxTile(m.game.Board()),
		Moves:   m.game.Moves(),
	})
	if err != nil {
		m.notice = "score not saved: " + err.Error()
		return
	}

	switch {
	case m.status.Score > m.record:
		m.best = m.status.Score
		m.record = m.status.Score
		m.notice = fmt.Sprintf("new record: %d", m.record)
	case m.status.Score > m.best:
		m.best = m.status.Score
		m.notice = fmt.Sprintf("new personal best: %d", m.best)
	default:
		m.notice = "score saved"
	}
}

// saveScreenshot writes the plain-text board and returns a status line.
func (m *Model) saveScreenshot() string {
	if m.shotDir == "" {
		return "screenshots disabled"
	}

	m.game.Render(m.screen)

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		return "screenshot failed: " + err.Error()
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("%s_%s.txt", t2048.ID, timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "screenshot failed: " + err.Error()
	}
	return "screenshot saved to " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := m.help.View(m.keys)
	switch {
	case m.notice != "":
		footer = m.notice
	case m.record > 0:
		footer = fmt.Sprintf("best: %d  record: %d  %s", m.best, m.record, footer)
	}

	return m.palette.Render(m.screen) + "\n" + m.helpStyle.Render(footer)
}

// Status returns the last game status.
func (m Model) Status() core.Status {
	return m.status
}

// Run starts the Bubble Tea program for a local game.
func Run(cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewModel(cfg, opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
