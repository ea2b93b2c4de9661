package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores    = 100 // Max rows to load per view
	tableMargins = 4
	chromeHeight = 8 // Title, tabs, borders and help
)

// scoreView selects what the scoreboard table shows.
type scoreView int

const (
	viewTopScores scoreView = iota
	viewPlayers
)

var scoreViewTitles = []string{"Top Scores", "Players"}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Switch, k.Reload, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch view"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	store    *storage.Store
	view     scoreView
	scores   []storage.Entry
	players  []storage.PlayerStats
	loadErr  error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width

	m.table = m.createTable()
	m.load()

	return m
}

// columns returns the table columns of the current view, sized to the width.
func (m *ScoreboardModel) columns() []table.Column {
	var cols []table.Column
	if m.view == viewPlayers {
		cols = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "Games", Width: 7},
			{Title: "Best", Width: 8},
			{Title: "Max Tile", Width: 9},
			{Title: "Avg", Width: 8},
		}
	} else {
		cols = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "Score", Width: 8},
			{Title: "Max Tile", Width: 9},
			{Title: "Moves", Width: 7},
			{Title: "Date", Width: 13},
		}
	}

	// Shrink the player column on narrow terminals
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if over := used - (m.width - tableMargins); over > 0 {
		cols[1].Width = max(cols[1].Width-over, 6)
	}
	return cols
}

// createTable creates a new table for the current view.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-chromeHeight, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the rows of the current view from the store.
func (m *ScoreboardModel) load() {
	m.loadErr = nil
	m.scores = nil
	m.players = nil

	if m.store != nil {
		if m.view == viewPlayers {
			m.players, m.loadErr = m.store.Leaderboard(maxScores)
		} else {
			m.scores, m.loadErr = m.store.TopScores(maxScores)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded rows.
func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	if m.view == viewPlayers {
		rows = make([]table.Row, len(m.players))
		for i, p := range m.players {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				p.Player,
				fmt.Sprintf("%d", p.GamesCount),
				fmt.Sprintf("%d", p.Best),
				fmt.Sprintf("%d", p.BestTile),
				fmt.Sprintf("%.0f", p.AvgScore),
			}
		}
	} else {
		rows = make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				s.Player,
				fmt.Sprintf("%d", s.Score),
				fmt.Sprintf("%d", s.MaxTile),
				fmt.Sprintf("%d", s.Moves),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	}

	// Columns must match the row width before rows are set
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) rowCount() int {
	if m.view == viewPlayers {
		return len(m.players)
	}
	return len(m.scores)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			m.view = (m.view + 1) % scoreView(len(scoreViewTitles))
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Scrolling is handled by the table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("2048 HIGH SCORES"), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(scoreViewTitles))
	for i, title := range scoreViewTitles {
		if scoreView(i) == m.view {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Score storage is disabled.")
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot load scores:\n" + m.loadErr.Error())
	case m.rowCount() == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}

	return m.table.View()
}

// centerText pads s so that it is centered in width columns.
func centerText(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Repeat(" ", (width-lipgloss.Width(line))/2) + line
	}
	return strings.Join(lines, "\n")
}

// RunScoreboard runs the interactive scoreboard screen.
func RunScoreboard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
