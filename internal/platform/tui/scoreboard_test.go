package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

func TestScoreboardViews(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	for _, e := range []storage.Entry{
		{Player: "alice", Score: 2400, MaxTile: 256, Moves: 300},
		{Player: "bob", Score: 900, MaxTile: 128, Moves: 120},
		{Player: "alice", Score: 500, MaxTile: 64, Moves: 80},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	if m.view != viewTopScores {
		t.Fatalf("initial view = %d, want top scores", m.view)
	}
	if got := len(m.table.Rows()); got != 3 {
		t.Errorf("top scores rows = %d, want 3", got)
	}
	view := m.View()
	for _, want := range []string{"HIGH SCORES", "alice", "bob", "2400"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.view != viewPlayers {
		t.Fatalf("view after tab = %d, want players", m.view)
	}
	if got := len(m.table.Rows()); got != 2 {
		t.Errorf("player rows = %d, want 2", got)
	}
	if first := m.table.Rows()[0]; first[1] != "alice" || first[2] != "2" {
		t.Errorf("first player row = %v, want alice with 2 games", first)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if next.(ScoreboardModel).view != viewTopScores {
		t.Error("tab does not cycle back to top scores")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)
	if !strings.Contains(m.View(), "disabled") {
		t.Error("View does not report disabled storage")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command does not produce tea.QuitMsg")
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q, want %q", got, "  ab")
	}
	if got := centerText("abcdef", 4); got != "abcdef" {
		t.Errorf("centerText = %q, want unchanged", got)
	}
}
