// Package session keeps server-side 2048 games for the HTTP API.
// Each session owns its own State and random source; a Manager maps
// session IDs to sessions and is safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrInvalidPlayer   = errors.New("session: invalid player name")
)

// DefaultPlayer is used when a session is created without a name.
const DefaultPlayer = "anonymous"

const maxPlayerLen = 32

// Result is a finished game handed to a ScoreRecorder.
type Result struct {
	SessionID string
	Player    string
	Score     int
	MaxTile   int
	Moves     int
}

// ScoreRecorder persists finished games.
type ScoreRecorder interface {
	RecordScore(Result) error
}

// View is a read-only copy of a session, safe to encode and share.
type View struct {
	ID        string      `json:"id"`
	Player    string      `json:"player"`
	Seed      int64       `json:"seed"`
	Board     t2048.Board `json:"board"`
	Score     int         `json:"score"`
	MaxTile   int         `json:"max_tile"`
	Moves     int         `json:"moves"`
	GameOver  bool        `json:"game_over"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Session is one game in progress.
type Session struct {
	mu sync.Mutex

	id       string
	player   string
	seed     int64
	state    *t2048.State
	moves    int
	recorded bool

	createdAt time.Time
	updatedAt time.Time
}

func (s *Session) view() View {
	board := s.state.Board()
	return View{
		ID:        s.id,
		Player:    s.player,
		Seed:      s.seed,
		Board:     board,
		Score:     s.state.Score(),
		MaxTile:   t2048.MaxTile(board),
		Moves:     s.moves,
		GameOver:  s.state.IsGameOver(),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// Manager handles session lifecycle.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	recorder ScoreRecorder
	logger   *log.Logger
	now      func() time.Time
}

// NewManager creates a session manager. recorder may be nil, in which case
// finished games are not persisted.
func NewManager(recorder ScoreRecorder, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// NormalizePlayer trims a player name and applies the default.
func NormalizePlayer(player string) (string, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return DefaultPlayer, nil
	}
	if len(player) > maxPlayerLen {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidPlayer, maxPlayerLen)
	}
	for _, r := range player {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%w: control character", ErrInvalidPlayer)
		}
	}
	return player, nil
}

// Create starts a new game. A zero seed picks one from the clock.
func (m *Manager) Create(player string, seed int64) (View, error) {
	player, err := NormalizePlayer(player)
	if err != nil {
		return View{}, err
	}
	if seed == 0 {
		seed = m.now().UnixNano()
	}

	now := m.now()
	s := &Session{
		id:        uuid.NewString(),
		player:    player,
		seed:      seed,
		state:     t2048.NewState(rand.New(rand.NewSource(seed))),
		createdAt: now,
		updatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session", s.id, "player", player, "seed", seed)
	return s.view(), nil
}

// CanonicalID returns the form of a session ID used as map key and in
// views. IDs are matched case-insensitively.
func CanonicalID(id string) string {
	return strings.ToLower(id)
}

func (m *Manager) lookup(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[CanonicalID(id)]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Get returns a view of one session.
func (m *Manager) Get(id string) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// List returns every session, oldest first.
func (m *Manager) List() []View {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	views := make([]View, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		views = append(views, s.view())
		s.mu.Unlock()
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := CanonicalID(id)
	if _, ok := m.sessions[key]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, key)
	return nil
}

// Move applies one move to a session. The first move that ends the game
// records the score.
func (m *Manager) Move(id string, dir t2048.Direction) (t2048.MoveResult, View, error) {
	if !dir.Valid() {
		return t2048.MoveResult{}, View{}, fmt.Errorf("%w: %d", t2048.ErrInvalidDirection, dir)
	}

	s, err := m.lookup(id)
	if err != nil {
		return t2048.MoveResult{}, View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.state.Move(dir)
	if res.Moved {
		s.moves++
		s.updatedAt = m.now()
	}

	if s.state.IsGameOver() && !s.recorded {
		s.recorded = true
		m.record(s)
	}

	return res, s.view(), nil
}

// Reset starts the session over with the same player. The random source
// keeps advancing, so the new opening differs from the previous one.
func (m *Manager) Reset(id string) (View, error) {
	s, err := m.lookup(id)
	if err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Reset()
	s.moves = 0
	s.recorded = false
	s.updatedAt = m.now()
	return s.view(), nil
}

// record must be called with s.mu held.
func (m *Manager) record(s *Session) {
	board := s.state.Board()
	m.logger.Info("game over",
		"session", s.id, "player", s.player,
		"score", s.state.Score(), "max_tile", t2048.MaxTile(board), "moves", s.moves)

	if m.recorder == nil {
		return
	}
	err := m.recorder.RecordScore(Result{
		SessionID: s.id,
		Player:    s.player,
		Score:     s.state.Score(),
		MaxTile:   t2048.MaxTile(board),
		Moves:     s.moves,
	})
	if err != nil {
		m.logger.Error("cannot record score", "session", s.id, "error", err)
	}
}

// CleanupExpired removes sessions not updated within maxAge and returns
// their IDs.
func (m *Manager) CleanupExpired(maxAge time.Duration) []string {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []string
	for id, s := range m.sessions {
		s.mu.Lock()
		stale := s.updatedAt.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
