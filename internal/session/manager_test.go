package session

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

type fakeRecorder struct {
	mu      sync.Mutex
	results []Result
	err     error
}

func (f *fakeRecorder) RecordScore(r Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return f.err
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

func newTestManager(rec ScoreRecorder) *Manager {
	return NewManager(rec, log.New(io.Discard))
}

// almostOver is one left move away from a locked board.
var almostOver = t2048.Board{
	{0, 4, 8, 16},
	{32, 64, 128, 256},
	{512, 1024, 2048, 4096},
	{8192, 16384, 32768, 65536},
}

func restore(t *testing.T, m *Manager, id string, board t2048.Board, score int) {
	t.Helper()
	s, err := m.lookup(id)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, err = t2048.RestoreState(board, score, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("RestoreState: %v", err)
	}
}

func TestManagerCreateGet(t *testing.T) {
	m := newTestManager(nil)

	v, err := m.Create("  alice ", 42)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if v.ID == "" {
		t.Error("Create() returned an empty ID")
	}
	if v.Player != "alice" {
		t.Errorf("Player = %q, want alice", v.Player)
	}
	if v.Seed != 42 {
		t.Errorf("Seed = %d, want 42", v.Seed)
	}
	if t2048.TileCount(v.Board) != 2 || v.Score != 0 || v.Moves != 0 || v.GameOver {
		t.Errorf("unexpected opening view: %+v", v)
	}

	got, err := m.Get(v.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Board != v.Board {
		t.Errorf("Get board differs from Create board")
	}

	if _, err := m.Get(strings.ToUpper(v.ID)); err != nil {
		t.Errorf("Get() with upper-case ID failed: %v", err)
	}
}

func TestManagerSameSeedSameOpening(t *testing.T) {
	m := newTestManager(nil)

	a, _ := m.Create("a", 99)
	b, _ := m.Create("b", 99)

	if a.ID == b.ID {
		t.Error("sessions share an ID")
	}
	if a.Board != b.Board {
		t.Errorf("same seed produced different openings:\n%v\nvs\n%v", a.Board, b.Board)
	}
}

func TestManagerDefaultsAndValidation(t *testing.T) {
	m := newTestManager(nil)

	v, err := m.Create("", 0)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if v.Player != DefaultPlayer {
		t.Errorf("Player = %q, want %q", v.Player, DefaultPlayer)
	}
	if v.Seed == 0 {
		t.Error("zero seed was not replaced")
	}

	if _, err := m.Create(strings.Repeat("x", maxPlayerLen+1), 1); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("long name error = %v, want ErrInvalidPlayer", err)
	}
	if _, err := m.Create("bad\nname", 1); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("control char error = %v, want ErrInvalidPlayer", err)
	}
}

func TestManagerNotFound(t *testing.T) {
	m := newTestManager(nil)

	if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
	if _, _, err := m.Move("nope", t2048.DirLeft); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Move() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Reset("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Reset() error = %v, want ErrSessionNotFound", err)
	}
	if err := m.Delete("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Delete() error = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerMove(t *testing.T) {
	m := newTestManager(nil)
	v, _ := m.Create("bob", 7)
	restore(t, m, v.ID, t2048.Board{{2, 2, 0, 0}}, 0)

	res, view, err := m.Move(v.ID, t2048.DirLeft)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if !res.Moved || res.Gained != 4 {
		t.Errorf("MoveResult = %+v, want Moved with Gained 4", res)
	}
	if view.Score != 4 || view.Moves != 1 || view.Board[0][0] != 4 {
		t.Errorf("view after move = %+v", view)
	}

	// Same direction again only moves the spawned tile if it can slide.
	before := view
	res, view, _ = m.Move(v.ID, t2048.DirLeft)
	if !res.Moved && (view.Board != before.Board || view.Moves != before.Moves) {
		t.Error("no-op move changed the session")
	}
}

func TestManagerMoveInvalidDirection(t *testing.T) {
	m := newTestManager(nil)
	v, _ := m.Create("bob", 7)

	_, _, err := m.Move(v.ID, t2048.Direction(17))
	if !errors.Is(err, t2048.ErrInvalidDirection) {
		t.Errorf("Move() error = %v, want ErrInvalidDirection", err)
	}

	got, _ := m.Get(v.ID)
	if got.Board != v.Board {
		t.Error("invalid direction changed the board")
	}
}

func TestManagerRecordsOnce(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestManager(rec)
	v, _ := m.Create("carol", 3)
	restore(t, m, v.ID, almostOver, 900)

	_, view, err := m.Move(v.ID, t2048.DirLeft)
	if err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if !view.GameOver {
		t.Fatalf("expected game over:\n%v", view.Board)
	}
	if rec.count() != 1 {
		t.Fatalf("recorded %d results, want 1", rec.count())
	}

	r := rec.results[0]
	if r.SessionID != v.ID || r.Player != "carol" || r.Score != 900 || r.MaxTile != 65536 || r.Moves != 1 {
		t.Errorf("recorded result = %+v", r)
	}

	for _, d := range t2048.Directions {
		m.Move(v.ID, d)
	}
	if rec.count() != 1 {
		t.Errorf("recorded %d results after extra moves, want 1", rec.count())
	}

	// A reset game can be recorded again.
	if _, err := m.Reset(v.ID); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	restore(t, m, v.ID, almostOver, 10)
	m.Move(v.ID, t2048.DirLeft)
	if rec.count() != 2 {
		t.Errorf("recorded %d results after reset, want 2", rec.count())
	}
}

func TestManagerRecorderErrorIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	m := newTestManager(rec)
	v, _ := m.Create("dave", 3)
	restore(t, m, v.ID, almostOver, 0)

	if _, _, err := m.Move(v.ID, t2048.DirLeft); err != nil {
		t.Errorf("Move() error = %v, want nil when recording fails", err)
	}
}

func TestManagerReset(t *testing.T) {
	m := newTestManager(nil)
	v, _ := m.Create("erin", 11)
	restore(t, m, v.ID, t2048.Board{{2, 2, 4, 4}}, 64)
	m.Move(v.ID, t2048.DirLeft)

	view, err := m.Reset(v.ID)
	if err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if view.Score != 0 || view.Moves != 0 || t2048.TileCount(view.Board) != 2 {
		t.Errorf("view after reset = %+v", view)
	}
	if view.Player != "erin" || view.ID != v.ID {
		t.Errorf("reset changed identity: %+v", view)
	}
}

func TestManagerListDelete(t *testing.T) {
	m := newTestManager(nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	a, _ := m.Create("a", 1)
	b, _ := m.Create("b", 2)
	c, _ := m.Create("c", 3)

	list := m.List()
	if len(list) != 3 || list[0].ID != a.ID || list[1].ID != b.ID || list[2].ID != c.ID {
		t.Fatalf("List() not oldest first: %v", list)
	}

	if err := m.Delete(b.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	if _, err := m.Get(b.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after Delete error = %v", err)
	}
}

func TestManagerCleanupExpired(t *testing.T) {
	m := newTestManager(nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old, _ := m.Create("old", 1)
	now = now.Add(2 * time.Hour)
	fresh, _ := m.Create("fresh", 2)

	if removed := m.CleanupExpired(time.Hour); len(removed) != 1 || removed[0] != old.ID {
		t.Errorf("CleanupExpired() = %v, want [%s]", removed, old.ID)
	}
	if _, err := m.Get(old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("stale session was kept")
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
}

func TestManagerConcurrentMoves(t *testing.T) {
	m := newTestManager(&fakeRecorder{})
	v, _ := m.Create("race", 5)

	var moved atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				res, _, err := m.Move(v.ID, t2048.Directions[(w+i)%4])
				if err != nil {
					t.Errorf("Move() failed: %v", err)
					return
				}
				if res.Moved {
					moved.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	got, _ := m.Get(v.ID)
	if int64(got.Moves) != moved.Load() {
		t.Errorf("Moves = %d, want %d", got.Moves, moved.Load())
	}
}
