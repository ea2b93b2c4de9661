// Package storage provides SQLite-based persistence for 2048 scores.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/session"
)

// DefaultLimit is used when a query asks for a non-positive number of rows.
const DefaultLimit = 10

// ErrEmptyPlayer is returned when saving a score without a player name.
var ErrEmptyPlayer = errors.New("storage: empty player name")

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// Entry represents a single finished game.
type Entry struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SSH sessions and API sessions write concurrently; SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game. ID and CreatedAt are ignored.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(e Entry) (int64, error) {
	if strings.TrimSpace(e.Player) == "" {
		return 0, ErrEmptyPlayer
	}
	if e.Score < 0 || e.MaxTile < 0 || e.Moves < 0 {
		return 0, fmt.Errorf("storage: negative value in entry %+v", e)
	}

	result, err := s.db.Exec(
		"INSERT INTO scores (player, score, max_tile, moves) VALUES (?, ?, ?, ?)",
		e.Player, e.Score, e.MaxTile, e.Moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordScore implements session.ScoreRecorder.
func (s *Store) RecordScore(r session.Result) error {
	_, err := s.SaveScore(Entry{
		Player:  r.Player,
		Score:   r.Score,
		MaxTile: r.MaxTile,
		Moves:   r.Moves,
	})
	return err
}

// Ensure Store implements ScoreRecorder
var _ session.ScoreRecorder = (*Store)(nil)

// TopScores retrieves the top N scores across all players.
// Results are ordered by score descending; ties keep insertion order.
func (s *Store) TopScores(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, max_tile, moves, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanEntries(rows)
}

// PlayerScores retrieves the top N scores of one player.
func (s *Store) PlayerScores(player string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, max_tile, moves, created_at
		 FROM scores
		 WHERE player = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player scores: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score of all players.
// Returns 0 if no scores exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// PlayerBest returns the highest score of one player.
// Returns 0 if the player has no scores.
func (s *Store) PlayerBest(player string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE player = ?",
		player,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query player best: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores deletes every score.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ClearPlayer deletes the scores of one player.
func (s *Store) ClearPlayer(player string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear player scores: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics over all games.
type Stats struct {
	GamesCount int       `json:"games"`
	Players    int       `json:"players"`
	HighScore  int       `json:"high_score"`
	BestTile   int       `json:"best_tile"`
	AvgScore   float64   `json:"avg_score"`
	TotalMoves int64     `json:"total_moves"`
	LastPlayed time.Time `json:"last_played"`
}

// Stats retrieves aggregated statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT player), COALESCE(MAX(score), 0), COALESCE(MAX(max_tile), 0),
		        COALESCE(AVG(score), 0), COALESCE(SUM(moves), 0), MAX(created_at)
		 FROM scores`,
	).Scan(&stats.GamesCount, &stats.Players, &stats.HighScore, &stats.BestTile,
		&stats.AvgScore, &stats.TotalMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// PlayerStats contains one row of the per-player leaderboard.
type PlayerStats struct {
	Player     string    `json:"player"`
	GamesCount int       `json:"games"`
	Best       int       `json:"best"`
	BestTile   int       `json:"best_tile"`
	AvgScore   float64   `json:"avg_score"`
	LastPlayed time.Time `json:"last_played"`
}

// Leaderboard returns per-player statistics ordered by best score.
func (s *Store) Leaderboard(limit int) ([]PlayerStats, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.Query(
		`SELECT player, COUNT(*), MAX(score), MAX(max_tile), AVG(score), MAX(created_at)
		 FROM scores
		 GROUP BY player
		 ORDER BY MAX(score) DESC, player ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []PlayerStats
	for rows.Next() {
		var p PlayerStats
		var lastPlayed any
		if err := rows.Scan(&p.Player, &p.GamesCount, &p.Best, &p.BestTile, &p.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan leaderboard row: %w", err)
		}
		p.LastPlayed = parseTime(lastPlayed)
		board = append(board, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return board, nil
}
