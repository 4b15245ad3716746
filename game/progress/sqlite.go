package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wricardo/mazequest/game/service"
)

const schema = `CREATE TABLE IF NOT EXISTS progress (
	game_id     TEXT PRIMARY KEY,
	best_score  INTEGER NOT NULL DEFAULT 0,
	plays       INTEGER NOT NULL DEFAULT 0,
	last_played INTEGER NOT NULL
)`

// SQLiteStore keeps one row per game in a SQLite database
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and ensures the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create progress table: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record adds a finished game with score
func (s *SQLiteStore) Record(ctx context.Context, gameID string, score int) (*service.ProgressRecord, error) {
	if err := validate(gameID, score); err != nil {
		return nil, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (game_id, best_score, plays, last_played)
		 VALUES (?, ?, 1, ?)
		 ON CONFLICT(game_id) DO UPDATE SET
		   best_score  = MAX(best_score, excluded.best_score),
		   plays       = plays + 1,
		   last_played = excluded.last_played`,
		gameID, score, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("record progress: %w", err)
	}
	return s.Get(ctx, gameID)
}

// Get returns the record for gameID
func (s *SQLiteStore) Get(ctx context.Context, gameID string) (*service.ProgressRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT game_id, best_score, plays, last_played FROM progress WHERE game_id = ?`, gameID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", gameID, ErrProgressNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return rec, nil
}

// All returns every record ordered by game id
func (s *SQLiteStore) All(ctx context.Context) ([]*service.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, best_score, plays, last_played FROM progress ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	out := []*service.ProgressRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Reset clears every record
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM progress`); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*service.ProgressRecord, error) {
	var (
		rec    service.ProgressRecord
		played int64
	)
	if err := row.Scan(&rec.GameID, &rec.BestScore, &rec.Plays, &played); err != nil {
		return nil, err
	}
	rec.LastPlayed = time.UnixMilli(played).UTC()
	return &rec, nil
}
