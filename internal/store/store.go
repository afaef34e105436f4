// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuizen/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps compare as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for local history and identity.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS device (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			device_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			activity TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			detail INTEGER NOT NULL,
			difficulty TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS best_scores (
			game TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_ended_at ON activities(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DeviceID returns the anonymous device identifier, creating it on first use.
func (s *Store) DeviceID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT device_id FROM device WHERE id = 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = "anon-" + uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO device (id, device_id, created_at) VALUES (1, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout)); err != nil {
		return "", err
	}
	// Another process may have won the insert.
	if err := s.db.QueryRowContext(ctx, `SELECT device_id FROM device WHERE id = 1`).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// InsertActivity records a finished activity.
func (s *Store) InsertActivity(ctx context.Context, rec model.ActivityRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (activity, started_at, ended_at, detail, difficulty)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Activity,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.EndedAt.UTC().Format(timeLayout),
		rec.Detail,
		string(rec.Difficulty),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordBestScore keeps the highest score per game. It reports whether score
// is a new best.
func (s *Store) RecordBestScore(ctx context.Context, game model.Game, score int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var current int
	err = tx.QueryRowContext(ctx, `SELECT score FROM best_scores WHERE game = ?`, string(game)).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	case err != nil:
		return false, err
	case score <= current:
		err = tx.Commit()
		return false, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO best_scores (game, score, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(game) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at`,
		string(game), score, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// BestScore returns the local best for a game, or 0.
func (s *Store) BestScore(ctx context.Context, game model.Game) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM best_scores WHERE game = ?`, string(game)).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return score, err
}

// ListActivities returns recorded activities, oldest first. since may be nil.
func (s *Store) ListActivities(ctx context.Context, since *time.Time) ([]model.ActivityRecord, error) {
	query := `SELECT activity, started_at, ended_at, detail, difficulty FROM activities`
	var args []any
	if since != nil {
		query += ` WHERE ended_at >= ?`
		args = append(args, since.UTC().Format(timeLayout))
	}
	query += ` ORDER BY ended_at ASC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.ActivityRecord
	for rows.Next() {
		var rec model.ActivityRecord
		var started, ended, difficulty string
		if err := rows.Scan(&rec.Activity, &started, &ended, &rec.Detail, &difficulty); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("bad started_at %q: %w", started, err)
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, fmt.Errorf("bad ended_at %q: %w", ended, err)
		}
		rec.Difficulty = model.Difficulty(difficulty)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Aggregate summarizes recorded activities per activity name, ordered by name.
func (s *Store) Aggregate(ctx context.Context, since *time.Time) ([]model.ActivityAggregate, error) {
	recs, err := s.ListActivities(ctx, since)
	if err != nil {
		return nil, err
	}
	byName := map[string]*model.ActivityAggregate{}
	var order []string
	for _, rec := range recs {
		agg, ok := byName[rec.Activity]
		if !ok {
			agg = &model.ActivityAggregate{Activity: rec.Activity}
			byName[rec.Activity] = agg
			order = append(order, rec.Activity)
		}
		agg.Sessions++
		agg.DurationMs += rec.EndedAt.Sub(rec.StartedAt).Milliseconds()
		if rec.Detail > agg.BestDetail {
			agg.BestDetail = rec.Detail
		}
		if rec.EndedAt.After(agg.LastEnded) {
			agg.LastEnded = rec.EndedAt
		}
	}
	out := make([]model.ActivityAggregate, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sortAggregates(out)
	return out, nil
}

func sortAggregates(aggs []model.ActivityAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		return aggs[i].Activity < aggs[j].Activity
	})
}
