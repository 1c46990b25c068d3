// Package store archives finished lottery runs in SQLite
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lixenwraith/marble-lottery/engine"
)

// ErrNotFound reports a missing run id
var ErrNotFound = errors.New("run not found")

// Run is one archived lottery run
type Run struct {
	ID        int64                 `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Seed      uint32                `json:"seed"`
	Board     string                `json:"board"`
	Layout    string                `json:"layout"`
	Slots     int                   `json:"slots"`
	Duration  float64               `json:"duration"` // Simulated seconds at the last step
	Counts    map[string]int        `json:"counts"`
	Results   []engine.FinishRecord `json:"results,omitempty"` // Arrival order
	Winner    *engine.FinishRecord  `json:"winner"`
}

// RunFromState captures the outcome of s
func RunFromState(s *engine.GameState) Run {
	r := Run{
		Seed:     s.Seed,
		Board:    s.Board.Name,
		Layout:   s.Board.Kind.String(),
		Slots:    len(s.Board.Slots),
		Duration: s.Time,
		Counts:   s.Counts(),
		Results:  append([]engine.FinishRecord(nil), s.Finished...),
	}
	if s.Winner != nil {
		w := *s.Winner
		r.Winner = &w
	}
	return r
}

// Store persists runs in SQLite
type Store struct {
	db *sql.DB
}

// Open opens a SQLite run archive and applies embedded migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts r with its results and returns the new id
// CreatedAt defaults to now
func (s *Store) SaveRun(ctx context.Context, r Run) (int64, error) {
	counts, err := json.Marshal(r.Counts)
	if err != nil {
		return 0, fmt.Errorf("encode counts: %w", err)
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	var winner sql.NullInt64
	if r.Winner != nil {
		pos := winnerPosition(r.Results, *r.Winner)
		if pos < 0 {
			return 0, fmt.Errorf("winner marble %d not among results", r.Winner.MarbleID)
		}
		winner = sql.NullInt64{Int64: int64(pos), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, seed, board, layout, slots, duration, counts, winner_position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		created.UTC().UnixMilli(), int64(r.Seed), r.Board, r.Layout, r.Slots, r.Duration, string(counts), winner,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_results (run_id, position, marble_id, entity_id, t, slot, label)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare results: %w", err)
	}
	defer stmt.Close()
	for i, rec := range r.Results {
		if _, err := stmt.ExecContext(ctx, id, i, rec.MarbleID, rec.EntityID, rec.T, rec.Slot, rec.Label); err != nil {
			return 0, fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

func winnerPosition(results []engine.FinishRecord, w engine.FinishRecord) int {
	for i, rec := range results {
		if rec == w {
			return i
		}
	}
	return -1
}

// GetRun loads a run with its results, ErrNotFound if absent
func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, seed, board, layout, slots, duration, counts, winner_position
		 FROM runs WHERE id = ?`, id)
	r, winner, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT marble_id, entity_id, t, slot, label FROM run_results
		 WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec engine.FinishRecord
		if err := rows.Scan(&rec.MarbleID, &rec.EntityID, &rec.T, &rec.Slot, &rec.Label); err != nil {
			return Run{}, fmt.Errorf("scan result: %w", err)
		}
		r.Results = append(r.Results, rec)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate results: %w", err)
	}

	if winner.Valid && int(winner.Int64) < len(r.Results) {
		w := r.Results[winner.Int64]
		r.Winner = &w
	}
	return r, nil
}

// ListRuns returns run headers newest first, without results; limit <= 0 means 50
// Winner is set when the run had one
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.seed, r.board, r.layout, r.slots, r.duration, r.counts, r.winner_position,
		        w.marble_id, w.entity_id, w.t, w.slot, w.label
		 FROM runs r
		 LEFT JOIN run_results w ON w.run_id = r.id AND w.position = r.winner_position
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r         Run
			createdMs int64
			seed      int64
			counts    string
			winnerPos sql.NullInt64
			marbleID  sql.NullInt64
			entityID  sql.NullString
			t         sql.NullFloat64
			slot      sql.NullInt64
			label     sql.NullString
		)
		if err := rows.Scan(&r.ID, &createdMs, &seed, &r.Board, &r.Layout, &r.Slots, &r.Duration, &counts, &winnerPos,
			&marbleID, &entityID, &t, &slot, &label); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := fillRun(&r, createdMs, seed, counts); err != nil {
			return nil, err
		}
		if marbleID.Valid {
			r.Winner = &engine.FinishRecord{
				MarbleID: int(marbleID.Int64),
				EntityID: entityID.String,
				T:        t.Float64,
				Slot:     int(slot.Int64),
				Label:    label.String,
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func scanRun(row *sql.Row) (Run, sql.NullInt64, error) {
	var (
		r         Run
		createdMs int64
		seed      int64
		counts    string
		winner    sql.NullInt64
	)
	if err := row.Scan(&r.ID, &createdMs, &seed, &r.Board, &r.Layout, &r.Slots, &r.Duration, &counts, &winner); err != nil {
		return Run{}, winner, err
	}
	if err := fillRun(&r, createdMs, seed, counts); err != nil {
		return Run{}, winner, err
	}
	return r, winner, nil
}

func fillRun(r *Run, createdMs, seed int64, counts string) error {
	r.CreatedAt = time.UnixMilli(createdMs).UTC()
	r.Seed = uint32(seed)
	if err := json.Unmarshal([]byte(counts), &r.Counts); err != nil {
		return fmt.Errorf("decode counts of run %d: %w", r.ID, err)
	}
	return nil
}
