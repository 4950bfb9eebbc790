package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"snapsort/internal/config"
)

// Status marks how a batch ended.
type Status string

const (
	StatusFinalized Status = "finalized"
	StatusFailed    Status = "failed"
)

// Batch is one ledger row describing a finished collection run.
type Batch struct {
	ID           int64
	BatchID      string
	Category     string
	Subcategory  string
	Destination  string
	Staged       int
	Moved        int
	Failed       int
	Status       Status
	ErrorMessage string
	StartedAt    time.Time
	FinalizedAt  time.Time
}

// Store persists the batch ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the history database under the log directory, creating
// the schema on first use.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends one finished batch to the ledger. A zero FinalizedAt is
// stamped with the current time; the row id is written back into batch.
func (s *Store) Record(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return errors.New("batch is nil")
	}
	if batch.FinalizedAt.IsZero() {
		batch.FinalizedAt = time.Now().UTC()
	}
	startedAt := batch.StartedAt
	if startedAt.IsZero() {
		startedAt = batch.FinalizedAt
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO batches (
            batch_id, category, subcategory, destination,
            staged, moved, failed, status, error_message,
            started_at, finalized_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.BatchID,
		batch.Category,
		batch.Subcategory,
		nullableString(batch.Destination),
		batch.Staged,
		batch.Moved,
		batch.Failed,
		string(batch.Status),
		nullableString(batch.ErrorMessage),
		startedAt.UTC().Format(time.RFC3339Nano),
		batch.FinalizedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	batch.ID = id
	return nil
}

// Recent returns the newest batches first, at most limit rows. A
// non-positive limit falls back to 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+batchColumns+` FROM batches ORDER BY finalized_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var batches []*Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// Stats returns a count of batches grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM batches GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("batch stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const batchColumns = "id, batch_id, category, subcategory, destination, staged, moved, failed, status, error_message, started_at, finalized_at"

func scanBatch(scanner interface{ Scan(dest ...any) error }) (*Batch, error) {
	var (
		id           int64
		batchID      string
		category     string
		subcategory  string
		destination  sql.NullString
		staged       int
		moved        int
		failed       int
		statusStr    string
		errorMessage sql.NullString
		startedRaw   sql.NullString
		finalizedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&batchID,
		&category,
		&subcategory,
		&destination,
		&staged,
		&moved,
		&failed,
		&statusStr,
		&errorMessage,
		&startedRaw,
		&finalizedRaw,
	); err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:           id,
		BatchID:      batchID,
		Category:     category,
		Subcategory:  subcategory,
		Destination:  destination.String,
		Staged:       staged,
		Moved:        moved,
		Failed:       failed,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		batch.StartedAt = started
	}
	if finalized, err := parseTimeString(finalizedRaw.String); err == nil {
		batch.FinalizedAt = finalized
	}
	return batch, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
