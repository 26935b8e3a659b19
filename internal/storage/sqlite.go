// Package storage keeps the history of tail sessions in a local sqlite file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Outcome tells how a tail session ended
type Outcome string

const (
	OutcomeQuit    Outcome = "quit"
	OutcomeFailed  Outcome = "failed"
	OutcomeExpired Outcome = "expired"
)

// SessionEntry is one finished tail session
type SessionEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Region    string    `json:"region" yaml:"region"`
	LogGroup  string    `json:"logGroup" yaml:"logGroup"`
	LogStream string    `json:"logStream" yaml:"logStream"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
	EndedAt   time.Time `json:"endedAt" yaml:"endedAt"`
	Events    int       `json:"events" yaml:"events"`
	Fetches   int       `json:"fetches" yaml:"fetches"`
	Refreshes int       `json:"refreshes" yaml:"refreshes"`
	Outcome   Outcome   `json:"outcome" yaml:"outcome"`
}

// Duration is how long the session ran
func (e SessionEntry) Duration() time.Duration {
	return e.EndedAt.Sub(e.StartedAt)
}

// Options tune a Storage
type Options struct {
	Path string
	// Retention is how long sessions are kept; zero keeps them forever
	Retention       time.Duration
	FlushInterval   time.Duration
	CleanupInterval time.Duration
}

// DefaultOptions returns the options used by the CLI for path
func DefaultOptions(path string) Options {
	return Options{
		Path:            path,
		Retention:       30 * 24 * time.Hour,
		FlushInterval:   5 * time.Second,
		CleanupInterval: time.Hour,
	}
}

// Storage handles persistent session history
type Storage struct {
	db        *sql.DB
	opts      Options
	logger    *zap.Logger
	writeChan chan *SessionEntry
	closeChan chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open opens (and creates if needed) the history database
func Open(opts Options, logger *zap.Logger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 5 * time.Second
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Hour
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection, sqlite serializes writers anyway
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &Storage{
		db:        db,
		opts:      opts,
		logger:    logger,
		writeChan: make(chan *SessionEntry, 100),
		closeChan: make(chan struct{}),
	}

	s.wg.Add(2)
	go s.writer()
	go s.cleanup()

	return s, nil
}

// createTables creates the database schema
func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		region TEXT NOT NULL,
		log_group TEXT NOT NULL,
		log_stream TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		events INTEGER NOT NULL DEFAULT 0,
		fetches INTEGER NOT NULL DEFAULT 0,
		refreshes INTEGER NOT NULL DEFAULT 0,
		outcome TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_ended
	ON sessions(ended_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Write queues a session for writing. An empty ID gets a fresh uuid.
func (s *Storage) Write(entry *SessionEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	select {
	case s.writeChan <- entry:
	default:
		// history is best effort, never block the tail loop
		s.logger.Warn("history queue full, dropping session", zap.String("id", entry.ID))
	}
}

// writer runs in background and batch writes to the database
func (s *Storage) writer() {
	defer s.wg.Done()

	buffer := make([]*SessionEntry, 0, 16)
	ticker := time.NewTicker(s.opts.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-s.writeChan:
			buffer = append(buffer, entry)
			if len(buffer) >= cap(buffer) {
				s.batchWrite(buffer)
				buffer = buffer[:0]
			}

		case <-ticker.C:
			if len(buffer) > 0 {
				s.batchWrite(buffer)
				buffer = buffer[:0]
			}

		case <-s.closeChan:
			// drain what is queued, then final flush
		drain:
			for {
				select {
				case entry := <-s.writeChan:
					buffer = append(buffer, entry)
				default:
					break drain
				}
			}
			if len(buffer) > 0 {
				s.batchWrite(buffer)
			}
			return
		}
	}
}

// batchWrite writes a batch of sessions in one transaction
func (s *Storage) batchWrite(entries []*SessionEntry) {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error("history write failed", zap.Error(err))
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO sessions
		(id, region, log_group, log_stream, started_at, ended_at,
		 events, fetches, refreshes, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		s.logger.Error("history write failed", zap.Error(err))
		return
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.Exec(
			e.ID,
			e.Region,
			e.LogGroup,
			e.LogStream,
			e.StartedAt.UnixMilli(),
			e.EndedAt.UnixMilli(),
			e.Events,
			e.Fetches,
			e.Refreshes,
			string(e.Outcome),
		)
		if err != nil {
			s.logger.Warn("history insert failed", zap.String("id", e.ID), zap.Error(err))
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("history commit failed", zap.Error(err))
		return
	}
	s.logger.Debug("history flushed", zap.Int("sessions", len(entries)))
}

// Recent returns up to limit sessions, newest first
func (s *Storage) Recent(ctx context.Context, limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, region, log_group, log_stream, started_at, ended_at,
		       events, fetches, refreshes, outcome
		FROM sessions
		ORDER BY ended_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows scans database rows into SessionEntries
func scanRows(rows *sql.Rows) ([]SessionEntry, error) {
	var entries []SessionEntry

	for rows.Next() {
		var e SessionEntry
		var started, ended int64
		var outcome string

		if err := rows.Scan(&e.ID, &e.Region, &e.LogGroup, &e.LogStream,
			&started, &ended, &e.Events, &e.Fetches, &e.Refreshes, &outcome); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		e.StartedAt = time.UnixMilli(started)
		e.EndedAt = time.UnixMilli(ended)
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// cleanup removes expired sessions periodically
func (s *Storage) cleanup() {
	defer s.wg.Done()
	if s.opts.Retention <= 0 {
		<-s.closeChan
		return
	}

	s.prune(time.Now().Add(-s.opts.Retention))

	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.prune(time.Now().Add(-s.opts.Retention))
		case <-s.closeChan:
			return
		}
	}
}

func (s *Storage) prune(cutoff time.Time) {
	n, err := s.Prune(context.Background(), cutoff)
	if err != nil {
		s.logger.Warn("history cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("history cleanup", zap.Int64("deleted", n))
	}
}

// Prune deletes sessions that ended before cutoff, in batches to keep
// locks short
func (s *Storage) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	const batchSize = 500
	var total int64
	for {
		result, err := s.db.ExecContext(ctx, `
			DELETE FROM sessions WHERE id IN (
				SELECT id FROM sessions WHERE ended_at < ? LIMIT ?
			)`,
			cutoff.UnixMilli(),
			batchSize,
		)
		if err != nil {
			return total, fmt.Errorf("prune sessions: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("prune sessions: %w", err)
		}
		total += n
		if n < batchSize {
			return total, nil
		}
	}
}

// Close flushes queued sessions and closes the database
func (s *Storage) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})
	s.wg.Wait()
	return s.db.Close()
}
