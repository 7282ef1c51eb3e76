// Package store keeps the talk history of the current meeting in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/highlights/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryPath opens a database that lives only as long as the process.
const MemoryPath = ":memory:"

// Store wraps SQLite access for archived talks.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database and applies migrations. The directory of
// a file path must already exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == MemoryPath {
		// Every new connection to :memory: is a fresh, empty database.
		db.SetMaxOpenConns(1)
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
		`CREATE TABLE IF NOT EXISTS talks (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			ended_at TEXT NOT NULL,
			talk_length INTEGER NOT NULL,
			comment_count INTEGER NOT NULL,
			dropped INTEGER NOT NULL,
			longest INTEGER NOT NULL,
			shortest INTEGER NOT NULL,
			average INTEGER NOT NULL,
			midmean INTEGER NOT NULL,
			total_elapsed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS talk_comments (
			talk_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			elapsed INTEGER NOT NULL,
			PRIMARY KEY (talk_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_talks_seq ON talks(seq);`,
	}
	for i, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// InsertTalk archives a finished talk with its comment timestamps. The ID
// and sequence number are assigned here and returned in the record.
func (s *Store) InsertTalk(ctx context.Context, summary model.SummaryReport, endedAt time.Time, comments []int) (rec model.TalkRecord, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.TalkRecord{}, fmt.Errorf("begin insert talk: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var seq int
	if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM talks`).Scan(&seq); err != nil {
		return model.TalkRecord{}, fmt.Errorf("next talk seq: %w", err)
	}
	rec = model.TalkRecord{
		ID:      uuid.NewString(),
		Seq:     seq,
		EndedAt: endedAt,
		Summary: summary,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO talks (id, seq, ended_at, talk_length, comment_count, dropped, longest, shortest, average, midmean, total_elapsed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Seq,
		rec.EndedAt.Format(time.RFC3339Nano),
		summary.TalkLength,
		summary.CommentCount,
		summary.Dropped,
		summary.Longest,
		summary.Shortest,
		summary.Average,
		summary.Midmean,
		summary.TotalElapsed,
	)
	if err != nil {
		return model.TalkRecord{}, fmt.Errorf("insert talk: %w", err)
	}

	if len(comments) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO talk_comments (talk_id, position, elapsed) VALUES (?, ?, ?)`)
		if err != nil {
			return model.TalkRecord{}, fmt.Errorf("prepare insert comment: %w", err)
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, elapsed := range comments {
			if _, err = stmt.ExecContext(ctx, rec.ID, i, elapsed); err != nil {
				return model.TalkRecord{}, fmt.Errorf("insert comment: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return model.TalkRecord{}, fmt.Errorf("commit talk: %w", err)
	}
	return rec, nil
}

// ListTalks returns archived talks in the order they ended.
func (s *Store) ListTalks(ctx context.Context) ([]model.TalkRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seq, ended_at, talk_length, comment_count, dropped, longest, shortest, average, midmean, total_elapsed
		 FROM talks
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list talks: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var talks []model.TalkRecord
	for rows.Next() {
		var rec model.TalkRecord
		var endedAt string
		sum := &rec.Summary
		if err := rows.Scan(&rec.ID, &rec.Seq, &endedAt, &sum.TalkLength, &sum.CommentCount, &sum.Dropped,
			&sum.Longest, &sum.Shortest, &sum.Average, &sum.Midmean, &sum.TotalElapsed); err != nil {
			return nil, fmt.Errorf("scan talk: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		rec.EndedAt = parsed
		talks = append(talks, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list talks: %w", err)
	}
	return talks, nil
}

// ListComments returns the stored comment timestamps of a talk in recording order.
func (s *Store) ListComments(ctx context.Context, talkID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT elapsed FROM talk_comments WHERE talk_id = ? ORDER BY position ASC`, talkID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var comments []int
	for rows.Next() {
		var elapsed int
		if err := rows.Scan(&elapsed); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, elapsed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
