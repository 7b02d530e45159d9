// internal/writers/sqlite.go
package writers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func init() {
	Register("sqlite", func(o Options) (Factory, error) {
		if o.DB == "" {
			return nil, errors.New("sqlite output requires a database path (--db)")
		}
		return FactoryFunc(func(_ io.Writer, bufSize int) (chan<- Row, <-chan error) {
			return startSQLite(o.DB, o.Run, bufSize)
		}), nil
	})
}

// sqliteBatch is the number of rows inserted per transaction.
const sqliteBatch = 2048

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at INTEGER NOT NULL,
    corpus TEXT NOT NULL,
    alignment TEXT,
    max_ngram INTEGER NOT NULL,
    version TEXT
);

CREATE TABLE IF NOT EXISTS phrases (
    run_id TEXT NOT NULL,
    line INTEGER NOT NULL,
    source TEXT NOT NULL,
    target TEXT NOT NULL,
    source_start INTEGER NOT NULL,
    source_end INTEGER NOT NULL,
    target_start INTEGER NOT NULL,
    target_end INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_phrases_run_line ON phrases(run_id, line);
CREATE INDEX IF NOT EXISTS idx_phrases_source ON phrases(source);
`

// PhraseTable is a SQLite-backed store of extracted phrase pairs. Every
// run gets its own id so several runs can share one database file.
type PhraseTable struct {
	db *sql.DB
}

// OpenPhraseTable opens (or creates) the database at dsn.
// Use ":memory:" for in-memory or a file path for persistent storage.
func OpenPhraseTable(dsn string) (*PhraseTable, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PhraseTable{db: db}, nil
}

// Close closes the database connection.
func (t *PhraseTable) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

// BeginRun records a run and returns its id.
func (t *PhraseTable) BeginRun(info RunInfo) (string, error) {
	id := uuid.NewString()
	var align any
	if info.Alignment != "" {
		align = info.Alignment
	}
	_, err := t.db.Exec(
		`INSERT INTO runs (id, started_at, corpus, alignment, max_ngram, version) VALUES (?, ?, ?, ?, ?, ?)`,
		id, info.Started.Unix(), info.Corpus, align, info.MaxNgram, info.Version,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// Insert writes rows for runID in one transaction.
func (t *PhraseTable) Insert(runID string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := t.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO phrases
        (run_id, line, source, target, source_start, source_end, target_start, target_end)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(runID, r.Line, r.Source, r.Target,
			r.SourceSpan.Start, r.SourceSpan.End, r.TargetSpan.Start, r.TargetSpan.End); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert phrase: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Count returns the number of phrases stored for runID.
func (t *PhraseTable) Count(runID string) (int, error) {
	var n int
	err := t.db.QueryRow(`SELECT COUNT(*) FROM phrases WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// Runs lists run ids, oldest first.
func (t *PhraseTable) Runs() ([]string, error) {
	rows, err := t.db.Query(`SELECT id FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Phrases returns the rows of runID in insertion order.
func (t *PhraseTable) Phrases(runID string) ([]Row, error) {
	rows, err := t.db.Query(`SELECT line, source, target, source_start, source_end, target_start, target_end
        FROM phrases WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Line, &r.Source, &r.Target,
			&r.SourceSpan.Start, &r.SourceSpan.End, &r.TargetSpan.Start, &r.TargetSpan.End); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func startSQLite(dsn string, info RunInfo, bufSize int) (chan<- Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan Row, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var (
			err   error
			runID string
			buf   = make([]Row, 0, sqliteBatch)
		)
		tbl, err := OpenPhraseTable(dsn)
		if err == nil {
			runID, err = tbl.BeginRun(info)
		}
		for r := range in {
			if err != nil {
				continue
			}
			buf = append(buf, r)
			if len(buf) == sqliteBatch {
				err = tbl.Insert(runID, buf)
				buf = buf[:0]
			}
		}
		if err == nil {
			err = tbl.Insert(runID, buf)
		}
		if tbl != nil {
			if cerr := tbl.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
		errCh <- err
	}()
	return in, errCh
}
