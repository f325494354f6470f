// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS quiz_sessions (
    quiz_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    query TEXT NOT NULL,
    answer TEXT NOT NULL,
    question TEXT NOT NULL,
    options TEXT NOT NULL,
    correct TEXT NOT NULL,
    user_choice TEXT,
    is_correct BOOLEAN,
    created_at TIMESTAMP NOT NULL,
    answered_at TIMESTAMP,
    expires_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_sessions_user_created
    ON quiz_sessions (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS subject_stats (
    user_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    correct INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, subject),
    CHECK (correct <= attempts)
)`,
}

// sqliteParams: wait on locks instead of failing, and write timestamps in a
// sortable text layout.
const sqliteParams = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

// NewSQLite opens (or creates) the database file at dbPath.
func NewSQLite(ctx context.Context, dbPath string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dbPath+sqliteParams)
	if err != nil {
		return nil, &StorageError{Op: "open sqlite", Err: err}
	}

	// A single connection serializes writers, so the conditional answer
	// update and the stat upsert never hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s, err := newSQLStore(ctx, db, dialect{
		name:   "sqlite",
		schema: sqliteSchema,
		rebind: questionRebind,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
