package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var postgresSchema = []string{
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
    created_at TIMESTAMPTZ NOT NULL,
    answered_at TIMESTAMPTZ,
    expires_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_sessions_user_created
    ON quiz_sessions (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS subject_stats (
    user_id TEXT NOT NULL,
    subject TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    correct INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, subject),
    CHECK (correct <= attempts)
)`,
}

// NewPostgres connects to databaseURL through the pgx driver.
func NewPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, &StorageError{Op: "open postgres", Err: err}
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StorageError{Op: "connect postgres", Err: err}
	}

	s, err := newSQLStore(ctx, db, dialect{
		name:   "postgres",
		schema: postgresSchema,
		rebind: dollarRebind,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
