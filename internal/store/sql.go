// internal/store/sql.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/learniz/backend/internal/domain/progress"
	"github.com/learniz/backend/internal/domain/quiz"
)

// dialect holds what differs between the SQL engines behind SQLStore.
type dialect struct {
	name   string
	schema []string
	rebind func(query string) string
}

// SQLStore implements Store on database/sql. Queries are written with '?'
// placeholders and rebound per dialect.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// Compile-time check: *SQLStore satisfies the Store interface.
var _ Store = (*SQLStore)(nil)

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, &StorageError{Op: "migrate " + d.name, Err: err}
		}
	}
	return &SQLStore{db: db, dialect: d}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (s *SQLStore) q(query string) string {
	return s.dialect.rebind(query)
}

// ============================================================================
// Sessions
// ============================================================================

const sessionColumns = `quiz_id, user_id, subject, query, answer, question, options, correct,
	user_choice, is_correct, created_at, answered_at, expires_at`

func (s *SQLStore) CreateSession(ctx context.Context, session *quiz.Session) error {
	optionsJSON, err := json.Marshal(session.MCQ.Options)
	if err != nil {
		return &StorageError{Op: "create session", Err: err}
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO quiz_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		session.ID, session.UserID, session.Subject, session.Query, session.Answer,
		session.MCQ.Question, string(optionsJSON), session.MCQ.Correct,
		nullString(session.UserChoice), nullBool(session.IsCorrect),
		session.CreatedAt.UTC(), nullTimeValue(session.AnsweredAt), session.ExpiresAt.UTC(),
	)
	if err != nil {
		return &StorageError{Op: "create session", Err: err}
	}
	return nil
}

func (s *SQLStore) FindSession(ctx context.Context, quizID, userID string) (*quiz.Session, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
		SELECT `+sessionColumns+`
		FROM quiz_sessions
		WHERE quiz_id = ? AND user_id = ?`),
		quizID, userID,
	)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "find session", Err: err}
	}
	return session, nil
}

func (s *SQLStore) RecordAnswer(ctx context.Context, quizID, userID, choice string, isCorrect bool, answeredAt time.Time) error {
	result, err := s.db.ExecContext(ctx, s.q(`
		UPDATE quiz_sessions
		SET user_choice = ?, is_correct = ?, answered_at = ?
		WHERE quiz_id = ? AND user_id = ? AND user_choice IS NULL`),
		choice, isCorrect, answeredAt.UTC(), quizID, userID,
	)
	if err != nil {
		return &StorageError{Op: "record answer", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &StorageError{Op: "record answer", Err: err}
	}
	if rowsAffected > 0 {
		return nil
	}

	// Nothing was written: either the session vanished or someone answered first.
	var one int
	err = s.db.QueryRowContext(ctx, s.q(
		"SELECT 1 FROM quiz_sessions WHERE quiz_id = ? AND user_id = ?"),
		quizID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "record answer", Err: err}
	}
	return quiz.ErrAlreadyAnswered
}

func (s *SQLStore) ListSessions(ctx context.Context, f SessionFilter) ([]*quiz.Session, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := "SELECT " + sessionColumns + " FROM quiz_sessions WHERE user_id = ?"
	args := []any{f.UserID}
	if f.Subject != "" {
		query += " AND subject = ?"
		args = append(args, f.Subject)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, &StorageError{Op: "list sessions", Err: err}
	}
	defer rows.Close()

	sessions := []*quiz.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, &StorageError{Op: "list sessions", Err: err}
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*quiz.Session, error) {
	var session quiz.Session
	var optionsJSON string
	var choice sql.NullString
	var isCorrect sql.NullBool
	var createdAt, answeredAt, expiresAt nullTime

	err := row.Scan(
		&session.ID, &session.UserID, &session.Subject, &session.Query, &session.Answer,
		&session.MCQ.Question, &optionsJSON, &session.MCQ.Correct,
		&choice, &isCorrect, &createdAt, &answeredAt, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(optionsJSON), &session.MCQ.Options); err != nil {
		return nil, fmt.Errorf("decode options for quiz %s: %w", session.ID, err)
	}
	if choice.Valid {
		session.UserChoice = &choice.String
	}
	if isCorrect.Valid {
		session.IsCorrect = &isCorrect.Bool
	}
	if answeredAt.Valid {
		session.AnsweredAt = &answeredAt.Time
	}
	session.CreatedAt = createdAt.Time
	session.ExpiresAt = expiresAt.Time

	return &session, nil
}

// ============================================================================
// Stats
// ============================================================================

func (s *SQLStore) IncrementSubjectStat(ctx context.Context, userID, subject string, correct bool) error {
	inc := 0
	if correct {
		inc = 1
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO subject_stats (user_id, subject, attempts, correct)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, subject) DO UPDATE SET
			attempts = subject_stats.attempts + 1,
			correct = subject_stats.correct + excluded.correct`),
		userID, subject, inc,
	)
	if err != nil {
		return &StorageError{Op: "increment subject stat", Err: err}
	}
	return nil
}

func (s *SQLStore) ListSubjectStats(ctx context.Context, userID string) ([]progress.SubjectStat, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT user_id, subject, attempts, correct
		FROM subject_stats
		WHERE user_id = ?
		ORDER BY subject`),
		userID,
	)
	if err != nil {
		return nil, &StorageError{Op: "list subject stats", Err: err}
	}
	defer rows.Close()

	stats := []progress.SubjectStat{}
	for rows.Next() {
		var st progress.SubjectStat
		if err := rows.Scan(&st.UserID, &st.Subject, &st.Attempts, &st.Correct); err != nil {
			return nil, &StorageError{Op: "list subject stats", Err: err}
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list subject stats", Err: err}
	}
	return stats, nil
}

// ============================================================================
// Value helpers
// ============================================================================

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullTimeValue(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// nullTime scans timestamps from drivers that return time.Time (pgx) as
// well as those that may hand back text (SQLite).
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func (t *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case int64:
		t.Time, t.Valid = time.Unix(v, 0).UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return errors.New("unrecognized timestamp format: " + s)
}

// questionRebind leaves '?' placeholders as they are.
func questionRebind(query string) string {
	return query
}

// dollarRebind rewrites '?' placeholders to $1, $2, ... in order.
func dollarRebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
