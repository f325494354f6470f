package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learniz/backend/internal/domain/progress"
	"github.com/learniz/backend/internal/domain/quiz"
)

var (
	ErrNotFound = errors.New("not found")
)

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

const (
	DefaultListLimit = 200
	MaxListLimit     = 1000
)

// SessionFilter selects sessions for ListSessions. Subject is optional.
type SessionFilter struct {
	UserID  string
	Subject string
	Limit   int // <= 0 means DefaultListLimit
}

// Store persists quiz sessions and per-subject statistics.
type Store interface {
	CreateSession(ctx context.Context, s *quiz.Session) error
	// FindSession returns ErrNotFound when no session matches both ids.
	FindSession(ctx context.Context, quizID, userID string) (*quiz.Session, error)
	// RecordAnswer only succeeds while the session is unanswered; otherwise
	// it returns quiz.ErrAlreadyAnswered without writing.
	RecordAnswer(ctx context.Context, quizID, userID, choice string, isCorrect bool, answeredAt time.Time) error
	// IncrementSubjectStat atomically creates or bumps the (user, subject) counters.
	IncrementSubjectStat(ctx context.Context, userID, subject string, correct bool) error
	ListSessions(ctx context.Context, f SessionFilter) ([]*quiz.Session, error)
	ListSubjectStats(ctx context.Context, userID string) ([]progress.SubjectStat, error)
	Ping(ctx context.Context) error
	Close() error
}
