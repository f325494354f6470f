package quiz

import (
	"errors"
	"time"

	"github.com/learniz/backend/internal/id"
)

// ErrAlreadyAnswered is returned when a quiz that already has a choice is graded again.
var ErrAlreadyAnswered = errors.New("quiz already answered")

// Session is one generated quiz for one user's question. It is graded at most once.
type Session struct {
	ID         string
	UserID     string
	Subject    string
	Query      string
	Answer     string
	MCQ        MCQ
	UserChoice *string // nil until answered
	IsCorrect  *bool   // nil until answered
	CreatedAt  time.Time
	AnsweredAt *time.Time
	ExpiresAt  time.Time // informational, never enforced
}

// NewSession creates an unanswered session with a fresh identifier.
func NewSession(userID, subject, query, answer string, mcq MCQ, now time.Time, answerWindow time.Duration) *Session {
	now = now.UTC()
	return &Session{
		ID:        id.GenerateID(),
		UserID:    userID,
		Subject:   subject,
		Query:     query,
		Answer:    answer,
		MCQ:       mcq,
		CreatedAt: now,
		ExpiresAt: now.Add(answerWindow),
	}
}

// Answered reports whether a choice has been recorded.
func (s *Session) Answered() bool {
	return s.UserChoice != nil
}

// Grade records choice on the session and reports whether it matches the
// correct option exactly. A second call returns ErrAlreadyAnswered and
// leaves the session untouched.
func (s *Session) Grade(choice string, at time.Time) (bool, error) {
	if s.Answered() {
		return false, ErrAlreadyAnswered
	}

	correct := choice == s.MCQ.Correct
	at = at.UTC()

	s.UserChoice = &choice
	s.IsCorrect = &correct
	s.AnsweredAt = &at

	return correct, nil
}
