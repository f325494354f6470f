package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/platform/logger"
	"github.com/learniz/backend/internal/store"
)

// DefaultAnswerWindow is how long a client is given to answer a new quiz.
const DefaultAnswerWindow = 15 * time.Second

// Synthesizer produces the answer and quiz for a question. *tutor.Tutor
// implements it.
type Synthesizer interface {
	Answer(ctx context.Context, query, subject string) string
	Quiz(ctx context.Context, query, subject string) quiz.MCQ
}

// AskRequest is one question from one user.
type AskRequest struct {
	UserID  string
	Subject string
	Query   string
}

// TutoringService turns a question into an answered, persisted quiz session.
type TutoringService struct {
	store        store.Store
	synth        Synthesizer
	answerWindow time.Duration
	logger       *logger.Logger
	now          func() time.Time
}

// NewTutoringService creates a TutoringService. A non-positive answerWindow
// uses DefaultAnswerWindow.
func NewTutoringService(s store.Store, synth Synthesizer, answerWindow time.Duration, log *logger.Logger) *TutoringService {
	if answerWindow <= 0 {
		answerWindow = DefaultAnswerWindow
	}
	return &TutoringService{
		store:        s,
		synth:        synth,
		answerWindow: answerWindow,
		logger:       log.With("component", "tutoring"),
		now:          time.Now,
	}
}

// Ask generates the answer and quiz concurrently and stores the new session.
// Generation never fails from the caller's point of view; only storage
// errors are returned.
func (ts *TutoringService) Ask(ctx context.Context, req AskRequest) (*quiz.Session, error) {
	var (
		answer string
		mcq    quiz.MCQ
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		answer = ts.synth.Answer(gctx, req.Query, req.Subject)
		return nil
	})
	g.Go(func() error {
		mcq = ts.synth.Quiz(gctx, req.Query, req.Subject)
		return nil
	})
	_ = g.Wait() // both synthesizers are total

	if !mcq.Valid() {
		ts.logger.Warn("synthesizer returned invalid quiz, using fallback", "subject", req.Subject)
		mcq = quiz.Fallback(req.Query)
	}

	session := quiz.NewSession(req.UserID, req.Subject, req.Query, answer, mcq, ts.now(), ts.answerWindow)
	if err := ts.store.CreateSession(ctx, session); err != nil {
		ts.logger.Error("failed to store quiz session",
			"user_id", req.UserID,
			"subject", req.Subject,
			"error", err,
		)
		return nil, err
	}

	ts.logger.Info("quiz created",
		"quiz_id", session.ID,
		"user_id", req.UserID,
		"subject", req.Subject,
	)
	return session, nil
}
