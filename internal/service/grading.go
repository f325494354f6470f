// internal/service/grading.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/platform/logger"
	"github.com/learniz/backend/internal/store"
)

// GradeResult is the outcome of a successful submission.
type GradeResult struct {
	QuizID    string
	IsCorrect bool
}

// GradingService grades quiz answers at most once per session and keeps the
// per-subject statistics in step with the recorded answers.
type GradingService struct {
	store  store.Store
	logger *logger.Logger
	now    func() time.Time
}

// NewGradingService creates a GradingService.
func NewGradingService(s store.Store, log *logger.Logger) *GradingService {
	return &GradingService{
		store:  s,
		logger: log.With("component", "grading"),
		now:    time.Now,
	}
}

// SubmitAnswer grades choice against the session identified by quizID and
// userID. It returns store.ErrNotFound for an unknown session and
// quiz.ErrAlreadyAnswered when a choice was already recorded, including when
// a concurrent submission won the race. The subject statistic is only
// incremented after the answer has been written.
func (gs *GradingService) SubmitAnswer(ctx context.Context, quizID, userID, choice string) (GradeResult, error) {
	session, err := gs.store.FindSession(ctx, quizID, userID)
	if err != nil {
		return GradeResult{}, err
	}

	answeredAt := gs.now()
	isCorrect, err := session.Grade(choice, answeredAt)
	if err != nil {
		return GradeResult{}, err
	}

	if err := gs.store.RecordAnswer(ctx, quizID, userID, choice, isCorrect, answeredAt); err != nil {
		if errors.Is(err, quiz.ErrAlreadyAnswered) {
			gs.logger.Debug("lost answer race", "quiz_id", quizID)
		}
		return GradeResult{}, err
	}

	if err := gs.store.IncrementSubjectStat(ctx, userID, session.Subject, isCorrect); err != nil {
		gs.logger.Error("failed to update subject stat",
			"quiz_id", quizID,
			"subject", session.Subject,
			"error", err,
		)
		return GradeResult{}, err
	}

	gs.logger.Info("quiz graded",
		"quiz_id", quizID,
		"user_id", userID,
		"subject", session.Subject,
		"is_correct", isCorrect,
	)

	return GradeResult{QuizID: quizID, IsCorrect: isCorrect}, nil
}
