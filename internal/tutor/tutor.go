package tutor

import (
	"context"
	"fmt"

	"github.com/learniz/backend/internal/domain/quiz"
	"github.com/learniz/backend/internal/generation"
	"github.com/learniz/backend/internal/platform/logger"
)

const (
	answerMaxTokens = 200
	quizMaxTokens   = 150
)

// AnswerUnavailable is shown instead of backend diagnostics when no answer could be generated.
const AnswerUnavailable = "Sorry, I couldn't come up with an answer right now. Please try asking again in a moment."

// Generator is the part of generation.Gateway the tutor depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) generation.Result
}

// Tutor produces answers and quizzes for student questions.
type Tutor struct {
	gen    Generator
	logger *logger.Logger
}

func New(gen Generator, log *logger.Logger) *Tutor {
	return &Tutor{
		gen:    gen,
		logger: log.With("component", "tutor"),
	}
}

// Answer returns a concise answer to query, or AnswerUnavailable if generation failed.
func (t *Tutor) Answer(ctx context.Context, query, subject string) string {
	res := t.gen.Generate(ctx, buildAnswerPrompt(query, subject), answerMaxTokens)
	if !res.OK() {
		t.logger.Warn("answer generation failed, using fallback text",
			"subject", subject,
			"error", res.Err,
		)
		return AnswerUnavailable
	}
	return res.Text
}

// Quiz returns a valid MCQ for every input: generator output is parsed and
// normalized when possible, and quiz.Fallback is used otherwise.
func (t *Tutor) Quiz(ctx context.Context, query, subject string) quiz.MCQ {
	res := t.gen.Generate(ctx, buildQuizPrompt(query, subject), quizMaxTokens)
	if !res.OK() {
		t.logger.Warn("quiz generation failed, using fallback quiz",
			"subject", subject,
			"error", res.Err,
		)
		return quiz.Fallback(query)
	}

	mcq, err := quiz.Parse(res.Text)
	if err != nil {
		t.logger.Debug("unusable quiz output, using fallback quiz",
			"subject", subject,
			"error", err,
			"raw", res.Text,
		)
		return quiz.Fallback(query)
	}
	return mcq
}

// ============================================================================
// Prompt builders
// ============================================================================

func buildAnswerPrompt(query, subject string) string {
	return fmt.Sprintf(
		"You are a helpful tutor for %s. Answer the student's question concisely and clearly:\n\n"+
			"Question: %s\n\nAnswer:",
		subject, query)
}

// buildQuizPrompt ends with a worked example and a "JSON:" cue so the
// model continues with a single object.
func buildQuizPrompt(query, subject string) string {
	return fmt.Sprintf(
		"You are a quiz generator for %s. Based on the student question: %q, "+
			"create ONE multiple-choice question (MCQ) that tests the same concept. "+
			"Respond ONLY as JSON with keys: question (string), options (list of 3 strings), correct (one option).\n\n"+
			"Example:\n"+
			`{"question":"What does regex \\d match in Python?",`+
			`"options":["Digits","Letters","Whitespace"],`+
			`"correct":"Digits"}`+"\n\n"+
			"JSON:",
		subject, query)
}
