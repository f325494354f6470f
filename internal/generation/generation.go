package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learniz/backend/internal/platform/logger"
	"github.com/learniz/backend/internal/worker"
)

// Backend turns a prompt into generated text with one outbound call.
// Implementations may call Hugging Face, an OpenAI-compatible server, or
// return canned results (for tests).
type Backend interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GenerationError describes why a generation call produced no text, so the
// caller can tell "backend said something odd" from "backend was unreachable."
type GenerationError struct {
	Reason  string
	Wrapped error
}

func (e *GenerationError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Wrapped
}

// Result is either generated text (Err == nil) or a failure reason.
type Result struct {
	Text string
	Err  *GenerationError
}

// Ok wraps successfully generated text.
func Ok(text string) Result {
	return Result{Text: text}
}

// Failure wraps err as a failed Result.
func Failure(err error) Result {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return Result{Err: genErr}
	}
	return Result{Err: &GenerationError{Reason: "request failed", Wrapped: err}}
}

func (r Result) OK() bool {
	return r.Err == nil
}

// String renders the result as plain text; failures become a diagnostic line.
func (r Result) String() string {
	if r.OK() {
		return r.Text
	}
	return "Error calling generation backend: " + r.Err.Error()
}

// Gateway bounds generation calls in time and in concurrency. It never
// returns a Go error: every failure is folded into Result.
type Gateway struct {
	backend Backend
	timeout time.Duration
	pool    *worker.Pool[Result]
	logger  *logger.Logger
}

// Options configures a Gateway.
type Options struct {
	Timeout time.Duration // per call, including time spent waiting for a worker
	Workers int           // maximum in-flight backend calls
}

const (
	DefaultTimeout = 60 * time.Second
	DefaultWorkers = 4
)

// NewGateway creates a gateway in front of backend.
func NewGateway(backend Backend, opts Options, log *logger.Logger) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Gateway{
		backend: backend,
		timeout: opts.Timeout,
		pool:    worker.NewPool[Result](opts.Workers, opts.Workers),
		logger:  log.With("component", "generation"),
	}
}

// Generate sends prompt to the backend once, with no retry.
func (g *Gateway) Generate(ctx context.Context, prompt string, maxTokens int) Result {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	res, err := g.pool.Do(ctx, func(ctx context.Context) Result {
		text, err := g.backend.Complete(ctx, prompt, maxTokens)
		if err != nil {
			return Failure(err)
		}
		return Ok(text)
	})
	if err != nil {
		reason := "call abandoned"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("timed out after %s", g.timeout)
		}
		res = Result{Err: &GenerationError{Reason: reason, Wrapped: err}}
	}

	if res.OK() {
		g.logger.Debug("generation succeeded",
			"max_tokens", maxTokens,
			"duration_ms", time.Since(start).Milliseconds(),
			"chars", len(res.Text),
		)
	} else {
		g.logger.Warn("generation failed",
			"max_tokens", maxTokens,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", res.Err,
		)
	}
	return res
}

// Close stops the worker pool.
func (g *Gateway) Close() {
	g.pool.Close()
}
