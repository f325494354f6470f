package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/learniz/backend/internal/generation"
	"github.com/learniz/backend/internal/platform/logger"
)

type backendFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

func (f backendFunc) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

func newGateway(b generation.Backend, timeout time.Duration) *generation.Gateway {
	return generation.NewGateway(b, generation.Options{Timeout: timeout, Workers: 2}, logger.NewNop())
}

func TestGateway_Ok(t *testing.T) {
	var gotPrompt string
	var gotTokens int
	g := newGateway(backendFunc(func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		gotPrompt, gotTokens = prompt, maxTokens
		return "generated", nil
	}), time.Second)
	defer g.Close()

	res := g.Generate(context.Background(), "hello", 150)

	if !res.OK() {
		t.Fatalf("expected OK result, got %v", res.Err)
	}
	if res.Text != "generated" {
		t.Errorf("expected %q, got %q", "generated", res.Text)
	}
	if gotPrompt != "hello" || gotTokens != 150 {
		t.Errorf("backend received prompt=%q tokens=%d", gotPrompt, gotTokens)
	}
}

func TestGateway_BackendErrorBecomesResult(t *testing.T) {
	boom := errors.New("connection refused")
	g := newGateway(backendFunc(func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "", boom
	}), time.Second)
	defer g.Close()

	res := g.Generate(context.Background(), "hello", 10)

	if res.OK() {
		t.Fatal("expected failed result")
	}
	if !errors.Is(res.Err, boom) {
		t.Errorf("expected wrapped backend error, got %v", res.Err)
	}
	if !strings.HasPrefix(res.String(), "Error calling generation backend:") {
		t.Errorf("unexpected diagnostic text: %q", res.String())
	}
}

func TestGateway_KeepsGenerationErrorReason(t *testing.T) {
	g := newGateway(backendFunc(func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		return "", &generation.GenerationError{Reason: "backend returned no choices"}
	}), time.Second)
	defer g.Close()

	res := g.Generate(context.Background(), "hello", 10)

	if res.OK() || res.Err.Reason != "backend returned no choices" {
		t.Errorf("expected original reason to be kept, got %+v", res.Err)
	}
}

func TestGateway_Timeout(t *testing.T) {
	g := newGateway(backendFunc(func(ctx context.Context, prompt string, maxTokens int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond)
	defer g.Close()

	start := time.Now()
	res := g.Generate(context.Background(), "hello", 10)

	if res.OK() {
		t.Fatal("expected timeout to produce a failed result")
	}
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", res.Err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected call to be bounded by the timeout, took %v", elapsed)
	}
}

func TestResult_String(t *testing.T) {
	if s := generation.Ok("text").String(); s != "text" {
		t.Errorf("expected %q, got %q", "text", s)
	}

	res := generation.Failure(errors.New("x"))
	if res.OK() {
		t.Error("expected Failure to produce a failed result")
	}
	if res.Err.Reason != "request failed" {
		t.Errorf("unexpected reason: %q", res.Err.Reason)
	}
}
