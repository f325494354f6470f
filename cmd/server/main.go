package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/learniz/backend/internal/api"
	"github.com/learniz/backend/internal/generation"
	"github.com/learniz/backend/internal/infrastructure/config"
	"github.com/learniz/backend/internal/platform/logger"
	"github.com/learniz/backend/internal/service"
	"github.com/learniz/backend/internal/store"
	"github.com/learniz/backend/internal/tutor"

	_ "github.com/learniz/backend/docs" // generated swagger docs
)

// @title           Learniz API
// @version         1.0
// @description     Ask a question, get an answer and a quiz, and track how well you do per subject.

// @host      localhost:8000
// @BasePath  /

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	// ── Dependencies ────────────────────────────────────────────────
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	gateway := generation.NewGateway(newBackend(cfg), generation.Options{
		Timeout: cfg.GenerationTimeout,
		Workers: cfg.GenerationWorkers,
	}, log)
	defer gateway.Close()

	tutoringSvc := service.NewTutoringService(db, tutor.New(gateway, log), cfg.AnswerWindow, log)
	gradingSvc := service.NewGradingService(db, log)
	handler := api.NewHandler(db, tutoringSvc, gradingSvc, log, api.Options{
		RevealAnswerOnAsk: cfg.RevealAnswerOnAsk,
	})

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: RequestID → Logging → Recover → CORS → Auth → mux
	chain := api.RequestID(
		api.Logging(log)(
			api.Recover(log)(
				api.CORS(cfg.CORSOrigins)(
					api.Auth(cfg.JWTSecret)(mux)))))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// An ask waits on generation, so leave headroom over its timeout.
		WriteTimeout: cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"address", cfg.ServerAddress,
			"store", cfg.StoreDriver,
			"generation_backend", cfg.GenerationBackend,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-sigChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Info("shutting down server")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		s   *store.SQLStore
		err error
	)
	switch cfg.StoreDriver {
	case "postgres":
		s, err = store.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		s, err = store.NewSQLite(ctx, cfg.SQLitePath)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newBackend(cfg *config.Config) generation.Backend {
	switch cfg.GenerationBackend {
	case "openai":
		return generation.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return generation.NewHuggingFace(cfg.HFBaseURL, cfg.HFModel, cfg.HFAPIKey)
	}
}
