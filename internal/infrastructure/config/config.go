package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	LogMode         string // "dev" or "prod"

	// Storage
	StoreDriver string // "sqlite" or "postgres"
	SQLitePath  string
	DatabaseURL string

	// Text generation
	GenerationBackend string // "huggingface" or "openai"
	HFBaseURL         string // e.g. "https://api-inference.huggingface.co"
	HFModel           string
	HFAPIKey          string
	OpenAIBaseURL     string // OpenAI-compatible endpoint, e.g. "http://localhost:1234/v1"
	OpenAIModel       string
	OpenAIAPIKey      string
	GenerationTimeout time.Duration
	GenerationWorkers int

	// Quiz behaviour
	AnswerWindow      time.Duration // informational deadline stored on each quiz
	RevealAnswerOnAsk bool

	// HTTP
	CORSOrigins []string
	JWTSecret   string // empty disables bearer verification
}

// Load reads configuration from the environment, after loading a .env file
// if one exists. All problems are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		ServerAddress:     l.required("SERVER_ADDRESS"),
		ShutdownTimeout:   l.requiredDuration("SHUTDOWN_TIMEOUT"),
		LogMode:           getenvDefault("LOG_MODE", "dev"),
		StoreDriver:       strings.ToLower(getenvDefault("STORE_DRIVER", "sqlite")),
		SQLitePath:        getenvDefault("SQLITE_PATH", "learniz.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GenerationBackend: strings.ToLower(getenvDefault("GENERATION_BACKEND", "huggingface")),
		HFBaseURL:         getenvDefault("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFModel:           getenvDefault("HF_MODEL", "gpt2"),
		HFAPIKey:          os.Getenv("HF_API_KEY"),
		OpenAIBaseURL:     getenvDefault("OPENAI_BASE_URL", "http://localhost:1234/v1"),
		OpenAIModel:       getenvDefault("OPENAI_MODEL", "qwen3-8b"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		GenerationTimeout: l.duration("GENERATION_TIMEOUT", 60*time.Second),
		GenerationWorkers: l.int("GENERATION_WORKERS", 4),
		AnswerWindow:      l.duration("QUIZ_ANSWER_WINDOW", 15*time.Second),
		RevealAnswerOnAsk: l.bool("REVEAL_ANSWER_ON_ASK", true),
		CORSOrigins:       splitList(getenvDefault("CORS_ORIGINS", "*")),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}

	switch cfg.StoreDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			l.fail("config: DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		l.fail(fmt.Sprintf("config: unknown STORE_DRIVER %q", cfg.StoreDriver))
	}

	switch cfg.GenerationBackend {
	case "huggingface", "openai":
	default:
		l.fail(fmt.Sprintf("config: unknown GENERATION_BACKEND %q", cfg.GenerationBackend))
	}

	if cfg.GenerationWorkers < 1 {
		l.fail("config: GENERATION_WORKERS must be at least 1")
	}

	if err := errors.Join(l.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type loader struct {
	errs []error
}

func (l *loader) fail(msg string) {
	l.errs = append(l.errs, errors.New(msg))
}

func (l *loader) required(k string) string {
	v := os.Getenv(k)
	if v == "" {
		l.fail(fmt.Sprintf("config: required environment variable %s is not set", k))
	}
	return v
}

func (l *loader) requiredDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		l.fail(fmt.Sprintf("config: required environment variable %s is not set", k))
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(fmt.Sprintf("config: %s=%q is not a valid duration: %v", k, v, err))
	}
	return d
}

func (l *loader) duration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(fmt.Sprintf("config: %s=%q is not a valid duration: %v", k, v, err))
		return fallback
	}
	return d
}

func (l *loader) int(k string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		l.fail(fmt.Sprintf("config: %s=%q is not a valid integer", k, v))
		return fallback
	}
	return i
}

func (l *loader) bool(k string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail(fmt.Sprintf("config: %s=%q is not a valid boolean", k, v))
		return fallback
	}
	return b
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
