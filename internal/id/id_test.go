package id_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/learniz/backend/internal/id"
)

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v := id.GenerateID()
		if seen[v] {
			t.Fatalf("duplicate id %q after %d generations", v, i)
		}
		seen[v] = true
	}
}

func TestGenerateID_IsUUIDv4(t *testing.T) {
	parsed, err := uuid.Parse(id.GenerateID())
	if err != nil {
		t.Fatalf("expected a UUID, got error: %v", err)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected version 4, got %d", parsed.Version())
	}
}
