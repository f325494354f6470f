package id

import "github.com/google/uuid"

// GenerateID returns a random UUIDv4 string, used as a quiz identifier.
func GenerateID() string {
	return uuid.NewString()
}
