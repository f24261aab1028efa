// Package uuid generates the ids stamped on persisted quest state snapshots.
// The interface exists so tests can pin ids instead of matching random ones.
package uuid

import (
	"github.com/google/uuid"
)

// Generator mints unique snapshot ids
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator using Google's UUID package
type GoogleUUIDGenerator struct{}

// New returns a random UUIDv4 string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}
