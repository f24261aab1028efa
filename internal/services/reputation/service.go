package reputation

//go:generate mockgen -destination=mock/mock_service.go -package=mockreputation -source=service.go

import "sync"

// Service is the canonical store for per-faction player reputation. The quest
// engine reads it for prerequisite checks and instructs mutations when choice
// consequences fire; it never caches reputation values across calls.
type Service interface {
	// GetReputation returns the player's standing with a faction (0 if unseen)
	GetReputation(factionID string) int

	// ChangeReputation applies a delta to the player's standing with a faction
	ChangeReputation(factionID string, delta int)

	// Snapshot returns a copy of all non-zero reputations for persistence
	Snapshot() map[string]int

	// Restore replaces the store contents with a saved snapshot
	Restore(reputations map[string]int)
}

// service implements Service in memory
type service struct {
	mu          sync.RWMutex
	reputations map[string]int
}

// NewService creates an empty in-memory reputation store
func NewService() Service {
	return &service{
		reputations: make(map[string]int),
	}
}

func (s *service) GetReputation(factionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reputations[factionID]
}

func (s *service) ChangeReputation(factionID string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reputations[factionID] += delta
}

func (s *service) Snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.reputations))
	for id, rep := range s.reputations {
		out[id] = rep
	}
	return out
}

func (s *service) Restore(reputations map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reputations = make(map[string]int, len(reputations))
	for id, rep := range reputations {
		s.reputations[id] = rep
	}
}
