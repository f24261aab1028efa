package flags

//go:generate mockgen -destination=mock/mock_service.go -package=mockflags -source=service.go

import "sync"

// Service is the canonical store for global story flags. Quests encode flag
// prerequisites as "flag:<key>" strings and delegate evaluation here.
type Service interface {
	// GetFlag returns the flag value (false if never set)
	GetFlag(key string) bool

	// SetFlag sets a flag value
	SetFlag(key string, value bool)

	// Snapshot returns a copy of all set flags for persistence
	Snapshot() map[string]bool

	// Restore replaces the store contents with a saved snapshot
	Restore(flags map[string]bool)
}

// service implements Service in memory
type service struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewService creates an empty in-memory flag store
func NewService() Service {
	return &service{
		flags: make(map[string]bool),
	}
}

func (s *service) GetFlag(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.flags[key]
}

func (s *service) SetFlag(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[key] = value
}

func (s *service) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.flags))
	for key, value := range s.flags {
		out[key] = value
	}
	return out
}

func (s *service) Restore(flags map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags = make(map[string]bool, len(flags))
	for key, value := range flags {
		s.flags[key] = value
	}
}
