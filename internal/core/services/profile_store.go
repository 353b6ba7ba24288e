package services

import (
	"fmt"
	"sync"

	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driving"
)

// Ensure ProfileStore implements the interface.
var _ driving.ProfileStore = (*ProfileStore)(nil)

// ProfileStore holds the built-in chunking profiles plus any file-defined
// overlay, and tracks which one is currently active. Reads are not
// lock-free: they take the read lock and return copies; writes replace
// the active profile under the write lock.
// Changing the active profile affects only jobs submitted afterwards --
// in-flight jobs keep the config they started with.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	order    []string
	active   domain.Profile
}

// NewProfileStore seeds the store with the built-in profiles plus any
// overlay profiles (by name, overlay wins on collision), and activates
// activeName (domain.ProfileDefault if activeName is empty). An unknown
// activeName fails with domain.ErrUnknownProfile.
func NewProfileStore(overlay []domain.Profile, activeName string) (*ProfileStore, error) {
	s := &ProfileStore{
		profiles: make(map[string]domain.Profile),
	}

	for _, p := range domain.BuiltinProfiles() {
		s.profiles[p.Name] = p
		s.order = append(s.order, p.Name)
	}
	for _, p := range overlay {
		if _, exists := s.profiles[p.Name]; !exists {
			s.order = append(s.order, p.Name)
		}
		s.profiles[p.Name] = p
	}

	if activeName == "" {
		activeName = domain.ProfileDefault
	}
	active, ok := s.profiles[activeName]
	if !ok {
		return nil, fmt.Errorf("%w: profile %q", domain.ErrUnknownProfile, activeName)
	}
	s.active = active
	return s, nil
}

// List returns every known profile in registration order.
func (s *ProfileStore) List() []domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Profile, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.profiles[name])
	}
	return out
}

// Active returns the currently active profile.
func (s *ProfileStore) Active() domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive swaps the active profile by name.
func (s *ProfileStore) SetActive(name string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[name]
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: profile %q", domain.ErrUnknownProfile, name)
	}
	s.active = p
	return p, nil
}
