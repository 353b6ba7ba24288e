package driving

import "github.com/basilwick/chunkline/internal/core/domain"

// ProfileStore exposes named chunk-size/overlap presets and tracks which
// one is process-wide "active".
type ProfileStore interface {
	// List returns every known profile (built-ins plus any loaded from a
	// config file overlay).
	List() []domain.Profile

	// Active returns the currently active profile.
	Active() domain.Profile

	// SetActive changes the active profile by name. Only affects jobs
	// submitted after the call; in-flight jobs keep the config they
	// started with. Returns domain.ErrUnknownProfile for an unknown name.
	SetActive(name string) (domain.Profile, error)
}
