// Package config loads process configuration once at startup: the
// environment variables named in the external-interface contract, plus
// an optional TOML profile-overlay file. It generalises the teacher's
// TOML-backed ConfigStore (internal/adapters/driven/config/file) from a
// mutable key/value store into a one-shot startup reader, since this
// service's configuration is fixed for the lifetime of the process.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// Config holds every environment-derived and file-derived setting
// named in the external-interface contract.
type Config struct {
	Port                int
	ChunkSize           int
	ChunkOverlap        int
	MinCharsPerSentence int
	EmbeddingServiceURL string
	MaxConcurrentJobs   int
	ActiveProfile       string
	LogLevel            string

	// ProfileOverlay is parsed from the TOML profile file, if one was
	// found via CHUNKLINE_PROFILES_FILE.
	ProfileOverlay []domain.Profile
}

// Defaults mirror spec §6.
const (
	DefaultPort                = 3017
	DefaultChunkSize           = 512
	DefaultChunkOverlap        = 50
	DefaultMinCharsPerSentence = 12
	DefaultMaxConcurrentJobs   = 4
	DefaultActiveProfile       = domain.ProfileDefault
	DefaultLogLevel            = "info"
)

// Load reads configuration from the process environment and, if
// CHUNKLINE_PROFILES_FILE is set, from a TOML overlay file.
func Load() (Config, error) {
	cfg := Config{
		Port:                envInt("PORT", DefaultPort),
		ChunkSize:           envInt("CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:        envInt("CHUNK_OVERLAP", DefaultChunkOverlap),
		MinCharsPerSentence: envInt("MIN_CHARS_PER_SENTENCE", DefaultMinCharsPerSentence),
		EmbeddingServiceURL: os.Getenv("EMBEDDING_SERVICE_URL"),
		MaxConcurrentJobs:   envInt("MAX_CONCURRENT_JOBS", DefaultMaxConcurrentJobs),
		ActiveProfile:       envString("ACTIVE_PROFILE", DefaultActiveProfile),
		LogLevel:            envString("RUST_LOG", DefaultLogLevel),
	}

	if path := os.Getenv("CHUNKLINE_PROFILES_FILE"); path != "" {
		overlay, err := loadProfileOverlay(path)
		if err != nil {
			return Config{}, fmt.Errorf("load profile overlay: %w", err)
		}
		cfg.ProfileOverlay = overlay
	}

	return cfg, nil
}

// ChunkConfig returns the ChunkConfig implied by the top-level env vars,
// independent of the profile store. The profile store does not use it:
// profile "default" is the built-in one unless the overlay redefines it.
func (c Config) ChunkConfig() domain.ChunkConfig {
	return domain.ChunkConfig{
		ChunkSize:           c.ChunkSize,
		ChunkOverlap:        c.ChunkOverlap,
		MinCharsPerSentence: c.MinCharsPerSentence,
	}
}

type tomlProfile struct {
	Name                string `toml:"name"`
	Description         string `toml:"description"`
	ChunkSize           int    `toml:"chunk_size"`
	ChunkOverlap        int    `toml:"chunk_overlap"`
	MinCharsPerSentence int    `toml:"min_chars_per_sentence"`
}

type tomlProfileFile struct {
	Profiles []tomlProfile `toml:"profiles"`
}

func loadProfileOverlay(path string) ([]domain.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var parsed tomlProfileFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	out := make([]domain.Profile, 0, len(parsed.Profiles))
	for _, p := range parsed.Profiles {
		cfg := domain.ChunkConfig{
			ChunkSize:           p.ChunkSize,
			ChunkOverlap:        p.ChunkOverlap,
			MinCharsPerSentence: p.MinCharsPerSentence,
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
		out = append(out, domain.Profile{Name: p.Name, Description: p.Description, Config: cfg})
	}
	return out, nil
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envString(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
