// Package file loads and persists application settings as TOML.
// Settings live in a single user-editable file, by default
// ~/.veridoc/config.toml; absent keys keep their defaults.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/veridoc-labs/veridoc-cli/internal/core/domain"
)

const settingsFile = "config.toml"

// SettingsStore reads and writes AppSettings at a fixed path.
type SettingsStore struct {
	configDir string
}

// NewSettingsStore creates a settings store rooted at configDir.
// If configDir is empty, defaults to ~/.veridoc.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".veridoc")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{configDir: configDir}, nil
}

// Path returns the settings file path.
func (s *SettingsStore) Path() string {
	return filepath.Join(s.configDir, settingsFile)
}

// fileSettings is the TOML shape of the settings file. Pointer fields
// distinguish "absent" from zero so defaults survive partial files.
type fileSettings struct {
	DataDir *string `toml:"data_dir,omitempty"`

	Embedding struct {
		Provider   *string `toml:"provider,omitempty"`
		Model      *string `toml:"model,omitempty"`
		BaseURL    *string `toml:"base_url,omitempty"`
		APIKey     *string `toml:"api_key,omitempty"`
		Dimensions *int    `toml:"dimensions,omitempty"`
	} `toml:"embedding"`

	VectorIndex struct {
		Backend    *string `toml:"backend,omitempty"`
		QdrantURL  *string `toml:"qdrant_url,omitempty"`
		QdrantKey  *string `toml:"qdrant_api_key,omitempty"`
		Collection *string `toml:"collection,omitempty"`
	} `toml:"vector_index"`

	Segment struct {
		TargetTokens *int     `toml:"target_tokens,omitempty"`
		OverlapRatio *float64 `toml:"overlap_ratio,omitempty"`
	} `toml:"segment"`

	Retrieval struct {
		TopK *int `toml:"top_k,omitempty"`
	} `toml:"retrieval"`
}

// Load reads settings from disk, layered over the defaults. A missing
// file yields pure defaults with the data directory under configDir.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.DataDir = filepath.Join(s.configDir, "data")

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(raw, &fs); err != nil {
		return settings, fmt.Errorf("parsing %s: %w", s.Path(), err)
	}

	apply(&settings, fs)
	if err := validateSettings(settings); err != nil {
		return settings, err
	}
	return settings, nil
}

// Save writes the settings to disk, replacing the whole file.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	fs := toFileSettings(settings)
	raw, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	// Restricted permissions: the file may hold API keys.
	if err := os.WriteFile(s.Path(), raw, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// apply overlays the present file values onto settings.
func apply(settings *domain.AppSettings, fs fileSettings) {
	if fs.DataDir != nil {
		settings.DataDir = *fs.DataDir
	}

	if fs.Embedding.Provider != nil {
		settings.Embedding.Provider = domain.EmbeddingProvider(*fs.Embedding.Provider)
	}
	if fs.Embedding.Model != nil {
		settings.Embedding.Model = *fs.Embedding.Model
	}
	if fs.Embedding.BaseURL != nil {
		settings.Embedding.BaseURL = *fs.Embedding.BaseURL
	}
	if fs.Embedding.APIKey != nil {
		settings.Embedding.APIKey = *fs.Embedding.APIKey
	}
	if fs.Embedding.Dimensions != nil {
		settings.Embedding.Dimensions = *fs.Embedding.Dimensions
	}

	if fs.VectorIndex.Backend != nil {
		settings.VectorIndex.Backend = domain.VectorBackend(*fs.VectorIndex.Backend)
	}
	if fs.VectorIndex.QdrantURL != nil {
		settings.VectorIndex.QdrantURL = *fs.VectorIndex.QdrantURL
	}
	if fs.VectorIndex.QdrantKey != nil {
		settings.VectorIndex.QdrantAPIKey = *fs.VectorIndex.QdrantKey
	}
	if fs.VectorIndex.Collection != nil {
		settings.VectorIndex.Collection = *fs.VectorIndex.Collection
	}

	if fs.Segment.TargetTokens != nil {
		settings.Segment.TargetTokens = *fs.Segment.TargetTokens
	}
	if fs.Segment.OverlapRatio != nil {
		settings.Segment.OverlapRatio = *fs.Segment.OverlapRatio
	}

	if fs.Retrieval.TopK != nil {
		settings.Retrieval.TopK = *fs.Retrieval.TopK
	}
}

// toFileSettings converts settings into the file shape, writing every
// field so the saved file is self-describing.
func toFileSettings(settings domain.AppSettings) fileSettings {
	var fs fileSettings

	fs.DataDir = &settings.DataDir

	provider := settings.Embedding.Provider.String()
	fs.Embedding.Provider = &provider
	fs.Embedding.Model = &settings.Embedding.Model
	fs.Embedding.BaseURL = &settings.Embedding.BaseURL
	fs.Embedding.APIKey = &settings.Embedding.APIKey
	fs.Embedding.Dimensions = &settings.Embedding.Dimensions

	backend := settings.VectorIndex.Backend.String()
	fs.VectorIndex.Backend = &backend
	fs.VectorIndex.QdrantURL = &settings.VectorIndex.QdrantURL
	fs.VectorIndex.QdrantKey = &settings.VectorIndex.QdrantAPIKey
	fs.VectorIndex.Collection = &settings.VectorIndex.Collection

	fs.Segment.TargetTokens = &settings.Segment.TargetTokens
	fs.Segment.OverlapRatio = &settings.Segment.OverlapRatio

	fs.Retrieval.TopK = &settings.Retrieval.TopK

	return fs
}

// validateSettings rejects values the services would refuse later,
// so configuration mistakes surface at startup with the file named.
func validateSettings(settings domain.AppSettings) error {
	if !settings.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrInvalidConfig, settings.Embedding.Provider)
	}
	if !settings.VectorIndex.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector index backend %q",
			domain.ErrInvalidConfig, settings.VectorIndex.Backend)
	}
	if settings.Segment.TargetTokens <= 0 {
		return fmt.Errorf("%w: segment target_tokens must be positive",
			domain.ErrInvalidConfig)
	}
	if settings.Segment.OverlapRatio < 0 || settings.Segment.OverlapRatio >= 1 {
		return fmt.Errorf("%w: segment overlap_ratio must be in [0, 1)",
			domain.ErrInvalidConfig)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive",
			domain.ErrInvalidConfig)
	}
	return nil
}
