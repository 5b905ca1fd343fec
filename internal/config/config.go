// Package config loads engine settings from a TOML file with
// environment overrides. Environment variables win over the file so
// deployments can keep secrets out of it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Environment override variables.
const (
	EnvAPIURL    = "ZERODB_API_URL"
	EnvProjectID = "ZERODB_PROJECT_ID"
	EnvAPIKey    = "ZERODB_API_KEY"
	EnvModel     = "OCEAN_EMBEDDING_MODEL"
	EnvNamespace = "OCEAN_VECTOR_NAMESPACE"
	EnvThreshold = "OCEAN_SIMILARITY_THRESHOLD"
	EnvStorage   = "OCEAN_STORAGE_DRIVER"
)

// Storage driver names.
const (
	DriverZeroDB = "zerodb"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// ZeroDB holds the remote store connection settings.
type ZeroDB struct {
	APIURL    string `toml:"api_url"`
	ProjectID string `toml:"project_id"`
	APIKey    string `toml:"api_key"`
}

// Embeddings holds the embedding provider settings.
type Embeddings struct {
	Model      string  `toml:"model"`
	Namespace  string  `toml:"namespace"`
	Threshold  float64 `toml:"threshold"`
	Dimensions int     `toml:"dimensions"`
}

// Settings is the full engine configuration.
type Settings struct {
	// Storage selects the row store driver: zerodb, sqlite or memory.
	Storage string `toml:"storage"`

	// DataDir is the local data directory for the sqlite driver.
	DataDir string `toml:"data_dir"`

	ZeroDB     ZeroDB     `toml:"zerodb"`
	Embeddings Embeddings `toml:"embeddings"`
}

// DefaultPath returns the default config file location,
// ~/.ocean/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".ocean", "config.toml"), nil
}

// Load reads settings from the TOML file at path, applies environment
// overrides and fills defaults. A missing file is not an error; the
// environment alone can carry a full configuration.
func Load(path string) (*Settings, error) {
	s := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Environment only.
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, s); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	s.applyEnv()
	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		s.ZeroDB.APIURL = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		s.ZeroDB.ProjectID = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		s.ZeroDB.APIKey = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		s.Embeddings.Model = v
	}
	if v := os.Getenv(EnvNamespace); v != "" {
		s.Embeddings.Namespace = v
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Embeddings.Threshold = f
		}
	}
	if v := os.Getenv(EnvStorage); v != "" {
		s.Storage = v
	}
}

func (s *Settings) applyDefaults() {
	if s.Storage == "" {
		s.Storage = DriverZeroDB
	}
	if s.Embeddings.Model == "" {
		s.Embeddings.Model = "BAAI/bge-base-en-v1.5"
	}
	if s.Embeddings.Namespace == "" {
		s.Embeddings.Namespace = "ocean_blocks"
	}
	if s.Embeddings.Threshold == 0 {
		s.Embeddings.Threshold = 0.7
	}
	if s.Embeddings.Dimensions == 0 {
		s.Embeddings.Dimensions = 768
	}
}

// Validate checks the settings for the selected driver.
func (s *Settings) Validate() error {
	switch s.Storage {
	case DriverZeroDB:
		if s.ZeroDB.ProjectID == "" {
			return fmt.Errorf("zerodb project id is required (set %s)", EnvProjectID)
		}
		if s.ZeroDB.APIKey == "" {
			return fmt.Errorf("zerodb api key is required (set %s)", EnvAPIKey)
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", s.Storage)
	}
	return nil
}
