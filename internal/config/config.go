package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCASSIST_*). A .env file in the working
// directory is loaded first, if present.
func Load(path string) (*Config, error) {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCASSIST_STORAGE_DIR -> storage_dir,
	// DOCASSIST_S3__BUCKET -> s3.bucket.
	if err := k.Load(env.Provider("DOCASSIST_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DOCASSIST_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[StorageBackend]bool{
	BackendLocal: true,
	BackendS3:    true,
}

var validProviders = map[EmbeddingProvider]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if !validBackends[c.StorageBackend] {
		return fmt.Errorf("invalid storage_backend %q: must be local or s3", c.StorageBackend)
	}
	if c.StorageBackend == BackendLocal && c.StorageDir == "" {
		return fmt.Errorf("storage_dir is required for local storage")
	}
	if c.StorageBackend == BackendS3 {
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint is required for s3 storage")
		}
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for s3 storage")
		}
	}

	if c.VectorDir == "" {
		return fmt.Errorf("vector_dir is required")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection is required")
	}

	if !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be openai or ollama", c.EmbeddingProvider)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be non-negative and smaller than chunk_size")
	}

	return nil
}
