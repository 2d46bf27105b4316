package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageBackend != BackendLocal {
		t.Errorf("StorageBackend = %q, want local", cfg.StorageBackend)
	}
	if cfg.StorageDir != "./data/documents" {
		t.Errorf("StorageDir = %q, want ./data/documents", cfg.StorageDir)
	}
	if cfg.VectorDir != "./chroma_data" {
		t.Errorf("VectorDir = %q, want ./chroma_data", cfg.VectorDir)
	}
	if cfg.Collection != "documentation_embeddings" {
		t.Errorf("Collection = %q, want documentation_embeddings", cfg.Collection)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docassist.yml")
	content := []byte("storage_dir: /srv/docs\ncollection: company_docs\nport: 9000\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDir != "/srv/docs" {
		t.Errorf("StorageDir = %q, want /srv/docs", cfg.StorageDir)
	}
	if cfg.Collection != "company_docs" {
		t.Errorf("Collection = %q, want company_docs", cfg.Collection)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	// Untouched keys keep their defaults.
	if cfg.VectorDir != "./chroma_data" {
		t.Errorf("VectorDir = %q, want default", cfg.VectorDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCASSIST_STORAGE_DIR", "/tmp/env-docs")
	t.Setenv("DOCASSIST_S3__BUCKET", "env-bucket")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageDir != "/tmp/env-docs" {
		t.Errorf("StorageDir = %q, want /tmp/env-docs", cfg.StorageDir)
	}
	if cfg.S3.Bucket != "env-bucket" {
		t.Errorf("S3.Bucket = %q, want env-bucket", cfg.S3.Bucket)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".docassist.yml")

	cfg := DefaultConfig()
	cfg.Collection = "roundtrip"
	cfg.Port = 8123
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Collection != "roundtrip" {
		t.Errorf("Collection = %q, want roundtrip", reloaded.Collection)
	}
	if reloaded.Port != 8123 {
		t.Errorf("Port = %d, want 8123", reloaded.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad backend", func(c *Config) { c.StorageBackend = "ftp" }, true},
		{"missing storage dir", func(c *Config) { c.StorageDir = "" }, true},
		{"s3 without endpoint", func(c *Config) { c.StorageBackend = BackendS3; c.S3.Bucket = "b" }, true},
		{"s3 complete", func(c *Config) {
			c.StorageBackend = BackendS3
			c.S3.Endpoint = "localhost:9000"
			c.S3.Bucket = "docs"
		}, false},
		{"missing collection", func(c *Config) { c.Collection = "" }, true},
		{"bad provider", func(c *Config) { c.EmbeddingProvider = "hf" }, true},
		{"missing model", func(c *Config) { c.EmbeddingModel = "" }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"overlap too large", func(c *Config) { c.ChunkOverlap = c.ChunkSize }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDimsFor(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.DimsFor(); got != 1536 {
		t.Errorf("DimsFor(text-embedding-3-small) = %d, want 1536", got)
	}

	cfg.EmbeddingModel = "custom-model"
	cfg.EmbeddingDims = 512
	if got := cfg.DimsFor(); got != 512 {
		t.Errorf("DimsFor(custom) = %d, want 512", got)
	}

	// An explicit setting wins even for a known model name.
	cfg.EmbeddingModel = "text-embedding-3-small"
	cfg.EmbeddingDims = 256
	if got := cfg.DimsFor(); got != 256 {
		t.Errorf("DimsFor(known model with explicit dims) = %d, want 256", got)
	}
}
