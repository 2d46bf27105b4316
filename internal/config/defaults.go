package config

// embeddingDims maps known embedding models to their vector sizes, used when
// embedding_dims is not set explicitly.
var embeddingDims = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"nomic-embed-text":       768,
}

// DefaultExcludes are glob patterns skipped during directory ingestion.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"*.lock",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		StorageBackend:    BackendLocal,
		StorageDir:        "./data/documents",
		VectorDir:         "./chroma_data",
		Collection:        "documentation_embeddings",
		CatalogPath:       "./data/catalog.db",
		Port:              8000,
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		OllamaBaseURL:     "",
		Include:           []string{"**"},
		Exclude:           DefaultExcludes,
		ChunkSize:         1200,
		ChunkOverlap:      200,
	}
}

// DimsFor returns the embedding dimensions for the configured model. An
// explicit embedding_dims setting always wins; otherwise known models are
// looked up by name.
func (c *Config) DimsFor() int {
	if c.EmbeddingDims > 0 {
		return c.EmbeddingDims
	}
	if d, ok := embeddingDims[c.EmbeddingModel]; ok {
		return d
	}
	return 768
}
