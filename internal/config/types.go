package config

// StorageBackend selects the document storage medium.
type StorageBackend string

const (
	BackendLocal StorageBackend = "local"
	BackendS3    StorageBackend = "s3"
)

// EmbeddingProvider identifies the embedding model provider.
type EmbeddingProvider string

const (
	ProviderOpenAI EmbeddingProvider = "openai"
	ProviderOllama EmbeddingProvider = "ollama"
)

// Config is the top-level docassist configuration, corresponding to
// .docassist.yml. Every key can be overridden with a DOCASSIST_* environment
// variable.
type Config struct {
	StorageBackend StorageBackend `yaml:"storage_backend" koanf:"storage_backend"`
	StorageDir     string         `yaml:"storage_dir" koanf:"storage_dir"`
	VectorDir      string         `yaml:"vector_dir" koanf:"vector_dir"`
	Collection     string         `yaml:"collection" koanf:"collection"`
	CatalogPath    string         `yaml:"catalog_path" koanf:"catalog_path"`

	Port int `yaml:"port" koanf:"port"`

	EmbeddingProvider EmbeddingProvider `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string            `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDims     int               `yaml:"embedding_dims" koanf:"embedding_dims"`
	OllamaBaseURL     string            `yaml:"ollama_base_url" koanf:"ollama_base_url"`

	S3 S3Config `yaml:"s3" koanf:"s3"`

	Include      []string `yaml:"include" koanf:"include"`
	Exclude      []string `yaml:"exclude" koanf:"exclude"`
	ChunkSize    int      `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap" koanf:"chunk_overlap"`
}

// S3Config holds connection settings for the S3-compatible storage backend.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" koanf:"endpoint"`
	AccessKey string `yaml:"access_key" koanf:"access_key"`
	SecretKey string `yaml:"secret_key" koanf:"secret_key"`
	Bucket    string `yaml:"bucket" koanf:"bucket"`
	Secure    bool   `yaml:"secure" koanf:"secure"`
}
