package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path, and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docassist! Let's configure your instance.")
	fmt.Println()

	cfg := DefaultConfig()

	backendPrompt := promptui.Select{
		Label: "Select document storage backend",
		Items: []string{string(BackendLocal), string(BackendS3)},
	}
	_, backend, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	cfg.StorageBackend = StorageBackend(backend)

	if cfg.StorageBackend == BackendLocal {
		dirPrompt := promptui.Prompt{
			Label:   "Document storage directory",
			Default: cfg.StorageDir,
		}
		if cfg.StorageDir, err = dirPrompt.Run(); err != nil {
			return nil, fmt.Errorf("storage directory: %w", err)
		}
	} else {
		endpointPrompt := promptui.Prompt{Label: "S3 endpoint (host:port)"}
		if cfg.S3.Endpoint, err = endpointPrompt.Run(); err != nil {
			return nil, fmt.Errorf("s3 endpoint: %w", err)
		}
		bucketPrompt := promptui.Prompt{Label: "S3 bucket", Default: "documents"}
		if cfg.S3.Bucket, err = bucketPrompt.Run(); err != nil {
			return nil, fmt.Errorf("s3 bucket: %w", err)
		}
		accessPrompt := promptui.Prompt{Label: "S3 access key"}
		if cfg.S3.AccessKey, err = accessPrompt.Run(); err != nil {
			return nil, fmt.Errorf("s3 access key: %w", err)
		}
		secretPrompt := promptui.Prompt{Label: "S3 secret key", Mask: '*'}
		if cfg.S3.SecretKey, err = secretPrompt.Run(); err != nil {
			return nil, fmt.Errorf("s3 secret key: %w", err)
		}
	}

	vectorPrompt := promptui.Prompt{
		Label:   "Vector index directory",
		Default: cfg.VectorDir,
	}
	if cfg.VectorDir, err = vectorPrompt.Run(); err != nil {
		return nil, fmt.Errorf("vector directory: %w", err)
	}

	collectionPrompt := promptui.Prompt{
		Label:   "Collection name",
		Default: cfg.Collection,
	}
	if cfg.Collection, err = collectionPrompt.Run(); err != nil {
		return nil, fmt.Errorf("collection name: %w", err)
	}

	providerPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{string(ProviderOpenAI), string(ProviderOllama)},
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.EmbeddingProvider = EmbeddingProvider(provider)
	if cfg.EmbeddingProvider == ProviderOllama {
		cfg.EmbeddingModel = "nomic-embed-text"
	}

	modelPrompt := promptui.Prompt{
		Label:   "Embedding model",
		Default: cfg.EmbeddingModel,
	}
	if cfg.EmbeddingModel, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "API port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
