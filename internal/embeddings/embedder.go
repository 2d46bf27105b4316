package embeddings

import "context"

// Embedder converts text into fixed-size numeric vectors. It is invoked once
// per inserted text and once per query text; implementations must be
// deterministic enough for similarity search to be meaningful.
type Embedder interface {
	// Embed generates one embedding per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of the vectors this embedder produces.
	Dimensions() int

	// Name identifies the embedding model.
	Name() string
}
