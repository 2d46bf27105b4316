package vectordb

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/docassist/docassist/internal/embeddings"
)

// Index is a persistent, queryable collection of text entries keyed by id.
// It wraps a chromem-go persistent database holding a single named
// collection; every added text is embedded once and durably stored together
// with its metadata and id.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

// Open opens or creates the named collection under path. Opening an existing
// collection never destroys its contents; entries added before a restart are
// found by queries after it.
func Open(path, collection string, embedder embeddings.Embedder) (*Index, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector store at %q: %w", path, err)
	}

	col, err := db.GetOrCreateCollection(collection, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("opening collection %q: %w", collection, err)
	}

	return &Index{db: db, collection: col, name: collection}, nil
}

// Name returns the collection name.
func (ix *Index) Name() string { return ix.name }

// Count returns the number of entries in the collection.
func (ix *Index) Count() int { return ix.collection.Count() }

// Add embeds each document and stores it with its metadata under the matching
// id. The three slices must have equal length; a mismatch leaves the
// collection unchanged. Adding an id that already exists overwrites the
// previous entry.
func (ix *Index) Add(ctx context.Context, documents []string, metadatas []Metadata, ids []string) error {
	if len(documents) != len(metadatas) || len(documents) != len(ids) {
		return fmt.Errorf("%w: got %d documents, %d metadatas, %d ids",
			ErrInvalidArgument, len(documents), len(metadatas), len(ids))
	}
	if len(documents) == 0 {
		return nil
	}

	// Validate everything up front so a bad entry cannot leave a partial batch behind.
	docs := make([]chromem.Document, len(documents))
	for i := range documents {
		if ids[i] == "" {
			return fmt.Errorf("%w: empty id at position %d", ErrInvalidArgument, i)
		}
		md, err := flatten(metadatas[i])
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		docs[i] = chromem.Document{
			ID:       ids[i],
			Content:  documents[i],
			Metadata: md,
		}
	}

	if err := ix.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("adding %d entries to collection %q: %w", len(docs), ix.name, err)
	}
	return nil
}

// Query returns, for each query text, up to nResults matches ordered by
// ascending distance. If the collection holds fewer entries than nResults,
// all of them are returned. An empty queryTexts yields an empty result.
func (ix *Index) Query(ctx context.Context, queryTexts []string, nResults int) ([][]Match, error) {
	if nResults <= 0 {
		return nil, fmt.Errorf("%w: n_results must be positive, got %d", ErrInvalidArgument, nResults)
	}
	if len(queryTexts) == 0 {
		return nil, nil
	}

	out := make([][]Match, len(queryTexts))
	for qi, query := range queryTexts {
		// chromem rejects nResults larger than the collection size.
		n := nResults
		if count := ix.collection.Count(); n > count {
			n = count
		}
		if n == 0 {
			out[qi] = nil
			continue
		}

		results, err := ix.collection.Query(ctx, query, n, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("querying collection %q: %w", ix.name, err)
		}

		matches := make([]Match, len(results))
		for i, r := range results {
			matches[i] = Match{
				Document: r.Content,
				Metadata: r.Metadata,
				Distance: toDistance(r.Similarity),
			}
		}
		out[qi] = matches
	}

	return out, nil
}

// toDistance converts the engine's cosine similarity (higher is closer) into
// a non-negative dissimilarity score (lower is closer).
func toDistance(similarity float32) float32 {
	d := 1 - similarity
	if d < 0 {
		return 0
	}
	return d
}
