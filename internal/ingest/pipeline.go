// Package ingest turns raw documents into indexed passages: it persists the
// original bytes in the document store, splits the text into chunks, adds the
// chunks to the vector index, and records the ingestion in the catalog.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docassist/docassist/internal/catalog"
	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// Result summarizes one ingested document.
type Result struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

// Pipeline wires the document store, the vector index, and the catalog into
// a single ingestion flow. The catalog is optional.
type Pipeline struct {
	store   storage.DocumentStore
	index   *vectordb.Index
	catalog *catalog.Store
	chunker Chunker
}

// New creates a Pipeline. cat may be nil to skip catalog bookkeeping.
func New(store storage.DocumentStore, index *vectordb.Index, cat *catalog.Store, chunker Chunker) *Pipeline {
	return &Pipeline{store: store, index: index, catalog: cat, chunker: chunker}
}

// IngestBytes stores content under filename and indexes its text. Markdown
// files are reduced to plain text before chunking. Chunk ids are derived from
// the stored filename, so re-ingesting a document overwrites its entries
// instead of duplicating them.
func (p *Pipeline) IngestBytes(ctx context.Context, content []byte, filename string) (Result, error) {
	name, err := p.store.Save(ctx, content, filename)
	if err != nil {
		return Result{}, err
	}

	text := string(content)
	if strings.EqualFold(filepath.Ext(name), ".md") {
		text = ExtractMarkdownText(content)
	}

	chunks := p.chunker.Chunk(text)
	if len(chunks) > 0 {
		documents := make([]string, len(chunks))
		metadatas := make([]vectordb.Metadata, len(chunks))
		ids := make([]string, len(chunks))
		for i, chunk := range chunks {
			documents[i] = chunk
			metadatas[i] = vectordb.Metadata{
				"source": name,
				"chunk":  i,
				"chunks": len(chunks),
			}
			ids[i] = fmt.Sprintf("%s#%04d", name, i)
		}
		if err := p.index.Add(ctx, documents, metadatas, ids); err != nil {
			return Result{}, fmt.Errorf("indexing %q: %w", name, err)
		}
	} else {
		logrus.WithField("filename", name).Warn("document produced no indexable text")
	}

	if p.catalog != nil {
		if _, err := p.catalog.Record(ctx, name, int64(len(content)), len(chunks)); err != nil {
			return Result{}, err
		}
	}

	return Result{Filename: name, Chunks: len(chunks)}, nil
}

// IngestFile reads one file from disk and ingests it.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %q: %w", path, err)
	}
	return p.IngestBytes(ctx, content, filepath.Base(path))
}

// IngestDir walks dir and ingests every regular file matching the include
// patterns and not matching the exclude patterns. onFile, if non-nil, is
// called before each file is ingested.
func (p *Pipeline) IngestDir(ctx context.Context, dir string, include, exclude []string, onFile func(path string)) ([]Result, error) {
	var results []Result

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if !matchesInclude(rel, include) || matchesExclude(rel, exclude) {
			return nil
		}

		if onFile != nil {
			onFile(path)
		}
		res, err := p.IngestFile(ctx, path)
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ingesting directory %q: %w", dir, err)
	}

	return results, nil
}
