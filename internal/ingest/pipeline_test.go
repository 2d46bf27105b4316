package ingest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docassist/docassist/internal/catalog"
	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// wordEmbedder produces deterministic vectors from word hashes, good enough
// for exercising the pipeline end to end.
type wordEmbedder struct{ dims int }

func (m *wordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, m.dims)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			var h uint32
			for _, ch := range word {
				h = h*31 + uint32(ch)
			}
			vec[h%uint32(m.dims)] += 1.0
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for j := range vec {
				vec[j] = float32(float64(vec[j]) / norm)
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (m *wordEmbedder) Dimensions() int { return m.dims }
func (m *wordEmbedder) Name() string    { return "word-hash" }

func newTestPipeline(t *testing.T) (*Pipeline, storage.DocumentStore, *vectordb.Index, *catalog.Store) {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	index, err := vectordb.Open(t.TempDir(), "test", &wordEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("vectordb.Open: %v", err)
	}
	cat, err := catalog.OpenMemory()
	if err != nil {
		t.Fatalf("catalog.OpenMemory: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	return New(store, index, cat, Chunker{Size: 80, Overlap: 20}), store, index, cat
}

func TestPipeline_IngestBytes(t *testing.T) {
	ctx := context.Background()
	p, store, index, cat := newTestPipeline(t)

	content := []byte("The first quarter financial report shows strong growth in subscriptions.")
	res, err := p.IngestBytes(ctx, content, "Q1_Report.txt")
	if err != nil {
		t.Fatalf("IngestBytes: %v", err)
	}
	if res.Filename != "Q1_Report.txt" {
		t.Errorf("Filename = %q, want Q1_Report.txt", res.Filename)
	}
	if res.Chunks == 0 {
		t.Fatal("IngestBytes produced no chunks")
	}

	// Raw bytes are retrievable from the store.
	got, err := store.Get(ctx, "Q1_Report.txt")
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if string(got) != string(content) {
		t.Error("stored content differs from ingested content")
	}

	// Chunks are queryable and carry the source filename.
	results, err := index.Query(ctx, []string{"quarterly financial growth"}, 1)
	if err != nil {
		t.Fatalf("index.Query: %v", err)
	}
	if len(results[0]) != 1 {
		t.Fatalf("expected one match, got %d", len(results[0]))
	}
	if results[0][0].Metadata["source"] != "Q1_Report.txt" {
		t.Errorf("match source = %q, want Q1_Report.txt", results[0][0].Metadata["source"])
	}

	// The ingestion is recorded in the catalog.
	entry, err := cat.Get(ctx, "Q1_Report.txt")
	if err != nil {
		t.Fatalf("catalog.Get: %v", err)
	}
	if entry.Chunks != res.Chunks {
		t.Errorf("catalog chunks = %d, want %d", entry.Chunks, res.Chunks)
	}
	if entry.SizeBytes != int64(len(content)) {
		t.Errorf("catalog size = %d, want %d", entry.SizeBytes, len(content))
	}
}

func TestPipeline_ReingestOverwrites(t *testing.T) {
	ctx := context.Background()
	p, _, index, cat := newTestPipeline(t)

	if _, err := p.IngestBytes(ctx, []byte("short original text"), "doc.txt"); err != nil {
		t.Fatalf("first IngestBytes: %v", err)
	}
	firstCount := index.Count()

	if _, err := p.IngestBytes(ctx, []byte("short replacement text"), "doc.txt"); err != nil {
		t.Fatalf("second IngestBytes: %v", err)
	}

	if got := index.Count(); got != firstCount {
		t.Errorf("re-ingest duplicated entries: count %d -> %d", firstCount, got)
	}

	entries, err := cat.List(ctx)
	if err != nil {
		t.Fatalf("catalog.List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("catalog has %d entries after re-ingest, want 1", len(entries))
	}
}

func TestPipeline_MarkdownIsStripped(t *testing.T) {
	ctx := context.Background()
	p, _, index, _ := newTestPipeline(t)

	content := []byte("# Heading\n\nplain words about onboarding\n")
	if _, err := p.IngestBytes(ctx, content, "guide.md"); err != nil {
		t.Fatalf("IngestBytes: %v", err)
	}

	results, err := index.Query(ctx, []string{"onboarding"}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results[0]) != 1 {
		t.Fatalf("expected one match, got %d", len(results[0]))
	}
	if strings.Contains(results[0][0].Document, "# ") {
		t.Errorf("indexed chunk still contains markdown syntax: %q", results[0][0].Document)
	}
}

func TestPipeline_IngestDir(t *testing.T) {
	ctx := context.Background()
	p, store, _, _ := newTestPipeline(t)

	dir := t.TempDir()
	files := map[string]string{
		"a.md":            "alpha document body",
		"b.txt":           "bravo document body",
		"skip.lock":       "lockfile noise",
		"vendor/dep.txt":  "vendored noise",
		"nested/deep.txt": "delta document body",
		".git/config":     "git noise",
	}
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	var visited []string
	results, err := p.IngestDir(ctx, dir, nil, []string{"*.lock"}, func(path string) {
		visited = append(visited, filepath.Base(path))
	})
	if err != nil {
		t.Fatalf("IngestDir: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("IngestDir ingested %d files, want 3: %+v", len(results), results)
	}
	if len(visited) != 3 {
		t.Errorf("onFile called %d times, want 3", len(visited))
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("store.List: %v", err)
	}
	stored := make(map[string]bool, len(names))
	for _, n := range names {
		stored[n] = true
	}
	for _, want := range []string{"a.md", "b.txt", "deep.txt"} {
		if !stored[want] {
			t.Errorf("store missing %q after IngestDir: %v", want, names)
		}
	}
	for _, reject := range []string{"skip.lock", "dep.txt", "config"} {
		if stored[reject] {
			t.Errorf("store contains filtered file %q", reject)
		}
	}
}

func TestPipeline_IngestFileMissing(t *testing.T) {
	ctx := context.Background()
	p, _, _, _ := newTestPipeline(t)

	if _, err := p.IngestFile(ctx, filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("IngestFile on missing path: expected error")
	}
}
