package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docassist/docassist/internal/catalog"
	"github.com/docassist/docassist/internal/ingest"
	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

type hashEmbedder struct{ dims int }

func (m *hashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
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

func (m *hashEmbedder) Dimensions() int { return m.dims }
func (m *hashEmbedder) Name() string    { return "hash" }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	index, err := vectordb.Open(t.TempDir(), "test", &hashEmbedder{dims: 64})
	if err != nil {
		t.Fatalf("vectordb.Open: %v", err)
	}
	cat, err := catalog.OpenMemory()
	if err != nil {
		t.Fatalf("catalog.OpenMemory: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	pipeline := ingest.New(store, index, cat, ingest.Chunker{Size: 200, Overlap: 40})
	return New(Config{Port: 0}, store, index, cat, pipeline)
}

func do(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health: status %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if body["message"] == "" {
		t.Error("message is empty")
	}
}

func TestDocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Upload.
	w := do(t, srv, "PUT", "/api/documents/report.txt", []byte("the quarterly financial report"))
	if w.Code != http.StatusCreated {
		t.Fatalf("PUT: status %d, body %s", w.Code, w.Body.String())
	}
	var up uploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &up); err != nil {
		t.Fatalf("unmarshal upload response: %v", err)
	}
	if up.Filename != "report.txt" || up.Chunks == 0 {
		t.Errorf("upload response = %+v", up)
	}

	// List.
	w = do(t, srv, "GET", "/api/documents", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET list: status %d", w.Code)
	}
	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(names) != 1 || names[0] != "report.txt" {
		t.Errorf("list = %v, want [report.txt]", names)
	}

	// Fetch content.
	w = do(t, srv, "GET", "/api/documents/report.txt", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET document: status %d", w.Code)
	}
	if w.Body.String() != "the quarterly financial report" {
		t.Errorf("document body = %q", w.Body.String())
	}

	// Ingestion ledger.
	w = do(t, srv, "GET", "/api/ingestions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET ingestions: status %d", w.Code)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal ingestions: %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "report.txt" {
		t.Errorf("ingestions = %+v", entries)
	}

	// Delete.
	w = do(t, srv, "DELETE", "/api/documents/report.txt", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status %d", w.Code)
	}
	w = do(t, srv, "DELETE", "/api/documents/report.txt", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second DELETE: status %d, want 404", w.Code)
	}
}

func TestGetMissingDocument(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/api/documents/absent.txt", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET missing document: status %d, want 404", w.Code)
	}
}

func TestQuery(t *testing.T) {
	srv := newTestServer(t)

	if w := do(t, srv, "PUT", "/api/documents/Q1.txt", []byte("Q1 financial report")); w.Code != http.StatusCreated {
		t.Fatalf("PUT Q1: status %d", w.Code)
	}
	if w := do(t, srv, "PUT", "/api/documents/HR.txt", []byte("employee onboarding guide")); w.Code != http.StatusCreated {
		t.Fatalf("PUT HR: status %d", w.Code)
	}

	w := do(t, srv, "POST", "/api/query", []byte(`{"query":"quarterly financial report","n_results":1}`))
	if w.Code != http.StatusOK {
		t.Fatalf("POST query: status %d, body %s", w.Code, w.Body.String())
	}

	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal query response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("query returned %d results, want 1", len(resp.Results))
	}
	if resp.Results[0].Metadata["source"] != "Q1.txt" {
		t.Errorf("top result source = %q, want Q1.txt", resp.Results[0].Metadata["source"])
	}
	if resp.Results[0].Distance < 0 {
		t.Errorf("distance %f is negative", resp.Results[0].Distance)
	}
}

func TestQueryInvalidResultCount(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "POST", "/api/query", []byte(`{"query":"anything","n_results":-2}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST query with negative n_results: status %d, want 400", w.Code)
	}
}

func TestQueryMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "POST", "/api/query", []byte(`{`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST query with bad JSON: status %d, want 400", w.Code)
	}
}

func TestUploadTraversalFilename(t *testing.T) {
	srv := newTestServer(t)

	// chi won't route slashes inside the path param, but encoded traversal
	// still reaches the handler and must be reduced to the base name.
	w := do(t, srv, "PUT", "/api/documents/..%2F..%2Fetc%2Fpasswd", []byte("secret"))
	if w.Code != http.StatusCreated {
		t.Fatalf("PUT traversal name: status %d, body %s", w.Code, w.Body.String())
	}
	var up uploadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &up); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if up.Filename != "passwd" {
		t.Errorf("stored filename = %q, want passwd", up.Filename)
	}
}
