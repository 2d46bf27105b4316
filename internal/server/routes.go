package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// pathFilename extracts the filename route parameter. chi leaves escaped
// characters in place, so the value is unescaped before use.
func pathFilename(r *http.Request) string {
	raw := chi.URLParam(r, "filename")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// maxUploadBytes caps the size of a single uploaded document.
const maxUploadBytes = 64 << 20

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

type queryRequest struct {
	Query    string `json:"query"`
	NResults int    `json:"n_results"`
}

type queryMatch struct {
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Distance float32           `json:"distance"`
}

type queryResponse struct {
	Results []queryMatch `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Message: "API is running smoothly!",
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	filename := pathFilename(r)

	content, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	res, err := s.pipeline.IngestBytes(r.Context(), content, filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Filename: res.Filename, Chunks: res.Chunks})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	filename := pathFilename(r)

	content, err := s.store.Get(r.Context(), filename)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	filename := pathFilename(r)

	if !s.store.Delete(r.Context(), filename) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if s.catalog != nil {
		// Best-effort, mirroring the store's delete semantics.
		_, _ = s.catalog.Delete(r.Context(), filename)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.NResults == 0 {
		req.NResults = 5
	}

	results, err := s.index.Query(r.Context(), []string{req.Query}, req.NResults)
	if err != nil {
		writeError(w, err)
		return
	}

	matches := []queryMatch{}
	if len(results) > 0 {
		for _, m := range results[0] {
			matches = append(matches, queryMatch{
				Document: m.Document,
				Metadata: m.Metadata,
				Distance: m.Distance,
			})
		}
	}
	writeJSON(w, http.StatusOK, queryResponse{Results: matches})
}

func (s *Server) handleListIngestions(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		http.Error(w, "catalog not configured", http.StatusNotFound)
		return
	}
	entries, err := s.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeError translates component errors into HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidFilename), errors.Is(err, vectordb.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
