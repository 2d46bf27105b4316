package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// handleSearchDocs performs a semantic search over the vector index.
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit <= 0 {
		limit = 5
	}

	results, err := s.index.Query(ctx, []string{query}, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 || len(results[0]) == 0 {
		return mcp.NewToolResultText("No results found. Ingest documents first with `docassist ingest`."), nil
	}

	return mcp.NewToolResultText(vectordb.FormatMatches(results[0])), nil
}

// handleGetDocument returns the raw content of a stored document.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: filename"), nil
	}

	content, err := s.store.Get(ctx, filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no document stored under %q", filename)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to read document: %v", err)), nil
	}

	return mcp.NewToolResultText(string(content)), nil
}

// handleListDocuments lists all stored document filenames.
func (s *Server) handleListDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list documents: %v", err)), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("No documents stored yet."), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}
