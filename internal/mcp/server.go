// Package mcp exposes the document store and vector index to AI agents over
// the Model Context Protocol on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/docassist/docassist/internal/storage"
	"github.com/docassist/docassist/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document search and retrieval tools.
type Server struct {
	store storage.DocumentStore
	index *vectordb.Index
	mcp   *server.MCPServer
}

// NewServer creates an MCP server over the given components.
func NewServer(store storage.DocumentStore, index *vectordb.Index) *Server {
	s := &Server{
		store: store,
		index: index,
	}

	s.mcp = server.NewMCPServer(
		"docassist",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocsTool, s.handleSearchDocs)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
	s.mcp.AddTool(listDocumentsTool, s.handleListDocuments)
}

// Serve starts the MCP server on stdio. Stdout carries protocol messages;
// all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
