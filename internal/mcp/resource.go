package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CategoriesURI is the resource address of the category catalog.
const CategoriesURI = "expense://categories"

func (s *Server) registerCatalog() {
	s.mcp.AddTool(mcp.NewTool("categories",
		mcp.WithDescription("List the valid categories and subcategories for expenses and credits. Call this before adding or editing records."),
	), s.handleCategories)

	s.mcp.AddResource(mcp.NewResource(CategoriesURI, "categories",
		mcp.WithResourceDescription("Valid categories and subcategories per record kind."),
		mcp.WithMIMEType("application/json"),
	), s.handleCategoriesResource)
}

func (s *Server) handleCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.catalog.Snapshot())
}

func (s *Server) handleCategoriesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(s.catalog.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("encode categories: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CategoriesURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
