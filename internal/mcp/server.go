// Package mcp exposes the pipeline over the Model Context Protocol via
// stdio: parsing single files, symbol lookups, and resolution statistics.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/uast/internal/astbuilder"
	"github.com/standardbeagle/uast/internal/debug"
	"github.com/standardbeagle/uast/internal/parser"
	"github.com/standardbeagle/uast/internal/project"
)

// Server wraps an MCP stdio server over one project indexer.
type Server struct {
	server  *mcp.Server
	indexer *project.Indexer
	parser  *parser.TreeSitterParser
	builder *astbuilder.Builder
}

// NewServer creates the MCP server and registers its tools. The indexer is
// expected to have been populated by the caller.
func NewServer(indexer *project.Indexer) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "uast-mcp-server",
			Version: "0.1.0",
		}, nil),
		indexer: indexer,
		parser:  parser.New(),
		builder: astbuilder.New(nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	debug.SetMCPMode(true)
	defer s.Close()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close releases the server's grammar parsers. The parser lazily
// reinitializes, so a closed server could serve again if rerun.
func (s *Server) Close() {
	if s.parser != nil {
		s.parser.Close()
	}
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "parse_file",
		Description: "Parse one source file (C, C++, Python, JavaScript, TypeScript) and return its canonical AST as JSON.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Path to the source file to parse",
				},
				"include_cst": {
					Type:        "boolean",
					Description: "Also return the raw grammar tree before normalization",
				},
			},
			Required: []string{"path"},
		},
	}, s.handleParseFile)

	s.server.AddTool(&mcp.Tool{
		Name:        "lookup_symbol",
		Description: "Look up a symbol by qualified name, with scope-aware fallback resolution across the indexed project.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"name": {
					Type:        "string",
					Description: "Qualified or simple symbol name",
				},
				"scope": {
					Type:        "string",
					Description: "Current scope for unqualified resolution (e.g. a file or class path)",
				},
				"language": {
					Type:        "string",
					Description: "Language context for scope separator rules (c, cpp, python, javascript, typescript)",
				},
			},
			Required: []string{"name"},
		},
	}, s.handleLookupSymbol)

	s.server.AddTool(&mcp.Tool{
		Name:        "resolution_stats",
		Description: "Return reference-resolution statistics for the indexed project: attempted, resolved, collisions, and suggestions for unresolved names.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleResolutionStats)
}

func createJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(content)},
		},
	}, nil
}

func createErrorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"success":   false,
		"operation": operation,
		"error":     err.Error(),
	})
}

type parseFileParams struct {
	Path       string `json:"path"`
	IncludeCST bool   `json:"include_cst"`
}

func (s *Server) handleParseFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params parseFileParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("parse_file", fmt.Errorf("invalid parameters: %w", err))
	}
	content, err := os.ReadFile(params.Path)
	if err != nil {
		return createErrorResponse("parse_file", err)
	}
	result := map[string]interface{}{"success": true}
	if params.IncludeCST {
		root, cst, lang, err := s.builder.BuildFileWithCST(ctx, s.parser, params.Path, content)
		if err != nil {
			return createErrorResponse("parse_file", err)
		}
		result["language"] = lang.String()
		result["ast"] = root
		result["cst"] = cst
	} else {
		root, lang, err := s.builder.BuildFile(ctx, s.parser, params.Path, content)
		if err != nil {
			return createErrorResponse("parse_file", err)
		}
		result["language"] = lang.String()
		result["ast"] = root
	}
	return createJSONResponse(result)
}

type lookupSymbolParams struct {
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	Language string `json:"language"`
}

func (s *Server) handleLookupSymbol(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params lookupSymbolParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("lookup_symbol", fmt.Errorf("invalid parameters: %w", err))
	}
	if s.indexer == nil {
		return createErrorResponse("lookup_symbol", fmt.Errorf("no project is indexed"))
	}

	lang := parser.LanguageByName(params.Language)
	table := s.indexer.Table()
	entry := table.Lookup(params.Name)
	if entry == nil {
		entry = table.ScopeLookup(params.Name, params.Scope, lang)
	}
	if entry == nil {
		return createJSONResponse(map[string]interface{}{
			"success": true,
			"found":   false,
		})
	}
	result := map[string]interface{}{
		"success":        true,
		"found":          true,
		"qualified_name": entry.QualifiedName,
		"simple_name":    entry.SimpleName,
		"file_path":      entry.FilePath,
		"language":       entry.Language.String(),
		"scope":          entry.Scope.String(),
	}
	if entry.Node != nil {
		result["type"] = entry.Node.Type.String()
		result["range"] = map[string]uint32{
			"start_line":   entry.Node.Range.Start.Line,
			"start_column": entry.Node.Range.Start.Column,
			"end_line":     entry.Node.Range.End.Line,
			"end_column":   entry.Node.Range.End.Column,
		}
	}
	return createJSONResponse(result)
}

func (s *Server) handleResolutionStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.indexer == nil {
		return createErrorResponse("resolution_stats", fmt.Errorf("no project is indexed"))
	}
	stats := s.indexer.Stats()
	return createJSONResponse(map[string]interface{}{
		"success":              true,
		"files_indexed":        stats.FilesIndexed,
		"files_failed":         stats.FilesFailed,
		"symbols_registered":   stats.SymbolsRegistered,
		"symbol_collisions":    stats.SymbolCollisions,
		"references_attempted": stats.ReferencesAttempted,
		"references_resolved":  stats.ReferencesResolved,
		"suggestions":          s.indexer.Resolver().Suggestions(),
	})
}
