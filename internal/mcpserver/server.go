// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes glossary tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hnp180493/gloss/internal/glossaryservice"
)

// Server wraps the MCP server with glossary tools.
type Server struct {
	mcp *server.MCPServer
	svc *glossaryservice.Service
}

// New creates a new MCP server with all glossary tools registered.
func New(svc *glossaryservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Gloss",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lookup_definition",
		mcp.WithDescription("Look up the definition of a phrase or alias. Matching is case-insensitive."),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("Phrase or alias to look up")),
		mcp.WithString("context", mcp.Description("Optional document path whose def-context narrows the lookup")),
	), s.lookupDefinition)

	s.mcp.AddTool(mcp.NewTool("list_phrases",
		mcp.WithDescription("List every defined phrase and alias known to the glossary."),
	), s.listPhrases)

	s.mcp.AddTool(mcp.NewTool("scan_text",
		mcp.WithDescription("Find glossary phrases in a block of text. Returns whole-word, "+
			"case-insensitive matches with byte offsets; longer phrases win over shorter ones."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to scan")),
		mcp.WithString("path", mcp.Description("Optional vault document path providing def-context")),
	), s.scanText)

	s.mcp.AddTool(mcp.NewTool("find_usages",
		mcp.WithDescription("Find every occurrence of a phrase in non-definition vault documents."),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("Phrase to search for")),
	), s.findUsages)

	s.mcp.AddTool(mcp.NewTool("create_definition",
		mcp.WithDescription("Create a new glossary definition. Definitions MUST follow the "+
			"canonical format; read the contract first via the get_definition_contract tool "+
			"or the gloss://definition-format resource."),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("Phrase being defined")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Definition body text")),
		mcp.WithString("aliases", mcp.Description("Optional comma-separated aliases")),
		mcp.WithString("file", mcp.Description("Definition file to append to; omit to create a standalone file named after the phrase")),
	), s.createDefinition)

	s.mcp.AddTool(mcp.NewTool("read_definition_file",
		mcp.WithDescription("Read the raw Markdown content of a definition file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the file (e.g. glossary/terms.md)")),
	), s.readDefinitionFile)

	s.mcp.AddTool(mcp.NewTool("get_definition_contract",
		mcp.WithDescription("Returns the canonical definition file format contract. "+
			"Call this before creating definitions to ensure correct structure."),
	), s.getDefinitionContract)

	// Resource: definition format contract.
	s.mcp.AddResource(
		mcp.NewResource("gloss://definition-format", "Definition Format Contract",
			mcp.WithResourceDescription("Canonical Markdown definition format for glossary files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDefinitionFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) lookupDefinition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phrase, err := req.RequireString("phrase")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var contextFiles []string
	if c, cerr := req.RequireString("context"); cerr == nil && c != "" {
		contextFiles = []string{c}
	}
	d, err := s.svc.Lookup(phrase, contextFiles)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no definition for %q", phrase)), nil
	}
	out, _ := json.MarshalIndent(d, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPhrases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phrases := s.svc.Phrases(nil)
	if len(phrases) == 0 {
		return mcp.NewToolResultText("no phrases defined"), nil
	}
	return mcp.NewToolResultText(strings.Join(phrases, "\n")), nil
}

func (s *Server) scanText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docPath := ""
	if p, perr := req.RequireString("path"); perr == nil {
		docPath = p
	}
	matches := s.svc.Scan(text, docPath)
	out, _ := json.MarshalIndent(matches, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) findUsages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phrase, err := req.RequireString("phrase")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	usages, err := s.svc.Usages(phrase)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(usages) == 0 {
		return mcp.NewToolResultText("no usages found"), nil
	}
	out, _ := json.MarshalIndent(usages, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createDefinition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	phrase, err := req.RequireString("phrase")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var aliases []string
	if a, aerr := req.RequireString("aliases"); aerr == nil && a != "" {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				aliases = append(aliases, part)
			}
		}
	}

	file := ""
	if f, ferr := req.RequireString("file"); ferr == nil {
		file = f
	}

	var d interface{}
	if file == "" {
		d, err = s.svc.CreateAtomic(phrase, aliases, content)
	} else {
		d, err = s.svc.CreateBlock(file, phrase, aliases, content)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(d, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDefinitionFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.ReadSource(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getDefinitionContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DefinitionFormatContract), nil
}

func (s *Server) readDefinitionFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "gloss://definition-format",
			MIMEType: "text/markdown",
			Text:     DefinitionFormatContract,
		},
	}, nil
}
