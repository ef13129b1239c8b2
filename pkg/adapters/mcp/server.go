package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/jsonpattern"
	"github.com/aretw0/jsonpattern/internal/logging"
	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/aretw0/jsonpattern/pkg/ports"
	"github.com/aretw0/jsonpattern/pkg/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Catalog defines what the MCP server needs from the application service.
type Catalog interface {
	ports.Validator
	ports.RuleLister
	Parse(data []byte, format schema.Format) (*schema.Node, error)
	List(ctx context.Context) ([]string, error)
}

// ValidateArgs are the arguments of the validate_document tool.
type ValidateArgs struct {
	SchemaName string `json:"schema_name,omitempty"`
	Schema     string `json:"schema,omitempty"`
	Document   string `json:"document"`
}

// Server exposes a Catalog as an MCP Server.
type Server struct {
	catalog   Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(c Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		catalog:   c,
		logger:    logger,
		mcpServer: server.NewMCPServer("jsonpattern-mcp", strings.TrimSpace(jsonpattern.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	validateTool := mcp.NewTool("validate_document",
		mcp.WithDescription("Validate a JSON document against a stored schema (schema_name) or an inline schema (schema). Returns every violation found."),
		mcp.WithString("schema_name", mcp.Description("Name of a stored schema")),
		mcp.WithString("schema", mcp.Description(`Inline schema as a JSON object, e.g. {"!amount": "number"}`)),
		mcp.WithString("document", mcp.Required(), mcp.Description("The document as a JSON object")),
		mcp.WithOutputSchema[domain.Report](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the datatype names usable in schemas."),
	), s.handleListRules)

	s.mcpServer.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List the names of the stored schemas."),
	), s.handleListSchemas)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (domain.Report, error) {
	if args.Document == "" {
		return domain.Report{}, errors.New("document is required")
	}

	var (
		report *domain.Report
		err    error
	)
	switch {
	case args.Schema != "":
		node, perr := s.catalog.Parse([]byte(args.Schema), schema.FormatJSON)
		if perr != nil {
			return domain.Report{}, perr
		}
		report, err = s.catalog.ValidateWith(ctx, node, args.Document)
	case args.SchemaName != "":
		report, err = s.catalog.Validate(ctx, args.SchemaName, args.Document)
	default:
		return domain.Report{}, errors.New("one of schema_name or schema is required")
	}

	if err != nil {
		s.logger.Warn("MCP validate_document failed", "schema", args.SchemaName, "err", err)
		return domain.Report{}, err
	}
	return *report, nil
}

func (s *Server) handleListRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.catalog.Rules())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListSchemas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.catalog.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(names)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

const rulesURI = "jsonpattern://rules"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(rulesURI, "Datatype Rules",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.catalog.Rules())
		if err != nil {
			return nil, fmt.Errorf("failed to encode rules: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      rulesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
