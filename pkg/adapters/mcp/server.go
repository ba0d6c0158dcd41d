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

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reference"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// BlueprintsURI lists every blueprint ID.
const BlueprintsURI = "lattice://blueprints"

// Workspace is the part of lattice.Workspace the MCP server needs.
type Workspace interface {
	Blueprint(id string) (*domain.Blueprint, error)
	BlueprintIDs() ([]string, error)
	ParseReference(s string) (reference.Info, error)
}

var _ Workspace = (*lattice.Workspace)(nil)

// EncodeResponse carries an encoded reference.
type EncodeResponse struct {
	Reference string `json:"reference" jsonschema_description:"The encoded port reference"`
}

// Server wraps a Workspace and exposes it as an MCP Server.
type Server struct {
	workspace Workspace
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(ws Workspace, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		workspace: ws,
		logger:    logger,
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
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
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("MCP Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: parse_reference
	parseTool := mcp.NewTool("parse_reference",
		mcp.WithDescription("Parse a port reference such as 'e(f.g#c.d' into its parts."),
		mcp.WithString("reference", mcp.Required(), mcp.Description("The reference string")),
		mcp.WithOutputSchema[reference.Info](),
	)
	s.mcpServer.AddTool(parseTool, mcp.NewStructuredToolHandler(s.handleParseReference))

	// TOOL: encode_reference
	encodeTool := mcp.NewTool("encode_reference",
		mcp.WithDescription("Encode port reference parts into a reference string."),
		mcp.WithString("instance", mcp.Description("Operator or delegate name; empty for the enclosing blueprint")),
		mcp.WithString("port", mcp.Description("Port path; empty for the root port")),
		mcp.WithBoolean("direction_in", mcp.Required(), mcp.Description("True for an input port")),
		mcp.WithString("blueprint", mcp.Description("Blueprint qualifier (optional)")),
		mcp.WithString("delegate", mcp.Description("Delegate qualifier (optional)")),
		mcp.WithOutputSchema[EncodeResponse](),
	)
	s.mcpServer.AddTool(encodeTool, mcp.NewStructuredToolHandler(s.handleEncodeReference))

	// TOOL: inspect_blueprint
	inspectTool := mcp.NewTool("inspect_blueprint",
		mcp.WithDescription("Compile a blueprint and describe its delegates, operators and wires."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Blueprint ID")),
		mcp.WithOutputSchema[dto.Blueprint](),
	)
	s.mcpServer.AddTool(inspectTool, mcp.NewStructuredToolHandler(s.handleInspectBlueprint))

	// TOOL: graph_blueprint
	s.mcpServer.AddTool(mcp.NewTool("graph_blueprint",
		mcp.WithDescription("Render a blueprint as a Mermaid diagram."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Blueprint ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, _ := request.GetArguments()["id"].(string)
		bp, err := s.workspace.Blueprint(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
		}
		return mcp.NewToolResultText(graph.GenerateMermaid(bp, nil)), nil
	})
}

func (s *Server) handleParseReference(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (reference.Info, error) {
	ref, _ := args["reference"].(string)
	info, err := s.workspace.ParseReference(ref)
	if err != nil {
		s.logger.Debug("MCP parse_reference rejected", "reference", ref, "err", err)
		return reference.Info{}, err
	}
	return info, nil
}

func (s *Server) handleEncodeReference(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EncodeResponse, error) {
	instance, _ := args["instance"].(string)
	port, _ := args["port"].(string)
	in, _ := args["direction_in"].(bool)

	info := reference.Instance(instance, in, port)
	if bp, ok := args["blueprint"].(string); ok {
		info = info.WithBlueprint(bp)
	}
	if d, ok := args["delegate"].(string); ok {
		info = info.WithDelegate(d)
	}

	ref, err := reference.Encode(info)
	if err != nil {
		return EncodeResponse{}, err
	}
	return EncodeResponse{Reference: ref}, nil
}

func (s *Server) handleInspectBlueprint(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (dto.Blueprint, error) {
	id, _ := args["id"].(string)
	bp, err := s.workspace.Blueprint(id)
	if err != nil {
		return dto.Blueprint{}, fmt.Errorf("compile failed: %w", err)
	}
	return dto.FromBlueprint(bp), nil
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://blueprints
	s.mcpServer.AddResource(mcp.NewResource(BlueprintsURI, "Blueprint IDs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.workspace.BlueprintIDs()
		if err != nil {
			return nil, fmt.Errorf("failed to list blueprints: %w", err)
		}
		return jsonResource(BlueprintsURI, ids)
	})

	// EXPOSE: lattice://blueprints/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(BlueprintsURI+"/{id}", "Blueprint",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readBlueprint)
}

func (s *Server) readBlueprint(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id, ok := strings.CutPrefix(uri, BlueprintsURI+"/")
	if !ok || id == "" {
		return nil, errors.New("blueprint id missing from " + uri)
	}
	bp, err := s.workspace.Blueprint(id)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", id, err)
	}
	return jsonResource(uri, dto.FromBlueprint(bp))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
