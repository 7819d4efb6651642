package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/internal/store"
)

// FlowServerDeps holds the dependencies for creating a FlowServer.
type FlowServerDeps struct {
	Registry    *registry.Shared
	Store       store.Store
	ManifestDir string
	Logger      *slog.Logger
}

// FlowServer wraps an MCP server with workflow catalog and validation tools.
type FlowServer struct {
	registry    *registry.Shared
	store       store.Store
	manifestDir string
	logger      *slog.Logger
	sessions    *SessionRegistry
	notifier    *CatalogNotifier
	mcpServer   *server.MCPServer
}

// NewFlowServer creates a new FlowServer with all 6 tools registered.
func NewFlowServer(deps FlowServerDeps) *FlowServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &FlowServer{
		registry:    deps.Registry,
		store:       deps.Store,
		manifestDir: deps.ManifestDir,
		logger:      logger,
		sessions:    NewSessionRegistry(),
	}

	mcpSrv := server.NewMCPServer(
		"opsconductor-flow",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("OpsConductor Flow manages the node catalog and workflow graphs for the operations console. Use flow.packages to browse available node packages, flow.node_type to inspect a node type definition, flow.validate to check a workflow document, flow.save to persist a valid workflow, flow.get to fetch a stored workflow, and flow.reload to rebuild the catalog from manifests."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	s.notifier = NewCatalogNotifier(mcpSrv, s.sessions)
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *FlowServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *FlowServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the 6 registered MCP tools as ServerTool entries.
func (s *FlowServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: packagesTool(), Handler: s.handlePackages},
		{Tool: nodeTypeTool(), Handler: s.handleNodeType},
		{Tool: validateTool(), Handler: s.handleValidate},
		{Tool: saveTool(), Handler: s.handleSave},
		{Tool: getTool(), Handler: s.handleGet},
		{Tool: reloadTool(), Handler: s.handleReload},
	}
}

// --- Tool definitions ---

func packagesTool() mcp.Tool {
	return mcp.NewTool("flow.packages",
		mcp.WithDescription("List enabled node packages with their categories and node type summaries"),
		mcp.WithString("platform", mcp.Description("Only include packages whose nodes can run on this platform")),
	)
}

func nodeTypeTool() mcp.Tool {
	return mcp.NewTool("flow.node_type",
		mcp.WithDescription("Get the full definition of a node type, including ports and parameter schemas"),
		mcp.WithString("node_type_id", mcp.Required(), mcp.Description("Namespaced node type ID, e.g. core:http_request")),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("flow.validate",
		mcp.WithDescription("Validate a workflow document against the node catalog. Returns errors and warnings"),
		mcp.WithObject("document", mcp.Required(), mcp.Description("Workflow document to validate")),
	)
}

func saveTool() mcp.Tool {
	return mcp.NewTool("flow.save",
		mcp.WithDescription("Validate a workflow document and persist it. Fails if the document has validation errors"),
		mcp.WithObject("document", mcp.Required(), mcp.Description("Workflow document to save")),
	)
}

func getTool() mcp.Tool {
	return mcp.NewTool("flow.get",
		mcp.WithDescription("Fetch a stored workflow document by ID"),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("ID of the workflow to fetch")),
	)
}

func reloadTool() mcp.Tool {
	return mcp.NewTool("flow.reload",
		mcp.WithDescription("Rebuild the node catalog from builtin packages plus manifest files, then swap it in atomically. Connected sessions are notified"),
	)
}
