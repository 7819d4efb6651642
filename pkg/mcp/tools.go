package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/andrewcho-dev/opsconductor-flow/internal/codec"
	"github.com/andrewcho-dev/opsconductor-flow/internal/logging"
	"github.com/andrewcho-dev/opsconductor-flow/internal/packages"
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/internal/store"
	"github.com/andrewcho-dev/opsconductor-flow/internal/validation"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// handlePackages lists enabled node packages, optionally filtered by platform.
func (s *FlowServer) handlePackages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.captureSession(ctx)

	platform := req.GetString("platform", "")
	reg := s.registry.Current()

	var pkgs []*schema.NodePackage
	if platform != "" {
		pkgs = reg.ListEnabled(platform)
	} else {
		pkgs = reg.ListEnabled()
	}

	summaries := make([]map[string]any, 0, len(pkgs))
	for _, pkg := range pkgs {
		summaries = append(summaries, packageSummary(pkg))
	}
	return marshalResult(map[string]any{"packages": summaries})
}

// handleNodeType returns the full definition of a single node type.
func (s *FlowServer) handleNodeType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.captureSession(ctx)

	nodeTypeID, err := req.RequireString("node_type_id")
	if err != nil {
		return mcp.NewToolResultError("node_type_id is required"), nil
	}

	def, resolveErr := s.registry.Current().Resolve(nodeTypeID)
	if resolveErr != nil {
		return mcp.NewToolResultError(resolveErr.Error()), nil
	}
	return marshalResult(def)
}

// handleValidate runs the full validation pipeline over a workflow document.
func (s *FlowServer) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.captureSession(ctx)

	g, result, err := s.decodeAndValidate(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if result == nil {
		// Structural failure already reported as issues.
		return marshalResult(map[string]any{"valid": false})
	}
	return marshalResult(map[string]any{
		"valid":       result.Valid(),
		"workflow_id": g.ID,
		"errors":      result.Errors,
		"warnings":    result.Warnings,
	})
}

// handleSave validates a workflow document and persists it if it is clean.
// Warnings do not block saving.
func (s *FlowServer) handleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.captureSession(ctx)

	g, result, err := s.decodeAndValidate(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !result.Valid() {
		out, _ := json.Marshal(result.Errors)
		return mcp.NewToolResultError(fmt.Sprintf("document has validation errors: %s", out)), nil
	}

	doc, serErr := codec.Serialize(g)
	if serErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize workflow: %v", serErr)), nil
	}

	now := time.Now().UTC()
	rec := &store.WorkflowRecord{
		ID:        g.ID,
		Name:      g.Name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if saveErr := s.store.SaveWorkflow(ctx, rec); saveErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save workflow: %v", saveErr)), nil
	}

	ctx = logging.WithWorkflowID(ctx, g.ID)
	logging.LogWith(ctx, s.logger).Info("workflow saved", "name", g.Name, "warnings", len(result.Warnings))

	return marshalResult(map[string]any{
		"workflow_id": g.ID,
		"saved":       true,
		"warnings":    result.Warnings,
	})
}

// handleGet fetches a stored workflow document.
func (s *FlowServer) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.captureSession(ctx)

	workflowID, err := req.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError("workflow_id is required"), nil
	}

	rec, getErr := s.store.GetWorkflow(ctx, workflowID)
	if getErr != nil {
		return mcp.NewToolResultError(getErr.Error()), nil
	}
	return marshalResult(rec)
}

// handleReload rebuilds the catalog from builtins plus manifests and swaps
// it in atomically. A failed build leaves the current catalog untouched.
func (s *FlowServer) handleReload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.captureSession(ctx)

	pkgs := packages.Builtin()
	if s.manifestDir != "" {
		loaded, loadErr := registry.LoadManifestDir(s.manifestDir)
		if loadErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("manifest load failed: %v", loadErr)), nil
		}
		pkgs = append(pkgs, loaded...)
	}

	next, buildErr := registry.Build(pkgs...)
	if buildErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog build failed: %v", buildErr)), nil
	}
	s.registry.Replace(next)

	s.logger.InfoContext(ctx, "catalog reloaded", "packages", len(pkgs), "node_types", next.Count())
	s.notifier.Broadcast(ctx, map[string]any{
		"event":      "catalog_reloaded",
		"packages":   len(pkgs),
		"node_types": next.Count(),
	})

	return marshalResult(map[string]any{
		"packages":   len(pkgs),
		"node_types": next.Count(),
	})
}

// --- Internal helpers ---

// decodeAndValidate extracts the document argument, runs the structural
// codec pass, then the semantic and graph passes against the live catalog.
func (s *FlowServer) decodeAndValidate(_ context.Context, req mcp.CallToolRequest) (*schema.WorkflowGraph, *schema.ValidationResult, error) {
	doc := mcp.ParseStringMap(req, "document", nil)
	if doc == nil {
		return nil, nil, fmt.Errorf("document is required")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid document: %v", err)
	}

	g, decErr := codec.Deserialize(raw)
	if decErr != nil {
		return nil, nil, decErr
	}

	validator := validation.NewGraphValidator(s.registry.Current())
	return g, validator.Validate(g), nil
}

// packageSummary flattens a package into a browse-friendly shape: no
// parameter schemas, just node identities grouped under the package.
func packageSummary(pkg *schema.NodePackage) map[string]any {
	ids := make([]string, 0, len(pkg.Nodes))
	for id := range pkg.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	nodes := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		def := pkg.Nodes[id]
		nodes = append(nodes, map[string]any{
			"id":       id,
			"name":     def.Name,
			"category": def.Category,
		})
	}
	return map[string]any{
		"id":         pkg.ID,
		"name":       pkg.Name,
		"version":    pkg.Version,
		"categories": pkg.Categories,
		"nodes":      nodes,
	}
}

// captureSession records the calling MCP session so catalog reloads can be
// broadcast to it later.
func (s *FlowServer) captureSession(ctx context.Context) {
	if session := server.ClientSessionFromContext(ctx); session != nil {
		s.sessions.Track(session.SessionID())
	}
}

// marshalResult converts a value to a JSON text tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
