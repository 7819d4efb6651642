package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/server"
)

// CatalogNotifier pushes catalog-change notifications to connected sessions.
type CatalogNotifier struct {
	mcpServer *server.MCPServer
	sessions  *SessionRegistry
}

// NewCatalogNotifier creates a notifier that pushes via MCP notifications.
func NewCatalogNotifier(mcpServer *server.MCPServer, sessions *SessionRegistry) *CatalogNotifier {
	return &CatalogNotifier{mcpServer: mcpServer, sessions: sessions}
}

// Broadcast sends the payload to every tracked session. Best-effort:
// sessions that expired since they were tracked are dropped silently.
func (n *CatalogNotifier) Broadcast(_ context.Context, payload map[string]any) {
	for _, sessionID := range n.sessions.All() {
		err := n.mcpServer.SendNotificationToSpecificClient(sessionID, "notifications/message", payload)
		if errors.Is(err, server.ErrSessionNotFound) {
			n.sessions.Remove(sessionID)
		}
	}
}
