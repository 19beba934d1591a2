// Package resources implements MCP resource handlers for Vitacore.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (vitacore://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	MacroURI     = "vitacore://macro"
	ParadoxesURI = "vitacore://paradoxes/open"
)

// NoMacroText is served when the Macro has never been written.
const NoMacroText = "No Macro yet. Close a few sessions and call trigger_macro_evolution."

// Reader is the read-only view of the store the resources need.
type Reader interface {
	GetMacroRecord() (*storage.Macro, error)
	GetOpenParadoxes() ([]storage.Paradox, error)
}

// Handler manages Vitacore resource endpoints.
type Handler struct {
	store Reader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store Reader) *Handler {
	return &Handler{store: store}
}

// MacroResource returns the MCP resource definition for the Macro document.
func (h *Handler) MacroResource() mcp.Resource {
	return mcp.NewResource(
		MacroURI,
		"Vitacore Macro",
		mcp.WithResourceDescription("Current Macro architecture document, overwritten by trigger_macro_evolution"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleMacro returns the current Macro as markdown.
func (h *Handler) HandleMacro(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	m, err := h.store.GetMacroRecord()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	text := m.Content
	if text == "" {
		text = NoMacroText
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// ParadoxesResource returns the MCP resource definition for open paradoxes.
func (h *Handler) ParadoxesResource() mcp.Resource {
	return mcp.NewResource(
		ParadoxesURI,
		"Open Architectural Paradoxes",
		mcp.WithResourceDescription("Paradoxes detected by check_architectural_health that are not resolved yet"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleParadoxes returns the open paradoxes as JSON.
func (h *Handler) HandleParadoxes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	open, err := h.store.GetOpenParadoxes()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if open == nil {
		open = []storage.Paradox{}
	}

	data, err := json.MarshalIndent(open, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling paradoxes: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
