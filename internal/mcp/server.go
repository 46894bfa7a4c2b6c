// Package mcp exposes the persisted window state to MCP clients as a
// small set of inspection and maintenance tools. The server reads the
// state file on every call so it always reflects what a restart would
// restore; it never talks to the X server.
package mcp

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winstate/internal/state"
)

const (
	ServerName    = "winstate"
	ServerVersion = "0.1.0"
)

// Server is the MCP server over the winstate state file.
type Server struct {
	mcpServer *mcpsdk.Server
	statePath string
}

// NewServer creates an MCP server that reads and maintains the state
// file at statePath.
func NewServer(statePath string) (*Server, error) {
	if statePath == "" {
		return nil, fmt.Errorf("no state file path resolved; cannot serve window state")
	}

	s := &Server{statePath: statePath}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window with persisted state: label, geometry, maximized/visible/decorated/fullscreen flags. Reads the state file fresh on each call.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window",
		Description: "Fetch the persisted state for a single window label.",
	}, s.handleGetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "forget_window",
		Description: "Discard the persisted state for one window label. The window will be snapshotted from scratch the next time it appears.",
	}, s.handleForgetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clear_state",
		Description: "Discard all persisted window state. Every window starts fresh on its next appearance.",
	}, s.handleClearState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "state_path",
		Description: "Report where the window state file lives and whether it currently exists.",
	}, s.handleStatePath)
}

// loadStore reads the state file. Missing and corrupt files both yield
// an empty store, mirroring what the daemon does at startup.
func (s *Server) loadStore() *state.Store {
	store, _ := state.LoadFile(s.statePath)
	return store
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	store := s.loadStore()
	entries := store.Snapshot()

	windows := make([]WindowState, 0, len(entries))
	for _, label := range store.Labels() {
		windows = append(windows, toWindowState(label, entries[label]))
	}
	return nil, ListWindowsOutput{StatePath: s.statePath, Windows: windows}, nil
}

func (s *Server) handleGetWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args GetWindowInput) (*mcpsdk.CallToolResult, GetWindowOutput, error) {
	store := s.loadStore()
	md, ok := store.Get(args.Label)
	if !ok {
		return nil, GetWindowOutput{}, fmt.Errorf("no persisted state for window %q; known labels: %v", args.Label, store.Labels())
	}
	return nil, GetWindowOutput{Window: toWindowState(args.Label, md)}, nil
}

func (s *Server) handleForgetWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ForgetWindowInput) (*mcpsdk.CallToolResult, ForgetWindowOutput, error) {
	store := s.loadStore()
	removed := store.Remove(args.Label)
	if removed {
		if err := state.SaveFile(s.statePath, store); err != nil {
			return nil, ForgetWindowOutput{}, fmt.Errorf("rewrite state file: %w", err)
		}
	}
	return nil, ForgetWindowOutput{Removed: removed}, nil
}

func (s *Server) handleClearState(_ context.Context, _ *mcpsdk.CallToolRequest, _ ClearStateInput) (*mcpsdk.CallToolResult, ClearStateOutput, error) {
	store := s.loadStore()
	removed := store.Clear()
	if err := state.SaveFile(s.statePath, store); err != nil {
		return nil, ClearStateOutput{}, fmt.Errorf("rewrite state file: %w", err)
	}
	return nil, ClearStateOutput{Removed: removed}, nil
}

func (s *Server) handleStatePath(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatePathInput) (*mcpsdk.CallToolResult, StatePathOutput, error) {
	_, err := os.Stat(s.statePath)
	return nil, StatePathOutput{Path: s.statePath, Exists: err == nil}, nil
}

func toWindowState(label string, md state.Metadata) WindowState {
	return WindowState{
		Label:      label,
		Width:      md.Width,
		Height:     md.Height,
		X:          md.X,
		Y:          md.Y,
		Maximized:  md.Maximized,
		Visible:    md.Visible,
		Decorated:  md.Decorated,
		Fullscreen: md.Fullscreen,
	}
}
