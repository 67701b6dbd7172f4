// Package mcp exposes the roast pipeline as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roasbeef/pushclash/internal/build"
	"github.com/roasbeef/pushclash/internal/roast"
)

// Roaster runs roast requests.
type Roaster interface {
	Roast(ctx context.Context, username string) (*roast.Response, error)
}

// Server wraps the MCP server with the roast service.
type Server struct {
	server  *mcp.Server
	roaster Roaster
	log     *slog.Logger
}

// NewServer creates a new MCP server with the roast tools registered.
func NewServer(roaster Roaster, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "pushclash",
			Version: build.Version(),
		}, nil),
		roaster: roaster,
		log:     log.With("component", "mcp"),
	}
	s.registerTools()

	return s
}

// Run serves the MCP protocol on transport until ctx is done or the peer
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "roast_leetcode_profile",
		Description: "Fetch a public LeetCode profile and return a " +
			"humorous roast of it together with the profile stats",
	}, s.handleRoastProfile)
}
