package mcp

import (
	"context"

	"readiness-mcp/internal/config"
	"readiness-mcp/internal/service"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const serverName = "readiness-mcp"

// Server exposes the readiness service as MCP tools.
type Server struct {
	cfg    *config.AppConfig
	svc    *service.Service
	server *mcp.Server
}

// NewServer creates the MCP server and registers its tools.
func NewServer(cfg *config.AppConfig, svc *service.Service, version string) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Start serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	log.Info().Msg("MCP Server starting Stdio loop")
	return s.Run(ctx, &mcp.StdioTransport{})
}

// Run serves MCP over an arbitrary transport.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}
