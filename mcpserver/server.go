// Package mcpserver exposes the session and voice operations to an MCP host
// over stdio. Tools carry all mutations; resources are pure reads of session
// state. Every tool response is a JSON payload or a single JSON error object.
package mcpserver

import (
	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/session"
	"github.com/thamam/talk-to-me-claude-cli/voice"
)

const (
	// ServerName identifies this server to MCP hosts.
	ServerName = "talk-to-me-claude"
	// Version is reported during the MCP handshake.
	Version = "1.0.0"
)

// Server wires the session manager and voice controller into an MCP server.
type Server struct {
	cfg      config.Config
	logger   *core.Logger
	sessions *session.Manager
	voice    *voice.Controller
	mcp      *server.MCPServer
}

// New builds the server and registers every tool and resource.
func New(cfg config.Config, sessions *session.Manager, voiceCtl *voice.Controller, logger *core.Logger) *Server {
	if logger == nil {
		logger = core.GetLogger()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		voice:    voiceCtl,
	}
	s.mcp = server.NewMCPServer(
		ServerName,
		Version,
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdin/stdout until the host disconnects.
func (s *Server) Run() error {
	s.logger.Infof("MCP: serving %s %s over stdio", ServerName, Version)
	return server.ServeStdio(s.mcp)
}

// jsonResult marshals a success payload into a tool result.
func (s *Server) jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := sonic.Marshal(v)
	if err != nil {
		return s.errResult(core.Internalf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// errResult converts any error into the wire error shape
// {"error": {"kind": ..., "message": ...}}.
func (s *Server) errResult(err error) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"error": map[string]string{
			"kind":    string(core.KindOf(err)),
			"message": err.Error(),
		},
	}
	data, mErr := sonic.Marshal(payload)
	if mErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}
