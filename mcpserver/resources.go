package mcpserver

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
)

const sessionURIPrefix = "session-state://session/"

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		"session-state://current",
		"Current Session",
		mcp.WithResourceDescription("Full state of the current session: history, settings, timestamps."),
		mcp.WithMIMEType("application/json"),
	), s.readCurrentSession)

	s.mcp.AddResource(mcp.NewResource(
		"session-state://history",
		"Conversation History",
		mcp.WithResourceDescription("Messages of the current session, most recent last."),
		mcp.WithMIMEType("application/json"),
	), s.readHistory)

	s.mcp.AddResource(mcp.NewResource(
		"session-state://settings",
		"Voice Settings",
		mcp.WithResourceDescription("Voice settings of the current session."),
		mcp.WithMIMEType("application/json"),
	), s.readSettings)

	s.mcp.AddResourceTemplate(mcp.NewResourceTemplate(
		"session-state://session/{id}",
		"Session by ID",
		mcp.WithTemplateDescription("Full state of a specific session. Fails for unknown ids."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readSessionByID)
}

func (s *Server) jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	data, err := sonic.Marshal(v)
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

func (s *Server) readCurrentSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap := s.sessions.GetOrCreate("")
	return s.jsonContents(req.Params.URI, snap)
}

func (s *Server) readHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap := s.sessions.GetOrCreate("")
	return s.jsonContents(req.Params.URI, map[string]interface{}{
		"session_id": snap.SessionID,
		"messages":   snap.History,
		"count":      len(snap.History),
	})
}

func (s *Server) readSettings(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap := s.sessions.GetOrCreate("")
	return s.jsonContents(req.Params.URI, map[string]interface{}{
		"session_id": snap.SessionID,
		"settings":   snap.Settings,
	})
}

func (s *Server) readSessionByID(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := strings.TrimPrefix(req.Params.URI, sessionURIPrefix)
	snap, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return s.jsonContents(req.Params.URI, snap)
}
