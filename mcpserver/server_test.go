package mcpserver

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/session"
	"github.com/thamam/talk-to-me-claude-cli/voice"
)

func newTestServer() *Server {
	cfg := config.Default()
	logger := core.NewDevelopmentLogger()
	sessions := session.NewManager(cfg.Defaults)
	return New(cfg, sessions, voice.NewController(cfg, logger), logger)
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultJSON unmarshals the single text content of a tool result.
func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var payload map[string]interface{}
	require.NoError(t, sonic.Unmarshal([]byte(tc.Text), &payload))
	return payload
}

func errorKind(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	payload := resultJSON(t, res)
	errObj, ok := payload["error"].(map[string]interface{})
	require.True(t, ok, "expected an error object, got %v", payload)
	kind, _ := errObj["kind"].(string)
	return kind
}

func TestSendMessage(t *testing.T) {
	s := newTestServer()

	res, err := s.handleSendMessage(context.Background(), toolRequest(map[string]interface{}{
		"text":       "hello",
		"session_id": "s1",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	payload := resultJSON(t, res)
	assert.Equal(t, "s1", payload["session_id"])
	msg := payload["message"].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "hello", msg["content"])
	assert.Equal(t, false, payload["spoken"])
}

func TestSendMessageExtractsNarration(t *testing.T) {
	s := newTestServer()

	res, err := s.handleSendMessage(context.Background(), toolRequest(map[string]interface{}{
		"text":       "done\n<voice_narration>I fixed the bug</voice_narration>",
		"role":       "assistant",
		"use_voice":  false,
		"session_id": "s1",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	payload := resultJSON(t, res)
	msg := payload["message"].(map[string]interface{})
	assert.Equal(t, "I fixed the bug", msg["narration"])
	assert.Equal(t, false, payload["spoken"])
}

func TestSendMessageValidation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "missing text", args: map[string]interface{}{"role": "user"}},
		{name: "bad role", args: map[string]interface{}{"text": "x", "role": "system"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleSendMessage(context.Background(), toolRequest(tt.args))
			require.NoError(t, err)
			assert.Equal(t, string(core.KindInvalidArgument), errorKind(t, res))
		})
	}
}

func TestGetHistory(t *testing.T) {
	s := newTestServer()
	for _, text := range []string{"one", "two", "three"} {
		_, err := s.handleSendMessage(context.Background(), toolRequest(map[string]interface{}{
			"text": text, "session_id": "s1",
		}))
		require.NoError(t, err)
	}

	res, err := s.handleGetHistory(context.Background(), toolRequest(map[string]interface{}{
		"limit": 2.0, "session_id": "s1",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, res)
	assert.Equal(t, float64(2), payload["count"])
	msgs := payload["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].(map[string]interface{})["content"])
	assert.Equal(t, "three", msgs[1].(map[string]interface{})["content"])
}

func TestGetHistoryRejectsNonPositiveLimit(t *testing.T) {
	s := newTestServer()
	for _, limit := range []float64{0, -3} {
		res, err := s.handleGetHistory(context.Background(), toolRequest(map[string]interface{}{
			"limit": limit, "session_id": "s1",
		}))
		require.NoError(t, err)
		assert.Equal(t, string(core.KindInvalidArgument), errorKind(t, res))
	}
}

func TestClearConversation(t *testing.T) {
	s := newTestServer()
	_, err := s.handleSendMessage(context.Background(), toolRequest(map[string]interface{}{
		"text": "hello", "session_id": "s1",
	}))
	require.NoError(t, err)

	res, err := s.handleClearConversation(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "s1",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, res)
	assert.Equal(t, float64(1), payload["removed"])

	// Clearing again removes nothing.
	res, err = s.handleClearConversation(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "s1",
	}))
	require.NoError(t, err)
	assert.Equal(t, float64(0), resultJSON(t, res)["removed"])
}

func TestSetVoiceSettings(t *testing.T) {
	s := newTestServer()

	res, err := s.handleSetSettings(context.Background(), toolRequest(map[string]interface{}{
		"tts_provider": "openai",
		"tts_voice":    "nova",
		"session_id":   "s1",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, res)
	settings := payload["settings"].(map[string]interface{})
	assert.Equal(t, "openai", settings["tts_provider"])
	assert.Equal(t, "nova", settings["tts_voice"])
	// Untouched fields keep their values.
	assert.Equal(t, float64(1.0), settings["tts_speed"])
}

func TestSetVoiceSettingsAllOrNothing(t *testing.T) {
	s := newTestServer()

	res, err := s.handleSetSettings(context.Background(), toolRequest(map[string]interface{}{
		"tts_voice":  "nova",
		"tts_speed":  5.0,
		"session_id": "s1",
	}))
	require.NoError(t, err)
	assert.Equal(t, string(core.KindInvalidArgument), errorKind(t, res))

	// Nothing from the rejected patch was applied.
	res, err = s.handleGetSettings(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "s1",
	}))
	require.NoError(t, err)
	settings := resultJSON(t, res)["settings"].(map[string]interface{})
	assert.Equal(t, session.DefaultSettings().TTSVoice, settings["tts_voice"])
	assert.Equal(t, float64(1.0), settings["tts_speed"])
}

func TestGetVoiceSettingsDefaults(t *testing.T) {
	s := newTestServer()
	res, err := s.handleGetSettings(context.Background(), toolRequest(map[string]interface{}{
		"session_id": "fresh",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, res)
	assert.Equal(t, "fresh", payload["session_id"])
	settings := payload["settings"].(map[string]interface{})
	assert.Equal(t, session.TTSProviderLocal, settings["tts_provider"])
	assert.Equal(t, true, settings["narration_enabled"])
}

func TestListenRejectsNonPositiveDuration(t *testing.T) {
	s := newTestServer()
	res, err := s.handleListen(context.Background(), toolRequest(map[string]interface{}{
		"duration": -1.0, "session_id": "s1",
	}))
	require.NoError(t, err)
	assert.Equal(t, string(core.KindInvalidArgument), errorKind(t, res))
}

func TestReadResources(t *testing.T) {
	s := newTestServer()
	_, err := s.handleSendMessage(context.Background(), toolRequest(map[string]interface{}{
		"text": "hello", "session_id": "s1",
	}))
	require.NoError(t, err)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "session-state://current"
	contents, err := s.readCurrentSession(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, "session-state://current", tc.URI)

	var snap map[string]interface{}
	require.NoError(t, sonic.Unmarshal([]byte(tc.Text), &snap))
	assert.Equal(t, "s1", snap["session_id"])
	assert.Len(t, snap["history"], 1)
}

func TestReadSessionByID(t *testing.T) {
	s := newTestServer()
	s.sessions.GetOrCreate("known")

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "session-state://session/known"
	contents, err := s.readSessionByID(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	req.Params.URI = "session-state://session/unknown"
	_, err = s.readSessionByID(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}
