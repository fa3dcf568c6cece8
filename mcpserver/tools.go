package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/narration"
	"github.com/thamam/talk-to-me-claude-cli/session"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Append a message to the conversation. Assistant messages have their narration extracted and optionally spoken aloud."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message content. May contain voice narration markup."),
		),
		mcp.WithString("role",
			mcp.Description("Message author, defaults to user."),
			mcp.Enum("user", "assistant"),
		),
		mcp.WithBoolean("use_voice",
			mcp.Description("Speak the extracted narration. Defaults to the session's auto_speak setting."),
		),
		mcp.WithString("session_id",
			mcp.Description("Target session. Omit for the current session."),
		),
	), s.handleSendMessage)

	s.mcp.AddTool(mcp.NewTool("get_conversation_history",
		mcp.WithDescription("Return conversation messages, most recent last."),
		mcp.WithNumber("limit",
			mcp.Description("Return only the trailing N messages. Must be positive when given."),
		),
		mcp.WithString("session_id",
			mcp.Description("Target session. Omit for the current session."),
		),
	), s.handleGetHistory)

	s.mcp.AddTool(mcp.NewTool("clear_conversation",
		mcp.WithDescription("Empty the conversation history. Settings and the session itself survive."),
		mcp.WithString("session_id",
			mcp.Description("Target session. Omit for the current session."),
		),
	), s.handleClearConversation)

	s.mcp.AddTool(mcp.NewTool("set_voice_settings",
		mcp.WithDescription("Update voice settings. Omitted fields keep their current values; an invalid value rejects the whole update."),
		mcp.WithString("tts_provider",
			mcp.Description("Speech synthesis provider."),
			mcp.Enum(session.TTSProviderOpenAI, session.TTSProviderElevenLabs, session.TTSProviderLocal),
		),
		mcp.WithString("tts_voice",
			mcp.Description("Voice identifier, provider specific."),
		),
		mcp.WithNumber("tts_speed",
			mcp.Description("Speed multiplier between 0.25 and 4.0."),
		),
		mcp.WithString("stt_provider",
			mcp.Description("Speech recognition provider."),
			mcp.Enum(session.STTProviderOpenAI, session.STTProviderLocal, session.STTProviderMacOS),
		),
		mcp.WithString("stt_language",
			mcp.Description("Language hint for recognition, e.g. en."),
		),
		mcp.WithBoolean("narration_enabled",
			mcp.Description("Master switch for spoken narration."),
		),
		mcp.WithBoolean("auto_speak",
			mcp.Description("Speak assistant narration without an explicit use_voice flag."),
		),
		mcp.WithString("verbosity",
			mcp.Description("How much the narration should say."),
			mcp.Enum("brief", "medium", "detailed"),
		),
		mcp.WithString("session_id",
			mcp.Description("Target session. Omit for the current session."),
		),
	), s.handleSetSettings)

	s.mcp.AddTool(mcp.NewTool("get_voice_settings",
		mcp.WithDescription("Return the session's voice settings."),
		mcp.WithString("session_id",
			mcp.Description("Target session. Omit for the current session."),
		),
	), s.handleGetSettings)

	s.mcp.AddTool(mcp.NewTool("listen",
		mcp.WithDescription("Record from the microphone and return the transcript. Blocks for the duration of the capture."),
		mcp.WithNumber("duration",
			mcp.Description("Capture length in seconds. Defaults to 10."),
		),
		mcp.WithString("session_id",
			mcp.Description("Target session. Omit for the current session."),
		),
	), s.handleListen)
}

func (s *Server) handleSendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return s.errResult(core.InvalidArgumentf("text is required")), nil
	}
	role, err := session.ParseRole(req.GetString("role", string(session.RoleUser)))
	if err != nil {
		return s.errResult(err), nil
	}

	snap := s.sessions.GetOrCreate(req.GetString("session_id", ""))
	settings := snap.Settings

	var narr string
	spoken := false
	if role == session.RoleAssistant {
		if raw, ok := narration.Extract(text); ok {
			narr = narration.Sanitize(raw)
		}
		useVoice := req.GetBool("use_voice", settings.AutoSpeak)
		if narr != "" && useVoice && settings.NarrationEnabled {
			s.voice.Speak(narr, settings)
			spoken = true
		}
	}

	msg, err := s.sessions.AppendMessage(snap.SessionID, role, text, narr)
	if err != nil {
		return s.errResult(err), nil
	}

	return s.jsonResult(map[string]interface{}{
		"session_id": snap.SessionID,
		"message":    msg,
		"spoken":     spoken,
	}), nil
}

func (s *Server) handleGetHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 0
	if _, given := req.GetArguments()["limit"]; given {
		limit = req.GetInt("limit", 0)
		if limit <= 0 {
			return s.errResult(core.InvalidArgumentf("limit must be positive, got %d", limit)), nil
		}
	}

	snap := s.sessions.GetOrCreate(req.GetString("session_id", ""))
	history, err := s.sessions.History(snap.SessionID, limit)
	if err != nil {
		return s.errResult(err), nil
	}

	return s.jsonResult(map[string]interface{}{
		"session_id": snap.SessionID,
		"messages":   history,
		"count":      len(history),
	}), nil
}

func (s *Server) handleClearConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.sessions.GetOrCreate(req.GetString("session_id", ""))
	removed := s.sessions.Clear(snap.SessionID)
	return s.jsonResult(map[string]interface{}{
		"session_id": snap.SessionID,
		"removed":    removed,
	}), nil
}

func (s *Server) handleSetSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var patch session.SettingsPatch
	if v, ok := args["tts_provider"].(string); ok {
		patch.TTSProvider = &v
	}
	if v, ok := args["tts_voice"].(string); ok {
		patch.TTSVoice = &v
	}
	if v, ok := args["tts_speed"].(float64); ok {
		patch.TTSSpeed = &v
	}
	if v, ok := args["stt_provider"].(string); ok {
		patch.STTProvider = &v
	}
	if v, ok := args["stt_language"].(string); ok {
		patch.STTLanguage = &v
	}
	if v, ok := args["narration_enabled"].(bool); ok {
		patch.NarrationEnabled = &v
	}
	if v, ok := args["auto_speak"].(bool); ok {
		patch.AutoSpeak = &v
	}
	if v, ok := args["verbosity"].(string); ok {
		patch.Verbosity = &v
	}

	snap := s.sessions.GetOrCreate(req.GetString("session_id", ""))
	settings, err := s.sessions.UpdateSettings(snap.SessionID, patch)
	if err != nil {
		return s.errResult(err), nil
	}

	return s.jsonResult(map[string]interface{}{
		"session_id": snap.SessionID,
		"settings":   settings,
	}), nil
}

func (s *Server) handleGetSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.sessions.GetOrCreate(req.GetString("session_id", ""))
	return s.jsonResult(map[string]interface{}{
		"session_id": snap.SessionID,
		"settings":   snap.Settings,
	}), nil
}

func (s *Server) handleListen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var duration time.Duration
	if _, given := req.GetArguments()["duration"]; given {
		secs := req.GetFloat("duration", 0)
		if secs <= 0 {
			return s.errResult(core.InvalidArgumentf("duration must be positive, got %v", secs)), nil
		}
		duration = time.Duration(secs * float64(time.Second))
	}

	snap := s.sessions.GetOrCreate(req.GetString("session_id", ""))
	transcript, err := s.voice.Listen(ctx, snap.SessionID, duration, snap.Settings)
	if err != nil {
		return s.errResult(err), nil
	}

	return s.jsonResult(map[string]interface{}{
		"session_id": snap.SessionID,
		"transcript": transcript,
	}), nil
}
