// Package session holds per-conversation state: ordered message history and
// the voice settings that control narration for that conversation. Sessions
// live in memory only and die with the process.
package session

import (
	"time"

	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/narration"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", core.InvalidArgumentf("unknown role %q (expected user or assistant)", s)
	}
}

// TTS provider names accepted in Settings.
const (
	TTSProviderOpenAI     = "openai"
	TTSProviderElevenLabs = "elevenlabs"
	TTSProviderLocal      = "local"
)

// STT provider names accepted in Settings.
const (
	STTProviderOpenAI = "openai"
	STTProviderLocal  = "local"
	STTProviderMacOS  = "macos"
)

// Speed multiplier bounds for synthesis.
const (
	MinTTSSpeed = 0.25
	MaxTTSSpeed = 4.0
)

// Message is a single immutable entry in a conversation. Narration records
// the sanitized spoken summary extracted from the content, when any.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Narration string    `json:"narration,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Settings are the per-session voice knobs. Exactly one Settings record
// exists per session; it is seeded from the process-wide defaults at
// creation and changes only through explicit updates.
type Settings struct {
	TTSProvider      string              `json:"tts_provider"`
	TTSVoice         string              `json:"tts_voice"`
	TTSSpeed         float64             `json:"tts_speed"`
	STTProvider      string              `json:"stt_provider"`
	STTLanguage      string              `json:"stt_language,omitempty"`
	NarrationEnabled bool                `json:"narration_enabled"`
	AutoSpeak        bool                `json:"auto_speak"`
	Verbosity        narration.Verbosity `json:"verbosity"`
}

// DefaultSettings mirrors the defaults the installer documents: local TTS
// so a fresh install makes no network calls, Whisper for transcription.
func DefaultSettings() Settings {
	return Settings{
		TTSProvider:      TTSProviderLocal,
		TTSVoice:         "default",
		TTSSpeed:         1.0,
		STTProvider:      STTProviderOpenAI,
		NarrationEnabled: true,
		AutoSpeak:        true,
		Verbosity:        narration.VerbosityMedium,
	}
}

// SettingsPatch is a partial settings update. Nil fields keep their prior
// values. Validate must pass before any field is applied.
type SettingsPatch struct {
	TTSProvider      *string  `json:"tts_provider,omitempty"`
	TTSVoice         *string  `json:"tts_voice,omitempty"`
	TTSSpeed         *float64 `json:"tts_speed,omitempty"`
	STTProvider      *string  `json:"stt_provider,omitempty"`
	STTLanguage      *string  `json:"stt_language,omitempty"`
	NarrationEnabled *bool    `json:"narration_enabled,omitempty"`
	AutoSpeak        *bool    `json:"auto_speak,omitempty"`
	Verbosity        *string  `json:"verbosity,omitempty"`
}

// Validate checks every populated field. It reports the first violation and
// nothing is considered applied on failure.
func (p SettingsPatch) Validate() error {
	if p.TTSProvider != nil {
		switch *p.TTSProvider {
		case TTSProviderOpenAI, TTSProviderElevenLabs, TTSProviderLocal:
		default:
			return core.InvalidArgumentf("unknown tts_provider %q (expected openai, elevenlabs or local)", *p.TTSProvider)
		}
	}
	if p.TTSSpeed != nil && (*p.TTSSpeed < MinTTSSpeed || *p.TTSSpeed > MaxTTSSpeed) {
		return core.InvalidArgumentf("tts_speed %.2f out of range [%.2f, %.2f]", *p.TTSSpeed, MinTTSSpeed, MaxTTSSpeed)
	}
	if p.STTProvider != nil {
		switch *p.STTProvider {
		case STTProviderOpenAI, STTProviderLocal, STTProviderMacOS:
		default:
			return core.InvalidArgumentf("unknown stt_provider %q (expected openai, local or macos)", *p.STTProvider)
		}
	}
	if p.Verbosity != nil {
		if _, err := narration.ParseVerbosity(*p.Verbosity); err != nil {
			return err
		}
	}
	return nil
}

// IsZero reports whether the patch carries no fields at all.
func (p SettingsPatch) IsZero() bool {
	return p.TTSProvider == nil && p.TTSVoice == nil && p.TTSSpeed == nil &&
		p.STTProvider == nil && p.STTLanguage == nil &&
		p.NarrationEnabled == nil && p.AutoSpeak == nil && p.Verbosity == nil
}

// apply merges the patch onto s. Callers must have validated the patch.
func (p SettingsPatch) apply(s *Settings) {
	if p.TTSProvider != nil {
		s.TTSProvider = *p.TTSProvider
	}
	if p.TTSVoice != nil {
		s.TTSVoice = *p.TTSVoice
	}
	if p.TTSSpeed != nil {
		s.TTSSpeed = *p.TTSSpeed
	}
	if p.STTProvider != nil {
		s.STTProvider = *p.STTProvider
	}
	if p.STTLanguage != nil {
		s.STTLanguage = *p.STTLanguage
	}
	if p.NarrationEnabled != nil {
		s.NarrationEnabled = *p.NarrationEnabled
	}
	if p.AutoSpeak != nil {
		s.AutoSpeak = *p.AutoSpeak
	}
	if p.Verbosity != nil {
		s.Verbosity = narration.Verbosity(*p.Verbosity)
	}
}

// Session is a single conversation: append-only history plus its settings.
// All access goes through the Manager, which serializes mutation.
type Session struct {
	ID           string
	History      []Message
	Settings     Settings
	CreatedAt    time.Time
	LastActivity time.Time
}

// Snapshot is the JSON shape of a session exposed through resource reads.
type Snapshot struct {
	SessionID    string    `json:"session_id"`
	History      []Message `json:"history"`
	Settings     Settings  `json:"settings"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// snapshot copies the session into its serializable form. The history slice
// is copied so the caller cannot observe later appends.
func (s *Session) snapshot() Snapshot {
	history := make([]Message, len(s.History))
	copy(history, s.History)
	return Snapshot{
		SessionID:    s.ID,
		History:      history,
		Settings:     s.Settings,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
	}
}
