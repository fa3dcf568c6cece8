// Package factories builds provider services from configuration, so the
// rest of the program deals only in the core interfaces.
package factories

import (
	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/session"
	eltts "github.com/thamam/talk-to-me-claude-cli/services/elevenlabs/tts"
	localtts "github.com/thamam/talk-to-me-claude-cli/services/local/tts"
	oatts "github.com/thamam/talk-to-me-claude-cli/services/openai/tts"
)

// BuildSynthesizer creates the TTS service selected by the session settings.
// It is called per request so settings changes take effect immediately.
func BuildSynthesizer(cfg config.Config, s session.Settings, logger *core.Logger) (core.Synthesizer, error) {
	switch s.TTSProvider {
	case session.TTSProviderOpenAI:
		return oatts.NewOpenAITTS(oatts.OpenAITTSConfig{
			APIKey: cfg.Keys.OpenAI,
			Voice:  s.TTSVoice,
			Speed:  s.TTSSpeed,
		}, logger), nil
	case session.TTSProviderElevenLabs:
		return eltts.NewElevenLabsTTS(eltts.ElevenLabsTTSConfig{
			APIKey:  cfg.Keys.ElevenLabs,
			VoiceID: eltts.ResolveVoiceID(s.TTSVoice),
			Speed:   s.TTSSpeed,
		}, logger), nil
	case session.TTSProviderLocal:
		return localtts.NewLocalTTS(localtts.LocalTTSConfig{
			Voice: s.TTSVoice,
			Speed: s.TTSSpeed,
		}, logger), nil
	default:
		return nil, core.InvalidArgumentf("unknown TTS provider %q", s.TTSProvider)
	}
}
