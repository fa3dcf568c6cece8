package factories

import (
	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/session"
	localstt "github.com/thamam/talk-to-me-claude-cli/services/local/stt"
	macosstt "github.com/thamam/talk-to-me-claude-cli/services/macos/stt"
	oastt "github.com/thamam/talk-to-me-claude-cli/services/openai/stt"
)

// BuildTranscriber creates the STT service selected by the session settings.
func BuildTranscriber(cfg config.Config, s session.Settings, logger *core.Logger) (core.Transcriber, error) {
	switch s.STTProvider {
	case session.STTProviderOpenAI:
		return oastt.NewOpenAISTT(oastt.OpenAISTTConfig{
			APIKey:   cfg.Keys.OpenAI,
			Model:    cfg.STTModel,
			Language: s.STTLanguage,
		}, logger), nil
	case session.STTProviderLocal:
		return localstt.NewLocalSTT(localstt.LocalSTTConfig{
			Language: s.STTLanguage,
		}, logger), nil
	case session.STTProviderMacOS:
		return macosstt.NewMacOSSTT(macosstt.MacOSSTTConfig{
			Locale: s.STTLanguage,
		}, logger), nil
	default:
		return nil, core.InvalidArgumentf("unknown STT provider %q", s.STTProvider)
	}
}
