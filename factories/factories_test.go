package factories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/session"
)

func TestBuildSynthesizer(t *testing.T) {
	cfg := config.Default()
	logger := core.NewDevelopmentLogger()

	for _, provider := range []string{
		session.TTSProviderOpenAI,
		session.TTSProviderElevenLabs,
		session.TTSProviderLocal,
	} {
		t.Run(provider, func(t *testing.T) {
			s := session.DefaultSettings()
			s.TTSProvider = provider
			synth, err := BuildSynthesizer(cfg, s, logger)
			require.NoError(t, err)
			assert.NotNil(t, synth)
		})
	}
}

func TestBuildSynthesizerUnknownProvider(t *testing.T) {
	s := session.DefaultSettings()
	s.TTSProvider = "polly"
	_, err := BuildSynthesizer(config.Default(), s, core.NewDevelopmentLogger())
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}

func TestBuildTranscriber(t *testing.T) {
	cfg := config.Default()
	logger := core.NewDevelopmentLogger()

	for _, provider := range []string{
		session.STTProviderOpenAI,
		session.STTProviderLocal,
		session.STTProviderMacOS,
	} {
		t.Run(provider, func(t *testing.T) {
			s := session.DefaultSettings()
			s.STTProvider = provider
			trans, err := BuildTranscriber(cfg, s, logger)
			require.NoError(t, err)
			assert.NotNil(t, trans)
		})
	}
}

func TestBuildTranscriberUnknownProvider(t *testing.T) {
	s := session.DefaultSettings()
	s.STTProvider = "deepgram"
	_, err := BuildTranscriber(config.Default(), s, core.NewDevelopmentLogger())
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}
