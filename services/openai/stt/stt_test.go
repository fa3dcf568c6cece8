package stt

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

func TestNewOpenAISTTDefaults(t *testing.T) {
	svc := NewOpenAISTT(OpenAISTTConfig{APIKey: "key"}, nil)
	assert.Equal(t, openai.Whisper1, svc.config.Model)
}

func TestTranscribeMissingAPIKey(t *testing.T) {
	svc := NewOpenAISTT(OpenAISTTConfig{}, nil)
	_, err := svc.Transcribe(context.Background(), "/tmp/in.wav")
	require.Error(t, err)
	assert.Equal(t, core.KindProviderError, core.KindOf(err))
	assert.Contains(t, err.Error(), "API key")
}
