// Package stt implements speech recognition using the OpenAI Whisper API.
package stt

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/thamam/talk-to-me-claude-cli/core"
	audioutil "github.com/thamam/talk-to-me-claude-cli/utils/audio"
)

const providerName = "openai"

// defaultListenDuration is used when Listen is called with no duration.
const defaultListenDuration = 10 * time.Second

// OpenAISTTConfig holds configuration for the OpenAI STT service.
type OpenAISTTConfig struct {
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// OpenAISTT implements the Transcriber interface using the Whisper
// transcription endpoint.
type OpenAISTT struct {
	config OpenAISTTConfig
	client *openai.Client
	logger *core.Logger
}

// NewOpenAISTT creates a new OpenAI STT service with the provided config.
func NewOpenAISTT(config OpenAISTTConfig, logger *core.Logger) *OpenAISTT {
	if config.Model == "" {
		config.Model = openai.Whisper1
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &OpenAISTT{
		config: config,
		client: openai.NewClient(config.APIKey),
		logger: logger,
	}
}

// Transcribe sends an audio file to Whisper and returns the transcript.
func (o *OpenAISTT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if o.config.APIKey == "" {
		return "", core.ProviderErrorf(providerName, errors.New("OPENAI_API_KEY not set"), "missing API key")
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.config.Model,
		FilePath: audioPath,
		Language: o.config.Language,
	})
	if err != nil {
		return "", core.ProviderErrorf(providerName, err, "transcription request failed")
	}

	text := strings.TrimSpace(resp.Text)
	o.logger.Debugf("Provider openai: transcribed %d chars from %s", len(text), audioPath)
	return text, nil
}

// Listen records from the microphone for the given duration and transcribes
// the result. A zero duration records for ten seconds.
func (o *OpenAISTT) Listen(ctx context.Context, duration time.Duration) (string, error) {
	if duration <= 0 {
		duration = defaultListenDuration
	}
	path, cleanup, err := audioutil.RecordTemp(ctx, duration)
	if err != nil {
		return "", core.ProviderErrorf(providerName, err, "recording failed")
	}
	defer cleanup()
	return o.Transcribe(ctx, path)
}
