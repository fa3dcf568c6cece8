// Package tts implements speech synthesis against the OpenAI audio API.
package tts

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"

	"github.com/thamam/talk-to-me-claude-cli/core"
	audioutil "github.com/thamam/talk-to-me-claude-cli/utils/audio"
)

const providerName = "openai"

// OpenAITTSConfig holds configuration for the OpenAI TTS service.
type OpenAITTSConfig struct {
	APIKey string  `json:"api_key"`
	Voice  string  `json:"voice"`
	Model  string  `json:"model"`
	Speed  float64 `json:"speed"`
}

// OpenAITTS synthesizes speech through the OpenAI /audio/speech endpoint.
// Audio comes back as a complete MP3 clip, not a stream.
type OpenAITTS struct {
	config OpenAITTSConfig
	client *openai.Client
	logger *core.Logger
}

// NewOpenAITTS creates a new OpenAI TTS service with the provided config.
func NewOpenAITTS(config OpenAITTSConfig, logger *core.Logger) *OpenAITTS {
	if config.Voice == "" {
		config.Voice = string(openai.VoiceNova)
	}
	if config.Model == "" {
		config.Model = string(openai.TTSModel1)
	}
	if config.Speed == 0 {
		config.Speed = 1.0
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &OpenAITTS{
		config: config,
		client: openai.NewClient(config.APIKey),
		logger: logger,
	}
}

// Synthesize renders text to an MP3 clip.
func (o *OpenAITTS) Synthesize(ctx context.Context, text string) (core.AudioClip, error) {
	if text == "" {
		return core.AudioClip{}, core.ProviderErrorf(providerName, errors.New("empty input"), "nothing to synthesize")
	}
	if o.config.APIKey == "" {
		return core.AudioClip{}, core.ProviderErrorf(providerName, errors.New("OPENAI_API_KEY not set"), "missing API key")
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.config.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          o.config.Speed,
	})
	if err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "speech request failed")
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "read speech response")
	}

	o.logger.Debugf("OpenAI TTS: synthesized %d bytes for %d chars", len(data), len(text))
	return core.AudioClip{Data: data, Format: core.MP3}, nil
}

// Speak synthesizes text and plays it, returning when playback finishes.
func (o *OpenAITTS) Speak(ctx context.Context, text string) error {
	clip, err := o.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if err := audioutil.PlayClip(ctx, clip); err != nil {
		return core.ProviderErrorf(providerName, err, "playback failed")
	}
	return nil
}
