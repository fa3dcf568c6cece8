// Package tts implements speech synthesis against the ElevenLabs WebSocket
// streaming API. Each Synthesize call opens a connection, streams the text,
// and collects the generated audio into a single clip.
package tts

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/thamam/talk-to-me-claude-cli/core"
	audioutil "github.com/thamam/talk-to-me-claude-cli/utils/audio"
)

const providerName = "elevenlabs"

// ElevenLabsTTSConfig holds configuration for the ElevenLabs TTS service.
type ElevenLabsTTSConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id"`

	// Voice settings
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed"`

	// Output audio
	Encoding   core.AudioEncodingFormat `json:"-"`
	SampleRate int                      `json:"-"`
}

// voices maps friendly voice names to ElevenLabs voice IDs.
var voices = map[string]string{
	"adam":    "pNInz6obpgDQGcFmaJgB",
	"rachel":  "21m00Tcm4TlvDq8ikWAM",
	"domi":    "AZnzlk1XvdvUeBnXmlld",
	"bella":   "EXAVITQu4vr4xnSDxMaL",
	"antoni":  "ErXwobaYiN019PkySvjV",
	"josh":    "TxGEqnHWrfWFTfGW9XjX",
	"arnold":  "VR6AewLTigWG4xSOukaG",
	"callum":  "N2lVS1w4EtoT3dr4eOWO",
	"charlie": "IKne3meq5aSn9XLyUdCD",
}

// ResolveVoiceID maps a friendly voice name to its ID, passing through
// anything that is not a known name on the assumption it already is one.
func ResolveVoiceID(voice string) string {
	if id, ok := voices[voice]; ok {
		return id
	}
	return voice
}

// ElevenLabsTTS implements the Synthesizer interface over the ElevenLabs
// stream-input WebSocket API.
type ElevenLabsTTS struct {
	config ElevenLabsTTSConfig
	logger *core.Logger
}

// Client messages
type (
	// BOS (Beginning of Stream) - sent once on connect
	elBOSMessage struct {
		Text             string          `json:"text"`
		VoiceSettings    elVoiceSettings `json:"voice_settings"`
		GenerationConfig elGenConfig     `json:"generation_config"`
	}

	elVoiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
		Speed           float64 `json:"speed,omitempty"`
	}

	elGenConfig struct {
		ChunkLengthSchedule []int `json:"chunk_length_schedule"`
	}

	// Text chunk message
	elTextMessage struct {
		Text string `json:"text"`
	}
)

// Server messages
type (
	// Audio response from ElevenLabs (base64-encoded audio)
	elAudioMessage struct {
		Audio   string `json:"audio"`
		IsFinal bool   `json:"isFinal"`
	}

	// Error response
	elErrorMessage struct {
		Error   string `json:"error"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)

// NewElevenLabsTTS creates a new ElevenLabs TTS service with the provided config.
func NewElevenLabsTTS(config ElevenLabsTTSConfig, logger *core.Logger) *ElevenLabsTTS {
	if config.BaseURL == "" {
		config.BaseURL = "wss://api.elevenlabs.io/v1/text-to-speech"
	}
	if config.VoiceID == "" {
		config.VoiceID = voices["rachel"]
	}
	if config.ModelID == "" {
		config.ModelID = "eleven_turbo_v2_5"
	}
	if config.Stability == 0 {
		config.Stability = 0.5
	}
	if config.SimilarityBoost == 0 {
		config.SimilarityBoost = 0.75
	}
	if config.SampleRate == 0 {
		config.SampleRate = 24000
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &ElevenLabsTTS{config: config, logger: logger}
}

// outputFormatString converts config encoding + sample rate to the
// ElevenLabs output_format query parameter.
func outputFormatString(encoding core.AudioEncodingFormat, sampleRate int) string {
	switch encoding {
	case core.ULAW:
		return "ulaw_8000"
	case core.PCM:
		switch sampleRate {
		case 16000:
			return "pcm_16000"
		case 22050:
			return "pcm_22050"
		case 44100:
			return "pcm_44100"
		default:
			return "pcm_24000"
		}
	default:
		return "pcm_24000"
	}
}

// dialConnection performs a single WebSocket dial to ElevenLabs.
func (e *ElevenLabsTTS) dialConnection(ctx context.Context) (*websocket.Conn, error) {
	url := fmt.Sprintf("%s/%s/stream-input?model_id=%s&output_format=%s",
		e.config.BaseURL,
		e.config.VoiceID,
		e.config.ModelID,
		outputFormatString(e.config.Encoding, e.config.SampleRate),
	)

	headers := map[string][]string{
		"xi-api-key": {e.config.APIKey},
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn, nil
}

// sendJSON marshals and sends a JSON message over the WebSocket.
func (e *ElevenLabsTTS) sendJSON(conn *websocket.Conn, msg interface{}) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Synthesize streams text through the WebSocket API and collects the
// generated audio into one clip.
func (e *ElevenLabsTTS) Synthesize(ctx context.Context, text string) (core.AudioClip, error) {
	if text == "" {
		return core.AudioClip{}, core.ProviderErrorf(providerName, errors.New("empty input"), "nothing to synthesize")
	}
	if e.config.APIKey == "" {
		return core.AudioClip{}, core.ProviderErrorf(providerName, errors.New("ELEVENLABS_API_KEY not set"), "missing API key")
	}

	conn, err := e.dialConnection(ctx)
	if err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "failed to establish WebSocket connection")
	}
	defer func() {
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	// BOS, the text itself, then EOS (empty text) so ElevenLabs generates
	// everything and reports isFinal.
	bos := elBOSMessage{
		Text: " ",
		VoiceSettings: elVoiceSettings{
			Stability:       e.config.Stability,
			SimilarityBoost: e.config.SimilarityBoost,
			Speed:           e.config.Speed,
		},
		GenerationConfig: elGenConfig{
			ChunkLengthSchedule: []int{120, 160, 250, 290},
		},
	}
	if err := e.sendJSON(conn, bos); err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "failed to send BOS")
	}
	if err := e.sendJSON(conn, elTextMessage{Text: text + " "}); err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "failed to send text")
	}
	if err := e.sendJSON(conn, elTextMessage{Text: ""}); err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "failed to send EOS")
	}

	audio, err := e.collectAudio(ctx, conn)
	if err != nil {
		return core.AudioClip{}, err
	}

	e.logger.Debugf("ElevenLabs TTS: collected %d bytes for %d chars", len(audio), len(text))
	clip := core.AudioClip{
		Data:       audio,
		SampleRate: e.config.SampleRate,
		Channels:   1,
		Format:     e.config.Encoding,
	}
	if clip.Format == core.ULAW {
		clip.SampleRate = 8000
	}
	return clip, nil
}

// collectAudio reads messages until the server signals isFinal or the
// connection closes.
func (e *ElevenLabsTTS) collectAudio(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	var audio []byte
	for {
		select {
		case <-ctx.Done():
			return nil, core.ProviderErrorf(providerName, ctx.Err(), "synthesis cancelled")
		default:
		}

		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && len(audio) > 0 {
				// Some model versions close without a final marker.
				return audio, nil
			}
			return nil, core.ProviderErrorf(providerName, err, "read failed mid-generation")
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var errMsg elErrorMessage
		if sonic.Unmarshal(message, &errMsg) == nil && errMsg.Error != "" {
			return nil, core.ProviderErrorf(providerName,
				fmt.Errorf("%s (code %d)", errMsg.Message, errMsg.Code), "generation failed")
		}

		var audioMsg elAudioMessage
		if err := sonic.Unmarshal(message, &audioMsg); err != nil {
			e.logger.Warnf("ElevenLabs TTS: failed to parse message: %v", err)
			continue
		}
		if audioMsg.Audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(audioMsg.Audio)
			if err != nil {
				return nil, core.ProviderErrorf(providerName, err, "failed to decode audio")
			}
			audio = append(audio, chunk...)
		}
		if audioMsg.IsFinal {
			return audio, nil
		}
	}
}

// Speak synthesizes text and plays it, returning when playback finishes.
func (e *ElevenLabsTTS) Speak(ctx context.Context, text string) error {
	clip, err := e.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if err := audioutil.PlayClip(ctx, clip); err != nil {
		return core.ProviderErrorf(providerName, err, "playback failed")
	}
	return nil
}
