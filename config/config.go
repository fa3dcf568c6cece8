// Package config loads the process-wide configuration: provider credentials
// and the default voice settings template new sessions inherit. Values come
// from an optional settings.json overlaid by environment variables, read
// once at startup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/thamam/talk-to-me-claude-cli/narration"
	"github.com/thamam/talk-to-me-claude-cli/session"
)

// Keys holds provider API credentials. They never appear in resource reads
// or logs.
type Keys struct {
	OpenAI     string `json:"openai_api_key,omitempty"`
	ElevenLabs string `json:"elevenlabs_api_key,omitempty"`
}

// Config is the top-level process configuration.
type Config struct {
	// Defaults seeds the Settings record of every new session.
	Defaults session.Settings `json:"defaults"`

	// Keys carries provider credentials.
	Keys Keys `json:"keys"`

	// STTModel is the transcription model hint (API model name for cloud
	// providers, model file path for whisper.cpp).
	STTModel string `json:"stt_model,omitempty"`

	// LogLevel selects the logger: "development" or "production".
	LogLevel string `json:"log_level,omitempty"`
}

// Default returns a Config pre-filled with the session defaults.
func Default() Config {
	return Config{
		Defaults: session.DefaultSettings(),
		STTModel: "whisper-1",
	}
}

// FromJSON parses a JSON blob into a Config, filling unset fields from the
// defaults.
func FromJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.Defaults.TTSSpeed == 0 {
		cfg.Defaults.TTSSpeed = 1.0
	}
	return cfg, nil
}

// FromFile reads and parses a Config from a JSON file. A missing file is
// not an error: the defaults apply.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), err
	}
	return FromJSON(data)
}

// Load builds the effective Config: settings.json (when present at path)
// overlaid by environment variables. Environment always wins so a hook
// script can steer a single invocation.
func Load(path string) (Config, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TTS_PROVIDER"); v != "" {
		cfg.Defaults.TTSProvider = strings.ToLower(v)
	}
	if v := os.Getenv("TTS_VOICE"); v != "" {
		cfg.Defaults.TTSVoice = v
	}
	if v := os.Getenv("TTS_SPEED"); v != "" {
		if speed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Defaults.TTSSpeed = speed
		}
	}
	if v := os.Getenv("STT_PROVIDER"); v != "" {
		cfg.Defaults.STTProvider = strings.ToLower(v)
	}
	if v := os.Getenv("STT_LANGUAGE"); v != "" {
		cfg.Defaults.STTLanguage = v
	}
	if v := os.Getenv("STT_MODEL"); v != "" {
		cfg.STTModel = v
	}
	if v := os.Getenv("NARRATION_ENABLED"); v != "" {
		cfg.Defaults.NarrationEnabled = parseBool(v)
	}
	if v := os.Getenv("AUTO_SPEAK"); v != "" {
		cfg.Defaults.AutoSpeak = parseBool(v)
	}
	if v := os.Getenv("NARRATION_VERBOSITY"); v != "" {
		// Malformed values keep the prior default; startup configuration is
		// best-effort, unlike explicit settings updates.
		if verbosity, err := narration.ParseVerbosity(strings.ToLower(v)); err == nil {
			cfg.Defaults.Verbosity = verbosity
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Keys.ElevenLabs = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
