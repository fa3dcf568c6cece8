// Package tts implements speech synthesis using a locally installed
// command-line engine. On macOS this is the builtin say command; on Linux
// espeak-ng, espeak, or flite. No API key or network access is needed.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

const providerName = "local"

// baseWordsPerMinute is the rate that corresponds to speed 1.0.
const baseWordsPerMinute = 200

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// LocalTTSConfig holds configuration for the local TTS service.
type LocalTTSConfig struct {
	// Engine forces a specific binary. Empty means detect.
	Engine string `json:"engine"`
	// Voice is passed to the engine's voice flag when set.
	Voice string `json:"voice"`
	// Speed is a multiplier on the engine's default speaking rate.
	Speed float64 `json:"speed"`
}

// LocalTTS implements the Synthesizer interface by shelling out to a
// system speech engine.
type LocalTTS struct {
	config LocalTTSConfig
	logger *core.Logger
}

// NewLocalTTS creates a new local TTS service with the provided config.
func NewLocalTTS(config LocalTTSConfig, logger *core.Logger) *LocalTTS {
	if config.Speed == 0 {
		config.Speed = 1.0
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &LocalTTS{config: config, logger: logger}
}

func (l *LocalTTS) findEngine() (string, error) {
	candidates := []string{"say", "espeak-ng", "espeak", "flite"}
	if l.config.Engine != "" {
		candidates = []string{l.config.Engine}
	}
	for _, name := range candidates {
		if bin, err := lookPath(name); err == nil {
			return bin, nil
		}
	}
	return "", errors.New("no speech engine found (install espeak-ng or flite)")
}

func (l *LocalTTS) wordsPerMinute() int {
	return int(float64(baseWordsPerMinute) * l.config.Speed)
}

// speakArgs builds the argument list for live playback with the given engine.
func (l *LocalTTS) speakArgs(bin, text string) []string {
	switch filepath.Base(bin) {
	case "say":
		args := []string{"-r", strconv.Itoa(l.wordsPerMinute())}
		if l.config.Voice != "" {
			args = append(args, "-v", l.config.Voice)
		}
		return append(args, text)
	case "espeak", "espeak-ng":
		args := []string{"-s", strconv.Itoa(l.wordsPerMinute())}
		if l.config.Voice != "" {
			args = append(args, "-v", l.config.Voice)
		}
		return append(args, text)
	default: // flite
		return []string{"-t", text}
	}
}

// synthArgs builds the argument list for file output with the given engine.
func (l *LocalTTS) synthArgs(bin, text, outPath string) []string {
	switch filepath.Base(bin) {
	case "say":
		args := []string{"-r", strconv.Itoa(l.wordsPerMinute()), "-o", outPath, "--data-format=LEI16@22050"}
		if l.config.Voice != "" {
			args = append(args, "-v", l.config.Voice)
		}
		return append(args, text)
	case "espeak", "espeak-ng":
		args := []string{"-s", strconv.Itoa(l.wordsPerMinute()), "-w", outPath}
		if l.config.Voice != "" {
			args = append(args, "-v", l.config.Voice)
		}
		return append(args, text)
	default: // flite
		return []string{"-t", text, "-o", outPath}
	}
}

// Synthesize runs the engine with file output and returns the WAV bytes.
func (l *LocalTTS) Synthesize(ctx context.Context, text string) (core.AudioClip, error) {
	if text == "" {
		return core.AudioClip{}, core.ProviderErrorf(providerName, errors.New("empty input"), "nothing to synthesize")
	}
	bin, err := l.findEngine()
	if err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "engine unavailable")
	}

	f, err := os.CreateTemp("", "local-tts-*.wav")
	if err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "failed to create temp file")
	}
	outPath := f.Name()
	f.Close()
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, bin, l.synthArgs(bin, text, outPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName,
			fmt.Errorf("%w: %s", err, string(out)), "synthesis failed")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return core.AudioClip{}, core.ProviderErrorf(providerName, err, "failed to read output")
	}
	l.logger.Debugf("Provider local: synthesized %d bytes with %s", len(data), filepath.Base(bin))
	return core.AudioClip{Data: data, Channels: 1, Format: core.WAV}, nil
}

// Speak runs the engine directly against the audio device, which avoids the
// temp-file round trip Synthesize needs.
func (l *LocalTTS) Speak(ctx context.Context, text string) error {
	if text == "" {
		return core.ProviderErrorf(providerName, errors.New("empty input"), "nothing to speak")
	}
	bin, err := l.findEngine()
	if err != nil {
		return core.ProviderErrorf(providerName, err, "engine unavailable")
	}

	cmd := exec.CommandContext(ctx, bin, l.speakArgs(bin, text)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return core.ProviderErrorf(providerName,
			fmt.Errorf("%w: %s", err, string(out)), "playback failed")
	}
	return nil
}
