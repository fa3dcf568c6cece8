// Package stt implements speech recognition through the macOS Speech
// framework via the hear command-line tool. It is only usable on darwin.
package stt

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/thamam/talk-to-me-claude-cli/core"
	audioutil "github.com/thamam/talk-to-me-claude-cli/utils/audio"
)

const providerName = "macos"

const defaultListenDuration = 10 * time.Second

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// MacOSSTTConfig holds configuration for the macOS STT service.
type MacOSSTTConfig struct {
	// Locale such as "en-US". Empty uses the system locale.
	Locale string `json:"locale"`
	// OnDevice forces on-device recognition instead of Apple's servers.
	OnDevice bool `json:"on_device"`
}

// MacOSSTT implements the Transcriber interface using the hear CLI, which
// wraps SFSpeechRecognizer.
type MacOSSTT struct {
	config MacOSSTTConfig
	logger *core.Logger
}

// NewMacOSSTT creates a new macOS STT service with the provided config.
func NewMacOSSTT(config MacOSSTTConfig, logger *core.Logger) *MacOSSTT {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &MacOSSTT{config: config, logger: logger}
}

func (m *MacOSSTT) findBinary() (string, error) {
	if runtime.GOOS != "darwin" {
		return "", errors.New("macOS speech recognition is only available on darwin")
	}
	bin, err := lookPath("hear")
	if err != nil {
		return "", errors.New("hear not found (brew install hear)")
	}
	return bin, nil
}

func (m *MacOSSTT) baseArgs() []string {
	var args []string
	if m.config.Locale != "" {
		args = append(args, "-l", m.config.Locale)
	}
	if m.config.OnDevice {
		args = append(args, "-d")
	}
	return args
}

// Transcribe runs hear against an audio file and returns the transcript.
func (m *MacOSSTT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	bin, err := m.findBinary()
	if err != nil {
		return "", core.ProviderErrorf(providerName, err, "engine unavailable")
	}

	args := append(m.baseArgs(), "-i", audioPath)
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", core.ProviderErrorf(providerName,
				fmt.Errorf("%w: %s", err, string(exitErr.Stderr)), "transcription failed")
		}
		return "", core.ProviderErrorf(providerName, err, "transcription failed")
	}

	text := strings.TrimSpace(string(out))
	m.logger.Debugf("Provider macos: transcribed %d chars from %s", len(text), audioPath)
	return text, nil
}

// Listen records from the microphone for the given duration and transcribes
// the result. A zero duration records for ten seconds.
func (m *MacOSSTT) Listen(ctx context.Context, duration time.Duration) (string, error) {
	if duration <= 0 {
		duration = defaultListenDuration
	}
	path, cleanup, err := audioutil.RecordTemp(ctx, duration)
	if err != nil {
		return "", core.ProviderErrorf(providerName, err, "recording failed")
	}
	defer cleanup()
	return m.Transcribe(ctx, path)
}
