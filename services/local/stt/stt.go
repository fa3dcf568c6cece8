// Package stt implements speech recognition using a locally installed
// whisper.cpp binary. Recognition runs entirely offline; the only
// prerequisite is a downloaded ggml model file.
package stt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/thamam/talk-to-me-claude-cli/core"
	audioutil "github.com/thamam/talk-to-me-claude-cli/utils/audio"
)

const providerName = "local"

const defaultListenDuration = 10 * time.Second

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// LocalSTTConfig holds configuration for the local STT service.
type LocalSTTConfig struct {
	// Binary forces a specific whisper.cpp executable. Empty means detect.
	Binary string `json:"binary"`
	// ModelPath points at a ggml model file. Empty falls back to
	// ~/.cache/whisper/ggml-base.en.bin.
	ModelPath string `json:"model_path"`
	// Language hint, e.g. "en". Empty lets the model auto-detect.
	Language string `json:"language"`
}

// LocalSTT implements the Transcriber interface by shelling out to whisper.cpp.
type LocalSTT struct {
	config LocalSTTConfig
	logger *core.Logger
}

// NewLocalSTT creates a new local STT service with the provided config.
func NewLocalSTT(config LocalSTTConfig, logger *core.Logger) *LocalSTT {
	if config.ModelPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			config.ModelPath = filepath.Join(home, ".cache", "whisper", "ggml-base.en.bin")
		}
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &LocalSTT{config: config, logger: logger}
}

func (l *LocalSTT) findBinary() (string, error) {
	candidates := []string{"whisper-cli", "whisper-cpp", "whisper"}
	if l.config.Binary != "" {
		candidates = []string{l.config.Binary}
	}
	for _, name := range candidates {
		if bin, err := lookPath(name); err == nil {
			return bin, nil
		}
	}
	return "", errors.New("whisper.cpp binary not found (install whisper-cli)")
}

// Transcribe runs whisper.cpp on an audio file and returns the transcript.
func (l *LocalSTT) Transcribe(ctx context.Context, audioPath string) (string, error) {
	bin, err := l.findBinary()
	if err != nil {
		return "", core.ProviderErrorf(providerName, err, "engine unavailable")
	}
	if _, err := os.Stat(l.config.ModelPath); err != nil {
		return "", core.ProviderErrorf(providerName, err,
			"model file not found at %s", l.config.ModelPath)
	}

	// -nt suppresses timestamps, -np suppresses progress output, so stdout
	// carries only the transcript.
	args := []string{"-m", l.config.ModelPath, "-nt", "-np"}
	if l.config.Language != "" {
		args = append(args, "-l", l.config.Language)
	}
	args = append(args, "-f", audioPath)

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
	l.logger.Debugf("Provider local: transcribed %d chars from %s", len(text), audioPath)
	return text, nil
}

// Listen records from the microphone for the given duration and transcribes
// the result. A zero duration records for ten seconds.
func (l *LocalSTT) Listen(ctx context.Context, duration time.Duration) (string, error) {
	if duration <= 0 {
		duration = defaultListenDuration
	}
	path, cleanup, err := audioutil.RecordTemp(ctx, duration)
	if err != nil {
		return "", core.ProviderErrorf(providerName, err, "recording failed")
	}
	defer cleanup()
	return l.Transcribe(ctx, path)
}
