package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

// Whisper expects 16 kHz mono input, so capture is fixed to that.
const (
	captureSampleRate = 16000
	captureChannels   = 1
)

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// findTool returns the first of the candidate executables present on PATH.
func findTool(candidates ...string) (string, error) {
	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("none of %v found on PATH", candidates)
}

// playerCommand picks the platform audio player for a file.
func playerCommand(path string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		bin, err := findTool("afplay")
		if err != nil {
			return nil, err
		}
		return exec.Command(bin, path), nil
	default:
		bin, err := findTool("ffplay", "aplay", "mpv", "play")
		if err != nil {
			return nil, err
		}
		if filepath.Base(bin) == "ffplay" {
			return exec.Command(bin, "-nodisp", "-autoexit", "-loglevel", "quiet", path), nil
		}
		return exec.Command(bin, path), nil
	}
}

// PlayFile plays an audio file through the system player, blocking until
// playback completes or ctx is cancelled.
func PlayFile(ctx context.Context, path string) error {
	cmd, err := playerCommand(path)
	if err != nil {
		return fmt.Errorf("no audio player available: %w", err)
	}
	cmd = exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// PlayClip writes the clip to a temp file and plays it. The temp file is
// removed when playback finishes.
func PlayClip(ctx context.Context, clip core.AudioClip) error {
	suffix := ".wav"
	data := clip.Data
	if clip.Format == core.MP3 {
		suffix = ".mp3"
	} else {
		wav, err := ClipToWavBytes(clip)
		if err != nil {
			return err
		}
		data = wav
	}

	f, err := os.CreateTemp("", "narration-*"+suffix)
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp audio file: %w", err)
	}

	return PlayFile(ctx, path)
}

// recorderCommand picks the platform capture tool, recording seconds of
// 16 kHz mono WAV to path.
func recorderCommand(path string, seconds float64) (*exec.Cmd, error) {
	secs := strconv.FormatFloat(seconds, 'f', -1, 64)
	rate := strconv.Itoa(captureSampleRate)

	if bin, err := findTool("sox", "rec"); err == nil {
		// sox needs an explicit input device; rec implies it.
		if filepath.Base(bin) == "sox" {
			return exec.Command(bin, "-d", "-r", rate, "-c", strconv.Itoa(captureChannels), path, "trim", "0", secs), nil
		}
		return exec.Command(bin, "-r", rate, "-c", strconv.Itoa(captureChannels), path, "trim", "0", secs), nil
	}
	if bin, err := findTool("arecord"); err == nil {
		// arecord only takes whole seconds.
		whole := strconv.Itoa(int(seconds + 0.999))
		return exec.Command(bin, "-q", "-f", "S16_LE", "-r", rate, "-c", strconv.Itoa(captureChannels), "-d", whole, path), nil
	}
	if bin, err := findTool("ffmpeg"); err == nil {
		input := "default"
		format := "pulse"
		if runtime.GOOS == "darwin" {
			input = ":0"
			format = "avfoundation"
		}
		return exec.Command(bin, "-y", "-loglevel", "quiet", "-f", format, "-i", input,
			"-t", secs, "-ar", rate, "-ac", strconv.Itoa(captureChannels), path), nil
	}
	return nil, fmt.Errorf("no audio capture tool found (tried sox, rec, arecord, ffmpeg)")
}

// Record captures microphone audio for the given number of seconds into a
// 16 kHz mono WAV file at path, blocking until capture completes.
func Record(ctx context.Context, path string, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("capture duration must be positive, got %v", seconds)
	}
	cmd, err := recorderCommand(path, seconds)
	if err != nil {
		return err
	}
	cmd = exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio capture failed: %w", err)
	}
	return nil
}

// RecordTemp captures microphone audio for the given duration into a temp
// WAV file. The caller must invoke cleanup to remove it.
func RecordTemp(ctx context.Context, duration time.Duration) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "capture-*.wav")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path = f.Name()
	f.Close()
	cleanup = func() { os.Remove(path) }

	if err := Record(ctx, path, duration.Seconds()); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
