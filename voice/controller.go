// Package voice coordinates speech output and input on top of the provider
// services. Speaking is fire-and-forget so tool calls return immediately;
// listening blocks and is guarded against concurrent use per session.
package voice

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/factories"
	"github.com/thamam/talk-to-me-claude-cli/narration"
	"github.com/thamam/talk-to-me-claude-cli/session"
)

// DefaultListenDuration applies when a listen request carries no duration.
const DefaultListenDuration = 10 * time.Second

// MaxListenDuration caps a single capture.
const MaxListenDuration = 5 * time.Minute

// Controller owns voice I/O for all sessions.
type Controller struct {
	cfg    config.Config
	logger *core.Logger

	mu        sync.Mutex
	listening map[string]bool

	// Factory hooks, replaced in tests.
	buildSynthesizer func(config.Config, session.Settings, *core.Logger) (core.Synthesizer, error)
	buildTranscriber func(config.Config, session.Settings, *core.Logger) (core.Transcriber, error)
}

// NewController creates a voice controller backed by the provider factories.
func NewController(cfg config.Config, logger *core.Logger) *Controller {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Controller{
		cfg:              cfg,
		logger:           logger,
		listening:        make(map[string]bool),
		buildSynthesizer: factories.BuildSynthesizer,
		buildTranscriber: factories.BuildTranscriber,
	}
}

// Speak starts playback of text in the background and returns immediately.
// Synthesis and playback failures are logged, never surfaced to the caller.
// The provider is resolved fresh from the settings on every call.
func (c *Controller) Speak(text string, settings session.Settings) {
	if strings.TrimSpace(text) == "" {
		return
	}

	synth, err := c.buildSynthesizer(c.cfg, settings, c.logger)
	if err != nil {
		c.logger.Warnf("Voice: cannot build synthesizer: %v", err)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Errorf("Voice: panic during playback: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := synth.Speak(ctx, text); err != nil {
			c.logger.Warnf("Voice: playback failed: %v", err)
		}
	}()
}

// ExtractAndSpeak pulls narration spans out of assistant output, speaks the
// sanitized result, and returns the narration text that was spoken. When the
// text carries no narration markers nothing is spoken and ok is false.
func (c *Controller) ExtractAndSpeak(text string, settings session.Settings) (string, bool) {
	raw, ok := narration.Extract(text)
	if !ok {
		return "", false
	}
	spoken := narration.Sanitize(raw)
	if spoken == "" {
		return "", false
	}
	if settings.NarrationEnabled {
		c.Speak(spoken, settings)
	}
	return spoken, true
}

// Listen records from the microphone and returns the transcript. Only one
// capture may run per session at a time; a second call fails with a busy
// error instead of queueing.
func (c *Controller) Listen(ctx context.Context, sessionID string, duration time.Duration, settings session.Settings) (string, error) {
	if duration == 0 {
		duration = DefaultListenDuration
	}
	if duration < 0 {
		return "", core.InvalidArgumentf("listen duration must be positive, got %v", duration)
	}
	if duration > MaxListenDuration {
		return "", core.InvalidArgumentf("listen duration %v exceeds maximum %v", duration, MaxListenDuration)
	}

	trans, err := c.buildTranscriber(c.cfg, settings, c.logger)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.listening[sessionID] {
		c.mu.Unlock()
		return "", core.Busyf("a listen operation is already running for this session")
	}
	c.listening[sessionID] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.listening, sessionID)
		c.mu.Unlock()
	}()

	c.logger.Infof("Voice: listening for %v on session %s", duration, sessionID)
	text, err := trans.Listen(ctx, duration)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", core.Timeoutf("no speech detected within %v", duration)
	}
	return text, nil
}
