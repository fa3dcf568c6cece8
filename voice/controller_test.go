package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thamam/talk-to-me-claude-cli/config"
	"github.com/thamam/talk-to-me-claude-cli/core"
	"github.com/thamam/talk-to-me-claude-cli/session"
)

type fakeSynthesizer struct {
	mu     sync.Mutex
	spoken []string
	err    error
	done   chan struct{}
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) (core.AudioClip, error) {
	if f.err != nil {
		return core.AudioClip{}, f.err
	}
	return core.AudioClip{Data: []byte(text), Format: core.WAV}, nil
}

func (f *fakeSynthesizer) Speak(ctx context.Context, text string) error {
	defer func() {
		if f.done != nil {
			close(f.done)
		}
	}()
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	f.mu.Unlock()
	return nil
}

type fakeTranscriber struct {
	text  string
	err   error
	delay time.Duration
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return f.text, f.err
}

func (f *fakeTranscriber) Listen(ctx context.Context, duration time.Duration) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func newTestController(synth *fakeSynthesizer, trans *fakeTranscriber) *Controller {
	c := NewController(config.Default(), core.NewDevelopmentLogger())
	c.buildSynthesizer = func(config.Config, session.Settings, *core.Logger) (core.Synthesizer, error) {
		return synth, nil
	}
	c.buildTranscriber = func(config.Config, session.Settings, *core.Logger) (core.Transcriber, error) {
		return trans, nil
	}
	return c
}

func TestSpeak(t *testing.T) {
	synth := &fakeSynthesizer{done: make(chan struct{})}
	c := newTestController(synth, nil)

	c.Speak("hello there", session.DefaultSettings())

	select {
	case <-synth.done:
	case <-time.After(time.Second):
		t.Fatal("speak goroutine never ran")
	}
	synth.mu.Lock()
	defer synth.mu.Unlock()
	assert.Equal(t, []string{"hello there"}, synth.spoken)
}

func TestSpeakSwallowsProviderErrors(t *testing.T) {
	synth := &fakeSynthesizer{
		err:  core.ProviderErrorf("fake", errors.New("boom"), "synthesis failed"),
		done: make(chan struct{}),
	}
	c := newTestController(synth, nil)

	// Must not panic or block; the failure stays inside the goroutine.
	c.Speak("hello", session.DefaultSettings())

	select {
	case <-synth.done:
	case <-time.After(time.Second):
		t.Fatal("speak goroutine never ran")
	}
}

func TestSpeakReturnsImmediately(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := newTestController(synth, nil)

	start := time.Now()
	c.Speak("text", session.DefaultSettings())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestSpeakIgnoresEmptyText(t *testing.T) {
	c := newTestController(&fakeSynthesizer{}, nil)
	calls := 0
	c.buildSynthesizer = func(config.Config, session.Settings, *core.Logger) (core.Synthesizer, error) {
		calls++
		return &fakeSynthesizer{}, nil
	}
	c.Speak("   ", session.DefaultSettings())
	assert.Zero(t, calls)
}

func TestExtractAndSpeak(t *testing.T) {
	synth := &fakeSynthesizer{done: make(chan struct{})}
	c := newTestController(synth, nil)

	spoken, ok := c.ExtractAndSpeak("done\n<voice_narration>I fixed the bug</voice_narration>", session.DefaultSettings())
	require.True(t, ok)
	assert.Equal(t, "I fixed the bug", spoken)

	select {
	case <-synth.done:
	case <-time.After(time.Second):
		t.Fatal("narration was never spoken")
	}
}

func TestExtractAndSpeakNoNarration(t *testing.T) {
	c := newTestController(&fakeSynthesizer{}, nil)
	spoken, ok := c.ExtractAndSpeak("plain output, no markup", session.DefaultSettings())
	assert.False(t, ok)
	assert.Empty(t, spoken)
}

func TestExtractAndSpeakDisabled(t *testing.T) {
	synth := &fakeSynthesizer{}
	c := newTestController(synth, nil)

	settings := session.DefaultSettings()
	settings.NarrationEnabled = false

	spoken, ok := c.ExtractAndSpeak("<voice_narration>quiet</voice_narration>", settings)
	require.True(t, ok)
	assert.Equal(t, "quiet", spoken)
	synth.mu.Lock()
	defer synth.mu.Unlock()
	assert.Empty(t, synth.spoken)
}

func TestListen(t *testing.T) {
	c := newTestController(nil, &fakeTranscriber{text: "hello world"})
	got, err := c.Listen(context.Background(), "s1", time.Second, session.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestListenEmptyTranscriptIsTimeout(t *testing.T) {
	c := newTestController(nil, &fakeTranscriber{text: "  "})
	_, err := c.Listen(context.Background(), "s1", time.Second, session.DefaultSettings())
	require.Error(t, err)
	assert.Equal(t, core.KindTimeout, core.KindOf(err))
}

func TestListenRejectsBadDuration(t *testing.T) {
	c := newTestController(nil, &fakeTranscriber{text: "x"})

	_, err := c.Listen(context.Background(), "s1", -time.Second, session.DefaultSettings())
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))

	_, err = c.Listen(context.Background(), "s1", 10*time.Minute, session.DefaultSettings())
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}

func TestListenConcurrentIsBusy(t *testing.T) {
	c := newTestController(nil, &fakeTranscriber{text: "slow", delay: 500 * time.Millisecond})
	settings := session.DefaultSettings()

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Listen(context.Background(), "s1", time.Second, settings)
		errCh <- err
	}()

	// Give the first listen time to take the per-session slot.
	time.Sleep(100 * time.Millisecond)

	_, err := c.Listen(context.Background(), "s1", time.Second, settings)
	require.Error(t, err)
	assert.Equal(t, core.KindBusy, core.KindOf(err))

	require.NoError(t, <-errCh)
}

func TestListenDifferentSessionsDoNotBlock(t *testing.T) {
	c := newTestController(nil, &fakeTranscriber{text: "ok", delay: 300 * time.Millisecond})
	settings := session.DefaultSettings()

	go c.Listen(context.Background(), "s1", time.Second, settings)
	time.Sleep(50 * time.Millisecond)

	got, err := c.Listen(context.Background(), "s2", time.Second, settings)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestListenProviderError(t *testing.T) {
	c := newTestController(nil, &fakeTranscriber{
		err: core.ProviderErrorf("fake", errors.New("mic broke"), "capture failed"),
	})
	_, err := c.Listen(context.Background(), "s1", time.Second, session.DefaultSettings())
	require.Error(t, err)
	assert.Equal(t, core.KindProviderError, core.KindOf(err))
}
