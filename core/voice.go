package core

import (
	"context"
	"time"
)

// Synthesizer converts text to speech. Implementations are constructed with
// their voice and speed already bound, so a settings change simply produces
// a new Synthesizer on the next call.
type Synthesizer interface {
	// Synthesize renders text to a complete audio clip without playing it.
	Synthesize(ctx context.Context, text string) (AudioClip, error)

	// Speak renders text and plays it through the system audio output,
	// returning once playback has finished.
	Speak(ctx context.Context, text string) error
}

// Transcriber converts captured speech to text.
type Transcriber interface {
	// Transcribe converts a recorded audio file to text.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// Listen records from the microphone for the given duration (the
	// provider default when zero) and returns the transcription.
	Listen(ctx context.Context, duration time.Duration) (string, error)
}
