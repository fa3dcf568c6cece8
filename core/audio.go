package core

type AudioEncodingFormat int

const (
	PCM  AudioEncodingFormat = iota // Pulse-code modulation, 16-bit little-endian.
	ULAW                            // µ-law encoding format.
	WAV                             // RIFF/WAVE container.
	MP3                             // MPEG-1 Audio Layer III container.
)

// AudioClip is a fully synthesized piece of audio, ready for playback.
// Unlike a streaming chunk it always carries the complete utterance.
type AudioClip struct {
	Data       []byte              // Raw audio data.
	SampleRate int                 // Sample rate of the audio data (container formats may ignore this).
	Channels   int                 // Number of audio channels.
	Format     AudioEncodingFormat // Encoding format of the audio data.
}

// DurationSeconds estimates the clip length for raw formats. Container
// formats (WAV, MP3) return 0; the player does not need the value for them.
func (c *AudioClip) DurationSeconds() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0.0
	}
	switch c.Format {
	case PCM:
		bytesPerSample := 2 // 16-bit audio
		totalSamples := len(c.Data) / (bytesPerSample * c.Channels)
		return float64(totalSamples) / float64(c.SampleRate)
	case ULAW:
		return float64(len(c.Data)) / float64(c.SampleRate*c.Channels)
	default:
		return 0.0
	}
}
