package audio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

func TestULawRoundTrip(t *testing.T) {
	// µ-law is lossy; a round trip must stay close, not exact.
	samples := []int16{0, 100, -100, 1000, -1000, 16000, -16000, 32000, -32000}
	for _, s := range samples {
		decoded := ULawToPCM(PCMToULaw(s))
		diff := int32(s) - int32(decoded)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, int32(1000), "sample %d decoded to %d", s, decoded)
	}
}

func TestULawBytesToPCMLength(t *testing.T) {
	ulaw := []byte{0x00, 0x7F, 0xFF, 0x80}
	pcm := ULawBytesToPCM(ulaw)
	assert.Len(t, pcm, len(ulaw)*2)
}

func TestPCMBytesToULawRejectsOddLength(t *testing.T) {
	_, err := PCMBytesToULaw([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestPCMBytesToWavBytes(t *testing.T) {
	pcm := make([]byte, 320)
	wav, err := PCMBytesToWavBytes(pcm, 1, 16000)
	require.NoError(t, err)
	require.Len(t, wav, 44+len(pcm))

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(wav[40:44]))
}

func TestPCMBytesToWavBytesValidation(t *testing.T) {
	tests := []struct {
		name       string
		pcm        []byte
		channels   int
		sampleRate int
	}{
		{name: "zero channels", pcm: make([]byte, 4), channels: 0, sampleRate: 16000},
		{name: "zero sample rate", pcm: make([]byte, 4), channels: 1, sampleRate: 0},
		{name: "unaligned data", pcm: make([]byte, 3), channels: 1, sampleRate: 16000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PCMBytesToWavBytes(tt.pcm, tt.channels, tt.sampleRate)
			assert.Error(t, err)
		})
	}
}

func TestClipToWavBytes(t *testing.T) {
	t.Run("wav passthrough", func(t *testing.T) {
		data := []byte("RIFFxxxxWAVE")
		got, err := ClipToWavBytes(core.AudioClip{Data: data, Format: core.WAV})
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("pcm gets wrapped", func(t *testing.T) {
		got, err := ClipToWavBytes(core.AudioClip{
			Data: make([]byte, 64), SampleRate: 24000, Channels: 1, Format: core.PCM,
		})
		require.NoError(t, err)
		assert.Equal(t, "RIFF", string(got[0:4]))
		assert.Len(t, got, 44+64)
	})

	t.Run("ulaw gets decoded and wrapped", func(t *testing.T) {
		got, err := ClipToWavBytes(core.AudioClip{
			Data: make([]byte, 80), SampleRate: 8000, Channels: 1, Format: core.ULAW,
		})
		require.NoError(t, err)
		assert.Equal(t, "RIFF", string(got[0:4]))
		// µ-law doubles in size when decoded to 16-bit PCM.
		assert.Len(t, got, 44+160)
	})

	t.Run("mp3 is not convertible", func(t *testing.T) {
		_, err := ClipToWavBytes(core.AudioClip{Data: []byte{0xFF}, Format: core.MP3})
		assert.Error(t, err)
	})
}

func TestStripWAVHeaderIfPresent(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	wav, err := PCMBytesToWavBytes(pcm, 1, 8000)
	require.NoError(t, err)

	assert.Equal(t, pcm, StripWAVHeaderIfPresent(wav))

	// Non-WAV input passes through unchanged.
	raw := []byte{9, 9, 9, 9}
	assert.Equal(t, raw, StripWAVHeaderIfPresent(raw))

	// Short input passes through unchanged.
	assert.Equal(t, []byte("RIFF"), StripWAVHeaderIfPresent([]byte("RIFF")))
}
