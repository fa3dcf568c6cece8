// Package audio provides the codec and device plumbing the voice layer
// needs: WAV framing, µ-law decoding, and playback/capture through the
// platform audio tools.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zaf/g711"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

// wavHeaderSize is the canonical PCM RIFF header length.
const wavHeaderSize = 44

// PCMToULaw converts a single 16-bit PCM sample to a µ-law byte.
func PCMToULaw(sample int16) byte {
	return g711.EncodeUlawFrame(sample)
}

// ULawToPCM converts a single µ-law byte to a 16-bit PCM sample.
func ULawToPCM(u byte) int16 {
	return g711.DecodeUlawFrame(u)
}

// ULawBytesToPCM converts µ-law encoded bytes to 16-bit LPCM.
func ULawBytesToPCM(uBytes []byte) []byte {
	return g711.DecodeUlaw(uBytes)
}

// PCMBytesToULaw converts 16-bit LPCM bytes to µ-law.
func PCMBytesToULaw(pcm []byte) ([]byte, error) {
	if len(pcm)%2 != 0 {
		return nil, errors.New("PCM data must have an even number of bytes")
	}
	return g711.EncodeUlaw(pcm), nil
}

// PCMBytesToWavBytes wraps raw 16-bit LPCM in a RIFF/WAVE container so the
// platform players can read it from disk.
func PCMBytesToWavBytes(pcm []byte, numChannels, sampleRate int) ([]byte, error) {
	if numChannels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", numChannels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if len(pcm)%(2*numChannels) != 0 {
		return nil, errors.New("PCM data length not aligned to frame size")
	}

	const bitsPerSample = 16
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM format
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes(), nil
}

// ClipToWavBytes renders a clip into a WAV container, decoding µ-law first
// when needed. WAV clips pass through untouched.
func ClipToWavBytes(clip core.AudioClip) ([]byte, error) {
	switch clip.Format {
	case core.WAV:
		return clip.Data, nil
	case core.PCM:
		return PCMBytesToWavBytes(clip.Data, clip.Channels, clip.SampleRate)
	case core.ULAW:
		return PCMBytesToWavBytes(ULawBytesToPCM(clip.Data), clip.Channels, clip.SampleRate)
	default:
		return nil, fmt.Errorf("cannot convert format %d to WAV", clip.Format)
	}
}

// StripWAVHeaderIfPresent returns the data section of a WAV byte stream, or
// the input unchanged when it carries no RIFF header.
func StripWAVHeaderIfPresent(chunk []byte) []byte {
	if len(chunk) >= wavHeaderSize && bytes.HasPrefix(chunk, []byte("RIFF")) &&
		bytes.Equal(chunk[8:12], []byte("WAVE")) {
		// Scan chunks for the data section rather than assuming a fixed
		// 44-byte header; some encoders insert LIST metadata first.
		offset := 12
		for offset+8 <= len(chunk) {
			id := chunk[offset : offset+4]
			size := int(binary.LittleEndian.Uint32(chunk[offset+4 : offset+8]))
			if bytes.Equal(id, []byte("data")) {
				start := offset + 8
				end := start + size
				if end > len(chunk) {
					end = len(chunk)
				}
				return chunk[start:end]
			}
			offset += 8 + size
		}
	}
	return chunk
}
