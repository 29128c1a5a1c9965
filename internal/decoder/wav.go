package decoder

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	"github.com/trentbecknell/saucebox/internal/types"
)

// ieeeFloatFormat is the WAV audio format tag for 32-bit IEEE float payloads.
const ieeeFloatFormat = 3

// WAVDecoder decodes uncompressed PCM WAV containers.
type WAVDecoder struct{}

// SupportedFormats returns the extensions this decoder handles.
func (d *WAVDecoder) SupportedFormats() []string {
	return []string{"wav"}
}

// Decode reads the whole file, normalizes samples to [-1, 1] and mixes
// interleaved channels down to mono.
func (d *WAVDecoder) Decode(filePath string) (*types.SampleBuffer, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", types.ErrNotFound, filePath)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return nil, "", fmt.Errorf("%w: invalid WAV header in %s", types.ErrDecode, filePath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading WAV payload from %s: %v", types.ErrDecode, filePath, err)
	}

	channels := int(dec.NumChans)
	sampleRate := int(dec.SampleRate)
	bitDepth := int(dec.BitDepth)
	if channels < 1 || sampleRate <= 0 {
		return nil, "", fmt.Errorf("%w: bad WAV format in %s", types.ErrDecode, filePath)
	}
	if len(buf.Data)%channels != 0 {
		return nil, "", fmt.Errorf("%w: payload of %s is not a whole number of frames", types.ErrDecode, filePath)
	}

	samples, err := normalizeWAV(buf.Data, bitDepth, dec.WavAudioFormat)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", types.ErrDecode, filePath, err)
	}

	return &types.SampleBuffer{
		Samples:    mixdownMono(samples, channels),
		SampleRate: sampleRate,
		Channels:   channels,
	}, "WAV", nil
}

// normalizeWAV converts raw PCM integers to [-1, 1] floats using full-scale
// division for the given bit depth. 8-bit WAV is unsigned; 32-bit IEEE float
// payloads arrive as the raw bit pattern of each float32.
func normalizeWAV(data []int, bitDepth int, audioFormat uint16) ([]float64, error) {
	samples := make([]float64, len(data))

	if audioFormat == ieeeFloatFormat {
		if bitDepth != 32 {
			return nil, fmt.Errorf("unsupported float sample width: %d bit", bitDepth)
		}
		for i, v := range data {
			samples[i] = float64(math.Float32frombits(uint32(int32(v))))
		}
		return samples, nil
	}

	switch bitDepth {
	case 8:
		// 8-bit PCM is unsigned, centered on 128.
		for i, v := range data {
			samples[i] = (float64(v) - 128) / 128
		}
	case 16, 24, 32:
		maxVal := float64(int64(1) << uint(bitDepth-1))
		for i, v := range data {
			samples[i] = float64(v) / maxVal
		}
	default:
		return nil, fmt.Errorf("unsupported sample width: %d bit", bitDepth)
	}

	return samples, nil
}
