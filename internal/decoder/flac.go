package decoder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"

	"github.com/trentbecknell/saucebox/internal/types"
)

// FLACDecoder decodes FLAC streams. Bridge hosts export lossless audio in
// either WAV or FLAC, so both land in the same SampleBuffer shape.
type FLACDecoder struct{}

// SupportedFormats returns the extensions this decoder handles.
func (d *FLACDecoder) SupportedFormats() []string {
	return []string{"flac"}
}

// Decode parses the stream frame by frame, interleaves the subframe
// channels, normalizes to [-1, 1] and mixes down to mono.
func (d *FLACDecoder) Decode(filePath string) (*types.SampleBuffer, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", types.ErrNotFound, filePath)
	}
	defer file.Close()

	stream, err := flac.New(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: parsing FLAC stream %s: %v", types.ErrDecode, filePath, err)
	}

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NChannels == 0 {
		return nil, "", fmt.Errorf("%w: missing FLAC stream info in %s", types.ErrDecode, filePath)
	}

	channels := int(info.NChannels)
	maxVal := float64(int64(1) << uint(info.BitsPerSample-1))

	var interleaved []float64
	if info.NSamples > 0 {
		interleaved = make([]float64, 0, int(info.NSamples)*channels)
	}

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, "", fmt.Errorf("%w: corrupt FLAC frame in %s: %v", types.ErrDecode, filePath, err)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				interleaved = append(interleaved, float64(frame.Subframes[ch].Samples[i])/maxVal)
			}
		}
	}

	return &types.SampleBuffer{
		Samples:    mixdownMono(interleaved, channels),
		SampleRate: int(info.SampleRate),
		Channels:   channels,
	}, "FLAC", nil
}
