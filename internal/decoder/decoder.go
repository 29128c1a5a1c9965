package decoder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trentbecknell/saucebox/internal/types"
)

// AudioDecoder decodes one container format into a mono SampleBuffer.
type AudioDecoder interface {
	Decode(filePath string) (*types.SampleBuffer, string, error)
	SupportedFormats() []string
}

// Registry maps file extensions to decoders.
type Registry struct {
	decoders map[string]AudioDecoder
}

// NewRegistry returns a registry with all built-in decoders registered.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]AudioDecoder)}
	r.Register(&WAVDecoder{})
	r.Register(&FLACDecoder{})
	return r
}

// Register adds a decoder for each of its supported formats.
func (r *Registry) Register(d AudioDecoder) {
	for _, format := range d.SupportedFormats() {
		r.decoders[strings.ToLower(format)] = d
	}
}

// Supported reports whether the path has a registered extension.
func (r *Registry) Supported(filePath string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	_, ok := r.decoders[ext]
	return ok
}

// DecodeFile decodes the file at path into a SampleBuffer plus a format
// name. It returns types.ErrNotFound when the path is unreadable and
// types.ErrDecode when no decoder matches the extension or the payload
// is malformed.
func (r *Registry) DecodeFile(filePath string) (*types.SampleBuffer, string, error) {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s", types.ErrNotFound, filePath)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	d, ok := r.decoders[ext]
	if !ok {
		return nil, "", fmt.Errorf("%w: unsupported format %q", types.ErrDecode, ext)
	}

	return d.Decode(filePath)
}

// mixdownMono averages interleaved frames to a single channel.
// Mono input passes through untouched.
func mixdownMono(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	inv := 1.0 / float64(channels)
	for f := 0; f < frames; f++ {
		sum := 0.0
		base := f * channels
		for c := 0; c < channels; c++ {
			sum += interleaved[base+c]
		}
		mono[f] = sum * inv
	}
	return mono
}
