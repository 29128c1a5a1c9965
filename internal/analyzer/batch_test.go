package analyzer

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/trentbecknell/saucebox/internal/types"
)

func writeToneWAV(t *testing.T, path string, freq, amp float64, seconds float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()

	sampleRate := 44100
	n := int(float64(sampleRate) * seconds)
	data := make([]int, n)
	for i := range data {
		s := amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		data[i] = int(s * 32767)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}
}

func testConfig() *types.AnalyzerConfig {
	return &types.AnalyzerConfig{
		Bands:       types.Bands3,
		Concurrency: 2,
		Quiet:       true,
	}
}

func TestAnalyzeFileEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeToneWAV(t, path, 440, 0.5, 1)

	res := NewBatch(testConfig()).AnalyzeFile(path, "test tone")
	if res.Status != "OK" {
		t.Fatalf("status = %s, error = %s", res.Status, res.Error)
	}
	if res.Format != "WAV" {
		t.Errorf("format = %s, want WAV", res.Format)
	}
	if res.Label != "test tone" {
		t.Errorf("label = %s, want test tone", res.Label)
	}
	if res.Features == nil || res.Suggestion == nil {
		t.Fatal("missing features or suggestion on an OK result")
	}
	if math.Abs(res.Features.DominantFrequencyHz-440) > 1 {
		t.Errorf("dominant = %v, want ~440", res.Features.DominantFrequencyHz)
	}
	if res.Suggestion.RecommendedChain == "" {
		t.Error("empty recommended chain")
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	res := NewBatch(testConfig()).AnalyzeFile(filepath.Join(t.TempDir(), "missing.wav"), "")
	if res.Status != "ERROR" {
		t.Fatalf("status = %s, want ERROR", res.Status)
	}
	if !strings.Contains(res.Error, "missing.wav") {
		t.Errorf("error %q should name the offending path", res.Error)
	}
}

func TestAnalyzeFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := NewBatch(testConfig()).AnalyzeFile(path, "")
	if res.Status != "ERROR" {
		t.Fatalf("status = %s, want ERROR", res.Status)
	}
	if res.Suggestion != nil {
		t.Error("no suggestion should be produced on decode failure")
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeToneWAV(t, filepath.Join(dir, "a.wav"), 440, 0.3, 0.1)
	writeToneWAV(t, filepath.Join(dir, "b.wav"), 880, 0.3, 0.1)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	batch := NewBatch(testConfig())
	files, err := batch.CollectFiles([]string{dir})
	if err != nil {
		t.Fatalf("CollectFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("got %d files, want 2: %v", len(files), files)
	}

	if _, err := batch.CollectFiles([]string{filepath.Join(dir, "gone")}); err == nil {
		t.Error("no error for a missing argument")
	}
}
