package analyzer

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/trentbecknell/saucebox/internal/types"
)

const testSampleRate = 44100

func sineBuffer(freq, amp float64, seconds float64) *types.SampleBuffer {
	n := int(testSampleRate * seconds)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / testSampleRate
		samples[i] = amp * math.Sin(2*math.Pi*freq*t)
	}
	return &types.SampleBuffer{Samples: samples, SampleRate: testSampleRate, Channels: 1}
}

func addSine(buf *types.SampleBuffer, freq, amp float64) {
	for i := range buf.Samples {
		t := float64(i) / float64(buf.SampleRate)
		buf.Samples[i] += amp * math.Sin(2*math.Pi*freq*t)
	}
}

func TestExtractSilence(t *testing.T) {
	buf := &types.SampleBuffer{
		Samples:    make([]float64, testSampleRate),
		SampleRate: testSampleRate,
		Channels:   1,
	}

	fv, err := Extract(buf, types.Bands3)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if fv.RMSLevel != 0 {
		t.Errorf("rms = %v, want 0", fv.RMSLevel)
	}
	if fv.PeakLevel != 0 {
		t.Errorf("peak = %v, want 0", fv.PeakLevel)
	}
	if fv.DynamicRange != 0 {
		t.Errorf("dynamic range = %v, want 0", fv.DynamicRange)
	}
	if !fv.Silent {
		t.Error("silent flag not set for all-zero buffer")
	}
	for name, ratio := range fv.BandEnergy {
		if ratio != 0 {
			t.Errorf("band %s = %v, want 0 for silence", name, ratio)
		}
	}
}

func TestExtractSineTone(t *testing.T) {
	fv, err := Extract(sineBuffer(440, 0.5, 2), types.Bands3)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	binWidth := float64(testSampleRate) / float64(maxWindowSize)
	if diff := math.Abs(fv.DominantFrequencyHz - 440); diff > binWidth {
		t.Errorf("dominant frequency = %.3f Hz, want 440 +/- %.3f", fv.DominantFrequencyHz, binWidth)
	}
	if math.Abs(fv.PeakLevel-0.5) > 1e-3 {
		t.Errorf("peak = %v, want ~0.5", fv.PeakLevel)
	}
	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(fv.RMSLevel-wantRMS) > 1e-3 {
		t.Errorf("rms = %v, want ~%v", fv.RMSLevel, wantRMS)
	}
	if fv.BandEnergy["mid"] < 0.9 {
		t.Errorf("mid band = %v, want dominant for a 440 Hz tone", fv.BandEnergy["mid"])
	}
	if math.Abs(fv.DurationSeconds-2) > 1e-9 {
		t.Errorf("duration = %v, want 2", fv.DurationSeconds)
	}
}

func TestExtractBandRatiosNormalized(t *testing.T) {
	for _, bands := range []types.BandMode{types.Bands3, types.Bands5} {
		buf := sineBuffer(261.63, 0.25, 2)
		addSine(buf, 329.63, 0.25)
		addSine(buf, 392.00, 0.25)
		addSine(buf, 80, 0.1)
		addSine(buf, 8000, 0.05)

		fv, err := Extract(buf, bands)
		if err != nil {
			t.Fatalf("Extract(%d bands): %v", bands, err)
		}

		if len(fv.BandEnergy) != int(bands) {
			t.Errorf("got %d bands, want %d", len(fv.BandEnergy), bands)
		}
		sum := 0.0
		for name, ratio := range fv.BandEnergy {
			if ratio < 0 || ratio > 1 {
				t.Errorf("band %s ratio = %v, want in [0,1]", name, ratio)
			}
			sum += ratio
		}
		if math.Abs(sum-1) > 1e-3 {
			t.Errorf("band ratios sum to %v, want ~1.0", sum)
		}
	}
}

func TestExtractChordScenario(t *testing.T) {
	buf := sineBuffer(261.63, 0.25, 2)
	addSine(buf, 329.63, 0.25)
	addSine(buf, 392.00, 0.25)
	addSine(buf, 80, 0.1)
	addSine(buf, 8000, 0.05)

	fv, err := Extract(buf, types.Bands3)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if fv.BandEnergy["bass"] < 0.01 {
		t.Errorf("bass band = %v, want non-trivial energy from the 80 Hz tone", fv.BandEnergy["bass"])
	}
	if fv.BandEnergy["high"] < 0.001 {
		t.Errorf("high band = %v, want non-trivial energy from the 8 kHz tone", fv.BandEnergy["high"])
	}
	if fv.BandEnergy["mid"] < fv.BandEnergy["bass"] || fv.BandEnergy["mid"] < fv.BandEnergy["high"] {
		t.Error("mid band should carry the chord's energy")
	}
}

func TestExtractIdempotent(t *testing.T) {
	buf := sineBuffer(440, 0.5, 1)
	addSine(buf, 880, 0.2)

	first, err := Extract(buf, types.Bands5)
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	second, err := Extract(buf, types.Bands5)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractEmptyBuffer(t *testing.T) {
	_, err := Extract(&types.SampleBuffer{SampleRate: testSampleRate, Channels: 1}, types.Bands3)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}

	_, err = Extract(nil, types.Bands3)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("nil buffer err = %v, want ErrInvalidInput", err)
	}
}

func TestExtractBadSampleRate(t *testing.T) {
	buf := &types.SampleBuffer{Samples: []float64{0.1, 0.2}, SampleRate: 0, Channels: 1}
	if _, err := Extract(buf, types.Bands3); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestExtractShortBufferZeroPadded(t *testing.T) {
	// 1000 samples is well below the analysis window; the transform must
	// zero-pad rather than reject.
	buf := sineBuffer(1000, 0.5, float64(1000)/testSampleRate)
	if len(buf.Samples) >= 1024 {
		t.Fatalf("fixture too long: %d samples", len(buf.Samples))
	}

	fv, err := Extract(buf, types.Bands3)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	binWidth := float64(testSampleRate) / 1024
	if diff := math.Abs(fv.DominantFrequencyHz - 1000); diff > binWidth {
		t.Errorf("dominant frequency = %.1f Hz, want 1000 +/- %.1f", fv.DominantFrequencyHz, binWidth)
	}
}

func TestNearestPowerOf2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 1000: 1024, 65536: 65536}
	for in, want := range cases {
		if got := nearestPowerOf2(in); got != want {
			t.Errorf("nearestPowerOf2(%d) = %d, want %d", in, got, want)
		}
	}
}
