// Package analyzer computes amplitude and spectral statistics from decoded
// sample buffers and runs batches of files through the full pipeline.
package analyzer

import (
	"fmt"
	"math"

	"github.com/trentbecknell/saucebox/internal/types"
)

// silenceEpsilon is the RMS level below which a signal is treated as
// silent. Dividing peak by an RMS this small would only amplify noise,
// so the dynamic range is reported as 0 with the Silent flag set.
const silenceEpsilon = 1e-10

// Extract computes the FeatureVector for a buffer. It is pure and
// deterministic: the same buffer always yields the same vector.
func Extract(buf *types.SampleBuffer, bands types.BandMode) (*types.FeatureVector, error) {
	if buf == nil || len(buf.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample buffer", types.ErrInvalidInput)
	}
	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", types.ErrInvalidInput)
	}

	rms, peak := amplitudeStats(buf.Samples)

	silent := rms < silenceEpsilon
	dynamicRange := 0.0
	if !silent {
		dynamicRange = peak / rms
	}

	bandRanges := bands5
	if bands == types.Bands3 {
		bandRanges = bands3
	}
	spectrum := analyzeSpectrum(buf.Samples, buf.SampleRate, bandRanges)

	fv := &types.FeatureVector{
		DurationSeconds:     buf.Duration(),
		RMSLevel:            rms,
		PeakLevel:           peak,
		DynamicRange:        dynamicRange,
		DominantFrequencyHz: spectrum.dominantHz,
		Silent:              silent,
		BandEnergy:          spectrum.bandEnergy,
		SampleRate:          buf.SampleRate,
		TotalSamples:        len(buf.Samples),
	}

	if err := checkFinite(fv); err != nil {
		return nil, err
	}
	return fv, nil
}

func amplitudeStats(samples []float64) (rms, peak float64) {
	sumSquares := 0.0
	for _, s := range samples {
		sumSquares += s * s
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}
	rms = math.Sqrt(sumSquares / float64(len(samples)))
	return rms, peak
}

// checkFinite guards downstream consumers against NaN or Inf leaking out
// of the transform.
func checkFinite(fv *types.FeatureVector) error {
	values := []float64{
		fv.DurationSeconds, fv.RMSLevel, fv.PeakLevel,
		fv.DynamicRange, fv.DominantFrequencyHz,
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite feature value", types.ErrComputation)
		}
	}
	for name, ratio := range fv.BandEnergy {
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return fmt.Errorf("%w: non-finite energy ratio for band %s", types.ErrComputation, name)
		}
	}
	return nil
}
