// Package suggest maps a FeatureVector to a processing-chain
// recommendation through a fixed decision table. Thresholds here are the
// user-visible contract: reports change when they change.
package suggest

import (
	"math"

	"github.com/trentbecknell/saucebox/internal/types"
)

// Target ranges for a professional-sounding mix. A feature inside its
// range raises no issue; the distance outside its range lowers confidence.
const (
	// Band-energy ratio bounds.
	BassRatioMin = 0.15
	BassRatioMax = 0.50
	HighRatioMin = 0.15
	HighRatioMax = 0.30

	// RMS level bounds for a reasonably driven mix.
	RMSLevelMin = 0.10
	RMSLevelMax = 0.70

	// Dynamic range (peak/RMS) bounds. Above the max the material is
	// peaky and under-compressed; below the min it is squashed.
	DynamicRangeMin = 2.0
	DynamicRangeMax = 10.0

	// Severe dynamics threshold selecting the aggressive compressor set.
	dynamicRangeSevere = 15.0
)

// EQ synthesis constants.
const (
	highShelfFreq = 8000.0
	lowShelfFreq  = 100.0
	highPassFreq  = 80.0
	stageQ        = 0.7

	maxShelfGainDB = 4.0

	balancedHighShelfGainDB = 1.5
	balancedLowShelfGainDB  = 1.0

	warmSaturationDrive = 0.15
)

// Compressor threshold bounds in dBFS.
const (
	compThresholdMinDB = -30.0
	compThresholdMaxDB = -8.0
	compHeadroomDB     = 6.0
)

// Suggest derives a Suggestion from a FeatureVector. It is a pure, total
// function: every well-formed vector yields a recommendation, and the
// same vector always yields the same one.
func Suggest(f *types.FeatureVector) types.Suggestion {
	bass := bandRatio(f, "bass")
	high := bandRatio(f, "high")

	var issues []string
	classes := map[string]bool{}
	wantBright := false
	wantWarm := false

	if high < HighRatioMin {
		issues = append(issues, "limited high frequencies, consider brightness enhancement")
		classes["tonal-high"] = true
		wantBright = true
	} else if high > HighRatioMax {
		issues = append(issues, "bright mix, may sound harsh")
		classes["tonal-high"] = true
	}

	if bass < BassRatioMin {
		issues = append(issues, "limited low end, consider a bass boost")
		classes["tonal-low"] = true
		wantWarm = true
	} else if bass > BassRatioMax {
		issues = append(issues, "heavy bass content, consider a high-pass filter")
		classes["tonal-low"] = true
	}

	if f.RMSLevel < RMSLevelMin {
		issues = append(issues, "level is low, consider raising the gain")
		classes["level"] = true
	} else if f.RMSLevel > RMSLevelMax {
		issues = append(issues, "level is hot, consider pulling the gain back")
		classes["level"] = true
	}

	needsCompression := false
	if !f.Silent {
		if f.DynamicRange > DynamicRangeMax {
			issues = append(issues, "needs dynamics control, peaks sit far above the average level")
			classes["dynamics"] = true
			needsCompression = true
		} else if f.DynamicRange < DynamicRangeMin {
			issues = append(issues, "heavily compressed, little dynamic movement left")
			classes["dynamics"] = true
		}
	}

	// Brightness deficiency outranks warmth deficiency when both fire.
	chain := types.ChainBalanced
	switch {
	case wantBright:
		chain = types.ChainBright
	case wantWarm:
		chain = types.ChainWarm
	}

	assessment := types.AssessmentWellBalanced
	switch {
	case len(classes) >= 2:
		assessment = types.AssessmentNeedsProcessing
	case len(classes) == 1:
		assessment = types.AssessmentMinorIssues
	}

	s := types.Suggestion{
		OverallAssessment: assessment,
		RecommendedChain:  chain,
		Confidence:        confidence(f, bass, high),
		Issues:            issues,
		EQ:                synthesizeEQ(chain, bass, high),
	}

	if needsCompression {
		s.Compression = synthesizeCompression(f)
	}
	if chain == types.ChainWarm {
		s.Saturation = &types.SaturationParams{Drive: warmSaturationDrive}
	}

	return s
}

func bandRatio(f *types.FeatureVector, name string) float64 {
	if f.BandEnergy == nil {
		return 0
	}
	return f.BandEnergy[name]
}

// confidence is 1 minus the mean normalized distance of the tonal, level,
// and dynamics features from their target ranges, clamped to [0, 1]. It
// decreases monotonically as the mix drifts from the target profile.
// Silence carries no usable evidence, so it pins confidence to 0.
func confidence(f *types.FeatureVector, bass, high float64) float64 {
	if f.Silent {
		return 0
	}

	tonal := (rangeDistance(bass, BassRatioMin, BassRatioMax)/(BassRatioMax-BassRatioMin) +
		rangeDistance(high, HighRatioMin, HighRatioMax)/(HighRatioMax-HighRatioMin)) / 2
	level := rangeDistance(f.RMSLevel, RMSLevelMin, RMSLevelMax) / (RMSLevelMax - RMSLevelMin)
	dynamics := rangeDistance(f.DynamicRange, DynamicRangeMin, DynamicRangeMax) / (DynamicRangeMax - DynamicRangeMin)

	distance := (clamp01(tonal) + clamp01(level) + clamp01(dynamics)) / 3
	return clamp01(1 - distance)
}

// rangeDistance is 0 inside [low, high] and grows linearly outside it.
func rangeDistance(v, low, high float64) float64 {
	switch {
	case v < low:
		return low - v
	case v > high:
		return v - high
	default:
		return 0
	}
}

// synthesizeEQ emits the filter stages for the selected chain. Shelf gain
// on corrective chains scales with the size of the deficiency, clamped to
// a musical range.
func synthesizeEQ(chain string, bass, high float64) map[string]types.EQStage {
	eq := make(map[string]types.EQStage)

	switch chain {
	case types.ChainBright:
		eq["high_shelf"] = types.EQStage{
			FrequencyHz: highShelfFreq,
			GainDB:      deficiencyGain(high, HighRatioMin),
			Q:           stageQ,
		}
		eq["high_pass"] = types.EQStage{
			FrequencyHz: highPassFreq,
			Q:           stageQ,
		}
	case types.ChainWarm:
		eq["low_shelf"] = types.EQStage{
			FrequencyHz: lowShelfFreq,
			GainDB:      deficiencyGain(bass, BassRatioMin),
			Q:           stageQ,
		}
	default:
		eq["high_shelf"] = types.EQStage{
			FrequencyHz: highShelfFreq,
			GainDB:      balancedHighShelfGainDB,
			Q:           stageQ,
		}
		eq["low_shelf"] = types.EQStage{
			FrequencyHz: lowShelfFreq,
			GainDB:      balancedLowShelfGainDB,
			Q:           stageQ,
		}
	}

	return eq
}

// deficiencyGain maps how far a band ratio sits below its floor onto a
// shelf gain in [0, maxShelfGainDB].
func deficiencyGain(ratio, floor float64) float64 {
	if ratio >= floor {
		return 0
	}
	gain := (floor - ratio) / floor * maxShelfGainDB
	return math.Min(gain, maxShelfGainDB)
}

// synthesizeCompression picks compressor parameters from the measured
// level and the severity of the dynamics issue. Louder material gets a
// higher, less aggressive threshold.
func synthesizeCompression(f *types.FeatureVector) *types.CompressionParams {
	threshold := 20*math.Log10(math.Max(f.RMSLevel, 1e-6)) + compHeadroomDB
	threshold = math.Max(compThresholdMinDB, math.Min(compThresholdMaxDB, threshold))

	if f.DynamicRange > dynamicRangeSevere {
		return &types.CompressionParams{
			ThresholdDB: threshold,
			Ratio:       4.0,
			AttackMs:    10,
			ReleaseMs:   100,
		}
	}
	return &types.CompressionParams{
		ThresholdDB: threshold,
		Ratio:       2.5,
		AttackMs:    15,
		ReleaseMs:   120,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
