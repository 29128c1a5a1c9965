package types

// BandMode selects how many frequency bands the extractor reports.
type BandMode int

const (
	// Bands3 splits the spectrum into bass / mid / high.
	Bands3 BandMode = 3
	// Bands5 splits the spectrum into bass / low_mid / mid / high_mid / high.
	Bands5 BandMode = 5
)

// AnalyzerConfig carries all knobs for a run. There are no package-level
// defaults; callers fill this from flags and thread it through.
type AnalyzerConfig struct {
	Bands       BandMode // 3 or 5 band split
	Concurrency int      // batch worker count
	Quiet       bool     // suppress per-file reports, errors only
	Verbose     bool     // include raw metric dump in text reports
	JSONOutput  bool     // one JSON record per file instead of text
}

// SampleBuffer is a decoded recording, already mixed down to mono.
// Samples are normalized to [-1, 1]. Channels records the channel count
// of the source before mixdown.
type SampleBuffer struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// Duration returns the buffer length in seconds.
func (b *SampleBuffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// FeatureVector is the fixed-shape measurement record derived from one
// SampleBuffer. The field set is the stable contract consumed by the
// suggestion engine, the formatters, and any external predictor.
type FeatureVector struct {
	DurationSeconds     float64            `json:"durationSeconds"`
	RMSLevel            float64            `json:"rmsLevel"`
	PeakLevel           float64            `json:"peakLevel"`
	DynamicRange        float64            `json:"dynamicRange"`
	DominantFrequencyHz float64            `json:"dominantFrequencyHz"`
	Silent              bool               `json:"silent"`
	BandEnergy          map[string]float64 `json:"bandEnergy"`
	SampleRate          int                `json:"sampleRate"`
	TotalSamples        int                `json:"totalSamples"`
}

// EQStage is one filter stage of a recommended chain.
type EQStage struct {
	FrequencyHz float64 `json:"frequencyHz"`
	GainDB      float64 `json:"gainDb"`
	Q           float64 `json:"q"`
}

// CompressionParams is emitted only when the dynamics of the material
// call for compression.
type CompressionParams struct {
	ThresholdDB float64 `json:"thresholdDb"`
	Ratio       float64 `json:"ratio"`
	AttackMs    float64 `json:"attackMs"`
	ReleaseMs   float64 `json:"releaseMs"`
}

// SaturationParams is part of the warm chain.
type SaturationParams struct {
	Drive float64 `json:"drive"`
}

// Overall assessment values.
const (
	AssessmentWellBalanced    = "well_balanced"
	AssessmentMinorIssues     = "minor_issues"
	AssessmentNeedsProcessing = "needs_processing"
)

// Processing chain archetypes.
const (
	ChainBalanced = "balanced"
	ChainBright   = "bright"
	ChainWarm     = "warm"
)

// Suggestion is the rule-driven recommendation derived from a FeatureVector.
type Suggestion struct {
	OverallAssessment string             `json:"overallAssessment"`
	RecommendedChain  string             `json:"recommendedChain"`
	Confidence        float64            `json:"confidence"`
	Issues            []string           `json:"issues"`
	EQ                map[string]EQStage `json:"eq"`
	Compression       *CompressionParams `json:"compression,omitempty"`
	Saturation        *SaturationParams  `json:"saturation,omitempty"`
}

// AnalysisResult is the per-file envelope used by batch output and the
// machine-readable report.
type AnalysisResult struct {
	FilePath   string         `json:"filePath"`
	Label      string         `json:"label,omitempty"`
	Format     string         `json:"format,omitempty"`
	Status     string         `json:"status"` // "OK", "ERROR"
	Features   *FeatureVector `json:"features,omitempty"`
	Suggestion *Suggestion    `json:"suggestion,omitempty"`
	Error      string         `json:"error,omitempty"`
}
