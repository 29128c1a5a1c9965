// Package report renders analysis results as a fixed-layout text block, a
// JSON record, and the two deterministic bridge files a DAW host reads back.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trentbecknell/saucebox/internal/types"
)

// Deterministic bridge output names. The host script polls for exactly
// these paths after the subprocess exits.
const (
	BridgeTextFile = "analysis_results.txt"
	BridgeJSONFile = "analysis_results.json"
)

const sectionRule = "------------------------------------------------------------"

// JSON marshals the full result record for downstream tooling.
func JSON(res *types.AnalysisResult) (string, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Text renders the human-readable report with its fixed section order:
// assessment, audio characteristics, frequency balance, suggestions,
// processing settings, next steps.
func Text(res *types.AnalysisResult, verbose bool) string {
	var b strings.Builder

	title := res.FilePath
	if res.Label != "" {
		title = res.Label
	}
	fmt.Fprintf(&b, "\n=== %s ===\n", filepath.Base(title))

	if res.Status != "OK" {
		fmt.Fprintf(&b, "Status: %s\n", res.Status)
		fmt.Fprintf(&b, "Error:  %s\n", res.Error)
		return b.String()
	}

	f := res.Features
	s := res.Suggestion

	fmt.Fprintf(&b, "\nOVERALL ASSESSMENT:\n%s\n", sectionRule)
	fmt.Fprintf(&b, "%s\n", assessmentText(s.OverallAssessment))
	fmt.Fprintf(&b, "Recommended chain: %s\n", strings.ToUpper(s.RecommendedChain))
	fmt.Fprintf(&b, "Confidence:        %.3f\n", s.Confidence)

	fmt.Fprintf(&b, "\nAUDIO CHARACTERISTICS:\n%s\n", sectionRule)
	fmt.Fprintf(&b, "Format:         %s\n", res.Format)
	fmt.Fprintf(&b, "Duration:       %.2f seconds\n", f.DurationSeconds)
	fmt.Fprintf(&b, "Sample rate:    %d Hz\n", f.SampleRate)
	fmt.Fprintf(&b, "RMS level:      %.3f\n", f.RMSLevel)
	fmt.Fprintf(&b, "Peak level:     %.3f\n", f.PeakLevel)
	fmt.Fprintf(&b, "Dynamic range:  %.2f\n", f.DynamicRange)
	if f.Silent {
		fmt.Fprintf(&b, "Signal is silent.\n")
	}

	fmt.Fprintf(&b, "\nFREQUENCY BALANCE:\n%s\n", sectionRule)
	for _, name := range bandOrder(f.BandEnergy) {
		fmt.Fprintf(&b, "%-10s %5.1f%%\n", bandLabel(name)+":", f.BandEnergy[name]*100)
	}
	fmt.Fprintf(&b, "Dominant frequency: %.0f Hz\n", f.DominantFrequencyHz)

	fmt.Fprintf(&b, "\nSUGGESTIONS:\n%s\n", sectionRule)
	if len(s.Issues) == 0 {
		fmt.Fprintf(&b, "No major issues detected.\n")
	}
	for i, issue := range s.Issues {
		fmt.Fprintf(&b, "%d. %s\n", i+1, issue)
	}

	fmt.Fprintf(&b, "\nRECOMMENDED PROCESSING SETTINGS:\n%s\n", sectionRule)
	writeEQ(&b, s.EQ)
	writeCompression(&b, s.Compression)
	writeSaturation(&b, s.Saturation)

	fmt.Fprintf(&b, "\nNEXT STEPS:\n%s\n", sectionRule)
	fmt.Fprintf(&b, "1. Apply the '%s' processing chain\n", s.RecommendedChain)
	fmt.Fprintf(&b, "2. A/B against the unprocessed mix\n")
	fmt.Fprintf(&b, "3. Adjust the parameters above to taste\n")
	fmt.Fprintf(&b, "4. Compare against a reference track\n")

	if verbose {
		fmt.Fprintf(&b, "\nDETAILED METRICS:\n%s\n", sectionRule)
		fmt.Fprintf(&b, "durationSeconds:     %.6f\n", f.DurationSeconds)
		fmt.Fprintf(&b, "rmsLevel:            %.6f\n", f.RMSLevel)
		fmt.Fprintf(&b, "peakLevel:           %.6f\n", f.PeakLevel)
		fmt.Fprintf(&b, "dynamicRange:        %.6f\n", f.DynamicRange)
		fmt.Fprintf(&b, "dominantFrequencyHz: %.6f\n", f.DominantFrequencyHz)
		for _, name := range bandOrder(f.BandEnergy) {
			fmt.Fprintf(&b, "band %-9s %.6f\n", name+":", f.BandEnergy[name])
		}
		fmt.Fprintf(&b, "totalSamples:        %d\n", f.TotalSamples)
	}

	return b.String()
}

// WriteBridgeFiles writes the text and JSON reports under dir on their
// deterministic names, creating dir when needed. Both files are written
// or neither; a host never sees a partial pair with an OK exit.
func WriteBridgeFiles(dir string, res *types.AnalysisResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating bridge output dir: %w", err)
	}

	jsonData, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding bridge report: %w", err)
	}

	textPath := filepath.Join(dir, BridgeTextFile)
	if err := os.WriteFile(textPath, []byte(Text(res, false)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", textPath, err)
	}

	jsonPath := filepath.Join(dir, BridgeJSONFile)
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	return nil
}

func assessmentText(assessment string) string {
	switch assessment {
	case types.AssessmentWellBalanced:
		return "Mix sounds well balanced."
	case types.AssessmentMinorIssues:
		return "Mix has minor issues that could be improved."
	default:
		return "Mix needs significant processing."
	}
}

// bandOrder returns band names from low to high frequency.
func bandOrder(bands map[string]float64) []string {
	rank := map[string]int{
		"bass": 0, "low_mid": 1, "mid": 2, "high_mid": 3, "high": 4,
	}
	names := make([]string, 0, len(bands))
	for name := range bands {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return rank[names[i]] < rank[names[j]] })
	return names
}

func bandLabel(name string) string {
	switch name {
	case "bass":
		return "Bass"
	case "low_mid":
		return "Low mids"
	case "mid":
		return "Mids"
	case "high_mid":
		return "High mids"
	case "high":
		return "Highs"
	}
	return name
}

func writeEQ(b *strings.Builder, eq map[string]types.EQStage) {
	if len(eq) == 0 {
		return
	}
	fmt.Fprintf(b, "EQ:\n")

	stages := make([]string, 0, len(eq))
	for name := range eq {
		stages = append(stages, name)
	}
	sort.Strings(stages)

	for _, name := range stages {
		stage := eq[name]
		switch name {
		case "high_pass":
			fmt.Fprintf(b, "  - High pass: %.0f Hz (Q %.1f)\n", stage.FrequencyHz, stage.Q)
		default:
			fmt.Fprintf(b, "  - %s: %+.1f dB @ %.0f Hz (Q %.1f)\n",
				stageLabel(name), stage.GainDB, stage.FrequencyHz, stage.Q)
		}
	}
}

func stageLabel(name string) string {
	switch name {
	case "high_shelf":
		return "High shelf"
	case "low_shelf":
		return "Low shelf"
	}
	return name
}

func writeCompression(b *strings.Builder, c *types.CompressionParams) {
	if c == nil {
		return
	}
	fmt.Fprintf(b, "Compression:\n")
	fmt.Fprintf(b, "  - Threshold: %.1f dB\n", c.ThresholdDB)
	fmt.Fprintf(b, "  - Ratio:     %.1f:1\n", c.Ratio)
	fmt.Fprintf(b, "  - Attack:    %.1f ms\n", c.AttackMs)
	fmt.Fprintf(b, "  - Release:   %.1f ms\n", c.ReleaseMs)
}

func writeSaturation(b *strings.Builder, s *types.SaturationParams) {
	if s == nil {
		return
	}
	fmt.Fprintf(b, "Saturation:\n")
	fmt.Fprintf(b, "  - Drive: %.2f\n", s.Drive)
}
