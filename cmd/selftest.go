package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/trentbecknell/saucebox/internal/analyzer"
	"github.com/trentbecknell/saucebox/internal/report"
	"github.com/trentbecknell/saucebox/internal/suggest"
	"github.com/trentbecknell/saucebox/internal/types"
)

// Self-check signal parameters.
const (
	selftestFreqHz     = 440.0
	selftestAmplitude  = 0.3
	selftestSampleRate = 44100
	selftestSeconds    = 2
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the pipeline on a synthetic signal",
	Long: `selftest synthesizes a 440 Hz sine tone in memory, runs feature
extraction and the suggestion engine over it, checks the dominant
frequency lands on the tone, and prints the resulting report.`,
	Args: cobra.NoArgs,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

func runSelftest(cmd *cobra.Command, args []string) error {
	n := selftestSampleRate * selftestSeconds
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / selftestSampleRate
		samples[i] = selftestAmplitude * math.Sin(2*math.Pi*selftestFreqHz*t)
	}

	buf := &types.SampleBuffer{
		Samples:    samples,
		SampleRate: selftestSampleRate,
		Channels:   1,
	}

	features, err := analyzer.Extract(buf, types.Bands3)
	if err != nil {
		return fmt.Errorf("selftest extraction: %w", err)
	}

	// The dominant bin must land within one bin width of the tone.
	binWidth := float64(selftestSampleRate) / 65536
	if diff := math.Abs(features.DominantFrequencyHz - selftestFreqHz); diff > binWidth {
		return fmt.Errorf("selftest failed: dominant frequency %.2f Hz is %.2f Hz away from %.0f Hz",
			features.DominantFrequencyHz, diff, selftestFreqHz)
	}

	s := suggest.Suggest(features)
	result := &types.AnalysisResult{
		FilePath:   "selftest",
		Label:      fmt.Sprintf("synthetic %g Hz sine", selftestFreqHz),
		Format:     "synthetic",
		Status:     "OK",
		Features:   features,
		Suggestion: &s,
	}

	fmt.Print(report.Text(result, true))
	fmt.Println("\nselftest passed")
	return nil
}
