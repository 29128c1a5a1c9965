package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/trentbecknell/saucebox/internal/analyzer"
	"github.com/trentbecknell/saucebox/internal/types"
)

var (
	analyzeVerbose bool
	analyzeJSON    bool
	analyzeQuiet   bool
	analyzeBands   int
	concurrency    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]...",
	Short: "Analyze audio files and print mix reports",
	Long: `Analyze one or more WAV/FLAC files, or directories of them, and
print a report per file: feature measurements, detected issues, and the
recommended processing chain with its parameters.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "include raw metric values in the report")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit one JSON record per file")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "suppress reports, print errors only")
	analyzeCmd.Flags().IntVar(&analyzeBands, "bands", 3, "frequency band split (3 or 5)")
	analyzeCmd.Flags().IntVarP(&concurrency, "concurrency", "j", runtime.NumCPU(), "number of files analyzed in parallel")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	bands, err := bandMode(analyzeBands)
	if err != nil {
		return err
	}

	config := &types.AnalyzerConfig{
		Bands:       bands,
		Concurrency: concurrency,
		Quiet:       analyzeQuiet,
		Verbose:     analyzeVerbose,
		JSONOutput:  analyzeJSON,
	}

	batch := analyzer.NewBatch(config)
	files, err := batch.CollectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported audio files found")
	}

	return batch.Run(files)
}

func bandMode(n int) (types.BandMode, error) {
	switch n {
	case 3:
		return types.Bands3, nil
	case 5:
		return types.Bands5, nil
	}
	return 0, fmt.Errorf("invalid --bands value %d, must be 3 or 5", n)
}
