package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/trentbecknell/saucebox/internal/analyzer"
	"github.com/trentbecknell/saucebox/internal/report"
	"github.com/trentbecknell/saucebox/internal/types"
)

var (
	bridgeOutDir string
	bridgeBands  int
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <file> <label>",
	Short: "Analyze one file for a DAW host and write report files",
	Long: `bridge runs the analysis pipeline once for a file a DAW host has
exported, labelled with the track name, and writes the text and JSON
reports to deterministic paths under --out for the host to read back.
Any failure is reported on stderr with a non-zero exit and no partial
report files.`,
	Args: cobra.ExactArgs(2),
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().StringVar(&bridgeOutDir, "out", ".", "directory for the report files")
	bridgeCmd.Flags().IntVar(&bridgeBands, "bands", 3, "frequency band split (3 or 5)")
	rootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
	path, label := args[0], args[1]

	bands, err := bandMode(bridgeBands)
	if err != nil {
		return err
	}

	batch := analyzer.NewBatch(&types.AnalyzerConfig{
		Bands:       bands,
		Concurrency: runtime.NumCPU(),
	})

	result := batch.AnalyzeFile(path, label)
	if result.Status != "OK" {
		return fmt.Errorf("analyzing %s: %s", path, result.Error)
	}

	if err := report.WriteBridgeFiles(bridgeOutDir, result); err != nil {
		return err
	}

	fmt.Printf("ANALYSIS_SUCCESS: recommended chain - %s\n", result.Suggestion.RecommendedChain)
	fmt.Printf("Reports written to %s\n", bridgeOutDir)
	return nil
}
