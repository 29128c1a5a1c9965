package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "saucebox",
	Short: "Analyze a mix and suggest EQ and dynamics processing",
	Long: `saucebox analyzes a PCM recording (WAV or FLAC), measures its
loudness, dynamics, and spectral balance, and derives a deterministic
recommendation of EQ and compression parameters aimed at a professional
target profile. It only emits parameters; applying them is left to the
effect units in your DAW.`,
	SilenceUsage: true,
}

// Execute runs the root command, printing any error to stderr and
// exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("saucebox version {{.Version}}\n")
	rootCmd.Version = version
}
