package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "reviewer",
	Short: "Automated multi-stage code review via a language model",
	Long: `reviewer walks a project directory, sends its source files to a
language-model service in budget-sized batches, and condenses the per-file
critiques into a single project report. Intermediate stage artifacts are
persisted so an interrupted run resumes where it stopped.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to reviewer.yaml (default: ./reviewer.yaml if present)")
	rootCmd.AddCommand(reviewCmd)
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
