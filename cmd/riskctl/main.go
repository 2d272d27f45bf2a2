// Command riskctl is the operator CLI for the landslide risk service:
// dataset inspection and validation, offline scoring, one-off assessments,
// and synthetic terrain generation.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Landslide risk service tooling",
	Long: "Inspects and validates terrain datasets, scores feature vectors offline, " +
		"runs single assessments against live upstreams, and generates synthetic terrain grids.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
