package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vidya",
	Short: "RAG backend for an educational platform",
	Long: `Vidya answers student questions from ingested textbook material.
It retrieves relevant passages from a vector store, merges textbook,
answer-cache and web sources, and asks a hosted model for an answer
constrained to that material.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
