// Command resumectl renders, autofills and queries suggestions for resume
// documents stored as JSON files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "resumectl",
	Short:         "Resume document tooling",
	Long:          "resumectl exports resume JSON documents as DOCX or PDF, fills them from PDF resumes with OCR and AI parsing, and sends one-off suggestion prompts.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
