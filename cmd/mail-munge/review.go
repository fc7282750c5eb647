package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mikey/email-munger/internal/core"
)

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVar(&flags.Provider, "provider", "", "Reviewer to use: bedrock, gemini or openai (default: from config)")
}

var reviewCmd = &cobra.Command{
	Use:   "review <raw>",
	Short: "Ask a language model to repair a mangled contact",
	Long: `Send a raw header value to the configured reviewer and print its suggested
name and address as JSON. Review must be enabled in the config or a provider given.

Examples:
  mail-munge review --provider openai "jsmith@example.com; Doe, Jane <jdoe@example.org>"`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	return invoke(func(service *core.MungingService, identity *core.IdentityParser) error {
		suggestion, err := service.Review(cmd.Context(), identity.Parse(args[0]))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(suggestion)
	})
}
