package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/ports"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&flags.ExportDir, "dir", "", "Output directory (default: from config)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every genuine email of the corpus as an .eml file",
	Long: `Split every document in the corpus and write each genuine email as
<doc-id>-<n>.eml, ready for ordinary mail tooling.

Examples:
  mail-munge export --location dump/ --dir eml/`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	return invoke(func(corpus *core.Corpus, exporter ports.Exporter, logger *zap.Logger) error {
		defer syncLogger(logger)

		var documents, files int
		for doc, err := range corpus.Documents(cmd.Context()) {
			if err != nil {
				return err
			}
			paths, err := exporter.Export(cmd.Context(), doc)
			if err != nil {
				return err
			}
			documents++
			files += len(paths)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d emails from %d documents\n", files, documents)
		return nil
	})
}
