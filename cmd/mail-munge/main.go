// Package main implements mail-munge, a CLI for poking at single pieces of
// an OCR email dump: splitting a document, parsing a contact, clustering.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/email-munger/internal/di"
)

var flags = &di.CLIFlags{}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mail-munge",
	Short: "Inspect and clean OCR'd email dumps",
	Long: `mail-munge splits OCR'd email dumps into messages, parses the people named in
their headers and clusters them into profiles.

Settings come from the same config file as mail-profiler; flags override it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringSliceVar(&flags.Locations, "location", nil, "Corpus directory (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flags.FileType, "file-type", "", "Corpus file suffix, e.g. .txt")
	rootCmd.PersistentFlags().BoolVar(&flags.NoThreads, "no-threads", false, "Do not keep forwarded/replied threads with their parent")
}

// invoke builds the CLI container and runs fn with its dependencies
func invoke(fn any) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return err
	}
	return container.Invoke(fn)
}

// syncLogger flushes the logger, ignoring the error stderr syncs return on some platforms
func syncLogger(logger *zap.Logger) {
	_ = logger.Sync()
}
