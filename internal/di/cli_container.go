package di

import (
	"io"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/logging"
)

// CLIFlags contains the command line flags shared by the CLI subcommands
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool

	// Corpus flags
	Locations []string
	FileType  string
	NoThreads bool

	// Clustering flags
	Strategy string

	// Review flags
	Provider string

	// Export flags
	ExportDir string
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		var cfg *config.Config
		var err error
		if flags.ConfigFile != "" {
			cfg, err = config.NewFromFile(flags.ConfigFile)
		} else {
			cfg, err = config.New()
		}
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}

		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(func() io.Writer { return os.Stdout }); err != nil {
		return nil, err
	}

	if err := provideComponents(container); err != nil {
		return nil, err
	}
	return container, nil
}

// applyFlags overlays the flags that were given on top of the configuration
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if len(flags.Locations) > 0 {
		cfg.Set("corpus.type", "local")
		cfg.Set("corpus.locations", flags.Locations)
	}
	if flags.FileType != "" {
		cfg.Set("corpus.file_type", flags.FileType)
	}
	if flags.NoThreads {
		cfg.Set("munge.use_threads", false)
	}
	if flags.Strategy != "" {
		cfg.Set("cluster.strategy", flags.Strategy)
	}
	if flags.Provider != "" {
		cfg.Set("review.enabled", true)
		cfg.Set("review.provider", flags.Provider)
	}
	if flags.ExportDir != "" {
		cfg.Set("export.dir", flags.ExportDir)
	}

	// The CLI prints its own output; snapshots stay in memory
	cfg.Set("snapshot.type", "memory")
	cfg.Set("report.type", "console")
}
