package di

import (
	"context"
	"io"
	"os"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-munger/internal/adapters/export"
	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/factory"
	"github.com/mikey/email-munger/internal/logging"
	"github.com/mikey/email-munger/internal/ports"
	"github.com/mikey/email-munger/internal/utils"
)

// BuildContainer creates and configures a dependency injection container.
// An empty configFile searches the default config locations.
func BuildContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		if configFile != "" {
			return config.NewFromFile(configFile)
		}
		return config.New()
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Console reports go to stdout
	if err := container.Provide(func() io.Writer { return os.Stdout }); err != nil {
		return nil, err
	}

	if err := provideComponents(container); err != nil {
		return nil, err
	}
	return container, nil
}

// provideComponents registers everything downstream of the config, the
// logger and the report writer.
func provideComponents(container *dig.Container) error {
	// Register factories
	for _, ctor := range []any{
		factory.NewMungeFactory,
		factory.NewSourceFactory,
		factory.NewSnapshotFactory,
		factory.NewReviewerFactory,
		factory.NewReportFactory,
	} {
		if err := container.Provide(ctor); err != nil {
			return err
		}
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register heuristics
	if err := container.Provide(func(f *factory.MungeFactory) (core.Settings, error) {
		return f.CreateSettings()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.MungeFactory) (core.ServiceOptions, error) {
		return f.CreateServiceOptions()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(settings core.Settings) *core.IdentityParser {
		return core.NewIdentityParser(settings.Sentinel, settings.RedactionCutoff)
	}); err != nil {
		return err
	}
	if err := container.Provide(core.NewDocumentParser); err != nil {
		return err
	}

	// Register corpus
	if err := container.Provide(func(f *factory.SourceFactory) (core.DocumentSource, error) {
		return f.CreateDocumentSource(context.Background())
	}); err != nil {
		return err
	}
	if err := container.Provide(core.NewCorpus); err != nil {
		return err
	}

	// Register snapshot repository
	if err := container.Provide(func(f *factory.SnapshotFactory) (core.SnapshotRepository, error) {
		return f.CreateSnapshotRepository()
	}); err != nil {
		return err
	}

	// Register contact reviewer, nil when review is disabled
	if err := container.Provide(func(f *factory.ReviewerFactory) (core.ContactReviewer, error) {
		return f.CreateContactReviewer(context.Background())
	}); err != nil {
		return err
	}

	// Register munging service
	if err := container.Provide(core.NewMungingService); err != nil {
		return err
	}

	// Register report sender
	if err := container.Provide(func(f *factory.ReportFactory) (ports.ReportSender, error) {
		return f.CreateReportSender()
	}); err != nil {
		return err
	}

	// Register exporter
	if err := container.Provide(func(cfg *config.Config, identity *core.IdentityParser, logger *zap.Logger) ports.Exporter {
		return export.NewEMLExporter(cfg.GetExport().Dir, identity, logger)
	}); err != nil {
		return err
	}

	return nil
}
