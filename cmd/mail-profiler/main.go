package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/di"
	"github.com/mikey/email-munger/internal/ports"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "", "Path to config file (default: search the standard locations)")
	resumeRun  = flag.String("resume", "", "Resume clustering from the latest snapshot of this run id")
)

func main() {
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer(*configFile)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	service *core.MungingService,
	sender ports.ReportSender,
	snapshots core.SnapshotRepository,
	reviewer core.ContactReviewer,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := snapshots.Close(); err != nil {
			logger.Error("Failed to close snapshot store", zap.Error(err))
		}
		// Close any resources that need closing
		if closer, ok := reviewer.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close contact reviewer", zap.Error(err))
			}
		}
	}()

	var report *core.RunReport
	var err error
	if *resumeRun != "" {
		report, err = service.Resume(ctx, *resumeRun)
	} else {
		report, err = service.Run(ctx)
	}
	if err != nil {
		logger.Error("Munging run failed", zap.Error(err))
		return err
	}

	if err := sender.Send(ctx, report); err != nil {
		return fmt.Errorf("failed to send run report: %w", err)
	}
	return nil
}
