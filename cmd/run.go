package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"invoice-transformer/internal/config"
	"invoice-transformer/internal/logger"
	"invoice-transformer/internal/notify"
	"invoice-transformer/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the transformation pipeline until interrupted",
	Long: `Start the file lifecycle coordinator: scan the input directory backlog,
watch for newly deposited files, poll as a safety net, and transform each
SalesInvoicePrint document exactly once.

Successful sources are archived (or deleted, per ARCHIVE_PROCESSED); failed
sources are quarantined in the error directory together with a diagnostic
sidecar. Outcome notifications and the daily summary are mailed when
NOTIFY_ENABLED is set.

The pipeline stops on SIGINT/SIGTERM after finishing the file currently in
flight.`,
	Example: `  # Run with settings from the environment / .env
  invoice-transformer run

  # Delete processed sources instead of archiving them
  ARCHIVE_PROCESSED=false invoice-transformer run`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("run")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink notify.Sink = notify.NopSink{}
	if cfg.NotifyEnabled {
		sink = notify.NewMailer(notify.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
			To:       cfg.MailTo,
		})
	}
	dispatcher := notify.NewDispatcher(sink, 0)

	// The dispatcher outlives the coordinator slightly so the final summary
	// still goes out: it gets its own context canceled after Run returns.
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	go dispatcher.Run(notifyCtx)

	coordinator := pipeline.New(pipeline.Config{
		InputDir:         cfg.InputDir,
		OutputDir:        cfg.OutputDir,
		ArchiveDir:       cfg.ArchiveDir,
		ErrorDir:         cfg.ErrorDir,
		ArchiveProcessed: cfg.ArchiveProcessed,
		PollInterval:     cfg.PollInterval,
		SettleDelay:      cfg.SettleDelay,
		LockRetryMax:     cfg.LockRetryMax,
		LockRetryBase:    cfg.LockRetryBase,
		SummaryAt:        cfg.SummaryAt,
	}, dispatcher)

	log.Info().
		Str("input", cfg.InputDir).
		Str("output", cfg.OutputDir).
		Bool("archive", cfg.ArchiveProcessed).
		Bool("notify", cfg.NotifyEnabled).
		Msg("Starting invoice transformation pipeline")

	err = coordinator.Run(ctx)

	stopNotify()
	dispatcher.Wait()

	if err != nil {
		log.Error().Err(err).Msg("Pipeline stopped with error")
		return err
	}
	log.Info().Msg("Pipeline stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
