package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"subercraftex/config"
	"subercraftex/logger"

	"github.com/spf13/cobra"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "subercraftex",
	Short: "Booking backend for a tailoring and leather-craft workshop.",
	Long: `subercraftex takes customer bookings for on-site services, custom
production and collect-and-repair jobs, keeps the schedule free of double
bookings and notifies customers as their bookings move along.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		return logger.Setup(logger.Options{
			Level: cfg.Logging.Level,
			File:  cfg.Logging.File,
			JSON:  cfg.App.Env != "development",
		})
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newWorkerCommand())
}
