package cmd

import (
	"fmt"
	"net"
	"time"

	"subercraftex/database"
	"subercraftex/logger"
	"subercraftex/routes"
	"subercraftex/services/availability"
	bookingService "subercraftex/services/booking"
	"subercraftex/services/notification"
	"subercraftex/services/quote_estimator"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		inProcessWorker bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := database.InitDB(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			queue, closeQueue, err := openQueue(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer closeQueue()

			// The memory queue has no other consumer, so its worker always runs here.
			if inProcessWorker || cfg.Redis.Queue == "memory" {
				worker := notification.NewWorker(queue, notification.NewSender(cfg.Mail))
				go worker.Run(ctx)
			}

			bookings := bookingService.NewService(db, notification.NewDispatcher(queue), cfg.Booking)
			estimator, err := quote_estimator.New(ctx, cfg.Gemini)
			if err != nil {
				logger.Warning("quote estimation disabled", "error", err.Error())
			} else if estimator != nil {
				bookings.WithEstimator(estimator)
			}

			calculator, err := availability.NewCalculator(db, cfg.Booking)
			if err != nil {
				return err
			}

			var requestLog *logger.AsyncLogger
			if cfg.Logging.Requests {
				requestLog = logger.NewAsyncLogger(db)
				go requestLog.ProcessLog(ctx)
			}

			app := routes.NewApp(cfg.App.FrontendURL)
			routes.SetupRoutes(app, routes.Dependencies{
				DB:           db,
				Bookings:     bookings,
				Availability: calculator,
				JWTSecret:    cfg.Auth.JWTSecret,
				RequestLog:   requestLog,
			})

			addr := net.JoinHostPort(cfg.App.Host, cfg.App.Port)
			listenErr := make(chan error, 1)
			go func() {
				listenErr <- app.Listen(addr)
			}()
			logger.Success("Server is running", "addr", addr, "env", cfg.App.Env)

			select {
			case err := <-listenErr:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down server", "timeout", shutdownTimeout)
			if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&inProcessWorker, "worker", true, "Run the notification worker inside the server process")
	return cmd
}
