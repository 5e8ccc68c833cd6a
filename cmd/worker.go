package cmd

import (
	"errors"

	"subercraftex/logger"
	"subercraftex/services/notification"

	"github.com/spf13/cobra"
)

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued notifications from redis",
		Long: `worker runs only the notification worker. It needs NOTIFY_QUEUE=redis so
that jobs enqueued by a separate serve process reach it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Redis.Queue != "redis" {
				return errors.New("worker requires NOTIFY_QUEUE=redis")
			}
			ctx := cmd.Context()

			queue, closeQueue, err := openQueue(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			defer closeQueue()

			worker := notification.NewWorker(queue, notification.NewSender(cfg.Mail))
			logger.Success("Notification worker started")
			worker.Run(ctx)
			logger.Info("Notification worker stopped")
			return nil
		},
	}
}
