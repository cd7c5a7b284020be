package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ruberanziza1/alx-project-nexus/app/jobs"
	"github.com/ruberanziza1/alx-project-nexus/config"
	"github.com/ruberanziza1/alx-project-nexus/pkg/cache"
	"github.com/ruberanziza1/alx-project-nexus/pkg/database"
	"github.com/ruberanziza1/alx-project-nexus/pkg/queue"
	"github.com/ruberanziza1/alx-project-nexus/pkg/schedule"
)

var queueWorkersFlag int

// nexus queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start a standalone queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		cache.Connect() //nolint:errcheck

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		jobs.Register()
		queue.UseDB(database.DB)
		if cache.RDB != nil && config.Get("QUEUE_DRIVER", "memory") == "redis" {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// nexus schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  -", t)
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
