package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/hotstock/backend/internal/api"
	"github.com/wonny/hotstock/backend/internal/api/handlers"
	"github.com/wonny/hotstock/backend/internal/scheduler"
	"github.com/wonny/hotstock/backend/internal/scheduler/jobs"
)

// serveCmd starts the API server plus the daily scheduler
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 API 服务器与定时任务",
	Long: `启动 REST API 服务器，并注册每日推荐定时任务。

Endpoints:
  GET  /health                       - Health check
  GET  /api/recommendations/latest   - 最近一次推荐 (JSON)
  GET  /api/report/latest            - 最近一次报告 (Markdown)
  POST /api/run                      - 立即执行一次推荐

Example:
  go run ./cmd/hotstock serve
  go run ./cmd/hotstock serve --port 8090 --no-scheduler`,
	RunE: runServe,
}

var (
	servePort        string
	serveNoScheduler bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 服务器端口 (覆盖 PORT)")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "不启动定时任务")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	// API server needs a store; without one the latest endpoints 404
	var repo handlers.RunStore
	if a.repo != nil {
		repo = a.repo
	}

	recHandler := handlers.NewRecommendationHandler(a.pipeline, repo, a.renderer, a.log)
	router := api.NewRouter(recHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	// Scheduler with the daily recommendation job
	var sched *scheduler.Scheduler
	if !serveNoScheduler {
		sched = scheduler.New(a.log)
		job := jobs.NewDailyRunJob(a.pipeline, repo, a.renderer, a.notifier, a.cfg.RunSchedule, a.log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register daily job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/recommendations/latest")
	fmt.Println("  GET  /api/report/latest")
	fmt.Println("  POST /api/run")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
