package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"availscan/internal/config"
	"availscan/internal/metrics"
	"availscan/internal/notify"
	"availscan/internal/prober"
	"availscan/internal/scanner"
	"availscan/internal/scheduler"
	"availscan/internal/server"
	"availscan/internal/version"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "availscan",
		Short:        "Availability scanner for popular online services",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "availscan.yml", "config file path")

	root.AddCommand(versionCmd())
	root.AddCommand(scanCmd())
	root.AddCommand(watchCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("availscan %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Scan repeatedly and send webhook notifications on failures",
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()
	out := cmd.OutOrStdout()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Info("config loaded",
		"services", len(cfg.Services),
		"interval", cfg.Scan.Interval.Duration,
	)
	if cfg.Webhook.URL == "" {
		logger.Warn("no webhook URL configured, notifications disabled",
			"env", config.EnvWebhookURL)
	}

	p := prober.New(cfg.Scan.Timeout.Duration)
	sc := scanner.New(cfg.Services, p)
	sc.SetOnResult(progressPrinter(out))

	m := metrics.New()
	runner := scheduler.New(sc, notify.New(cfg.Webhook.URL, logger), cfg.Scan.Interval.Duration, logger)
	runner.OnReport(m.Observe)
	runner.OnReport(func(report scanner.Report) {
		fmt.Fprintln(out)
		renderReport(out, report)
		fmt.Fprintln(out)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var httpServer *http.Server
	serverErr := make(chan error, 1)
	if cfg.Server.Address != "" {
		srv := server.New(m, logger)
		runner.OnReport(srv.SetReport)
		httpServer = &http.Server{
			Addr:    cfg.Server.Address,
			Handler: srv.Router(),
		}
		go func() {
			logger.Info("listening", "address", cfg.Server.Address)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErr <- err
			}
		}()
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- runner.Run(ctx)
	}()

	select {
	case err := <-runErr:
		if err != nil {
			return fmt.Errorf("scan loop: %w", err)
		}
	case err := <-serverErr:
		return fmt.Errorf("HTTP server: %w", err)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
