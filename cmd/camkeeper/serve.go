package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/aatumaykin/camkeeper/internal/config"
	"github.com/aatumaykin/camkeeper/internal/logger"
	"github.com/aatumaykin/camkeeper/internal/metrics"
	"github.com/aatumaykin/camkeeper/internal/pidfile"
	"github.com/aatumaykin/camkeeper/internal/watcher"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run Camkeeper as a daemon (main command)",
	Long: `Run Camkeeper as a long-lived daemon: housekeeping passes fire on a
cron schedule, and optionally whenever inbox upload activity settles. A PID
file guards against a second instance working the same tree.

The serve command is the main entry point for running Camkeeper.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	// Load .env file if exists
	if err := config.LoadEnvOptional("./.env"); err != nil {
		fmt.Printf("❌ Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configPath := serveConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 Starting Camkeeper",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "inbox", Value: cfg.Storage.InboxDir},
		logger.Field{Key: "archive", Value: cfg.Storage.ArchiveDir},
		logger.Field{Key: "schedule", Value: cfg.Schedule.Cron})

	// The PID lock lives in the inbox root, so any instance pointed at the
	// same tree sees it
	if err := os.MkdirAll(cfg.Storage.InboxDir, 0755); err != nil {
		log.Error("Failed to create inbox directory", err)
		os.Exit(1)
	}
	if err := pidfile.Acquire(cfg.Storage.InboxDir); err != nil {
		log.Error("Failed to acquire PID lock", err)
		os.Exit(1)
	}
	defer pidfile.Release(cfg.Storage.InboxDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Metrics endpoint
	var m *metrics.Metrics
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.Init("camkeeper", registry)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			log.Info("📊 Metrics endpoint listening",
				logger.Field{Key: "addr", Value: cfg.Metrics.ListenAddr})
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server failed", err)
			}
		}()
	}

	a, err := buildApp(cfg, log, m)
	if err != nil {
		log.Error("Failed to initialize", err)
		os.Exit(1)
	}
	defer a.close()

	// Cron schedule
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Error("Invalid timezone", err,
			logger.Field{Key: "timezone", Value: cfg.Schedule.Timezone})
		os.Exit(1)
	}
	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.Schedule.Cron, func() {
		if err := a.runOnce(ctx); err != nil {
			log.Error("Scheduled run failed", err)
		}
	}); err != nil {
		log.Error("Invalid cron schedule", err,
			logger.Field{Key: "cron", Value: cfg.Schedule.Cron})
		os.Exit(1)
	}
	scheduler.Start()

	// Inbox watcher
	var inboxWatcher *watcher.Watcher
	if cfg.Schedule.WatchInbox {
		inboxWatcher, err = watcher.New(cfg.Storage.InboxDir, cfg.Schedule.SettleInterval(), log)
		if err != nil {
			log.Error("Failed to start inbox watcher", err)
			os.Exit(1)
		}
		go inboxWatcher.Run(ctx)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-inboxWatcher.Trigger():
					log.Info("📥 Inbox settled, starting housekeeping run")
					if err := a.runOnce(ctx); err != nil {
						log.Error("Watch-triggered run failed", err)
					}
				}
			}
		}()
	}

	if cfg.Schedule.RunOnStart {
		if err := a.runOnce(ctx); err != nil {
			log.Error("Startup run failed", err)
		}
	}

	log.Info("✅ Camkeeper is running")

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("⏳ Received shutdown signal",
		logger.Field{Key: "signal", Value: sig.String()})

	log.Info("🛑 Shutting down Camkeeper...")
	cancel()

	// Wait for an in-flight run to finish
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	if inboxWatcher != nil {
		if err := inboxWatcher.Close(); err != nil {
			log.Error("Failed to stop inbox watcher", err)
		}
	}
	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to stop metrics server", err)
		}
		shutdownCancel()
	}

	log.Info("👋 Camkeeper stopped gracefully")
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Override log level (debug, info, warn, error)")
}
