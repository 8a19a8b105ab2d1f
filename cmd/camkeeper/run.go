package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/camkeeper/internal/config"
	"github.com/aatumaykin/camkeeper/internal/logger"
)

var (
	runConfigPath string
	runDebug      bool
	runDryRun     bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one housekeeping pass and exit",
	Long: `Perform a single housekeeping pass: reclaim archive space, move
settled uploads into the date-partitioned archive and prune empty
directories. Designed for external schedulers (cron, systemd timers).`,
	Run: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	configPath := runConfigPath
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if errors := cfg.Validate(); len(errors) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errors {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	if runDebug {
		cfg.Logging.Level = "debug"
	}
	// --dry-run simulates every phase regardless of per-phase config
	if runDryRun {
		cfg.Reclaim.DryRun = true
		cfg.Archive.DryRun = true
		cfg.Prune.DryRun = true
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
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "inbox", Value: cfg.Storage.InboxDir},
		logger.Field{Key: "archive", Value: cfg.Storage.ArchiveDir},
		logger.Field{Key: "dry_run", Value: runDryRun})

	a, err := buildApp(cfg, log, nil)
	if err != nil {
		log.Error("Failed to initialize", err)
		os.Exit(1)
	}
	defer a.close()

	if err := a.runOnce(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "Simulate all phases without touching files")
}
