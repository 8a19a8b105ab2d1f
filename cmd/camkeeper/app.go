package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/aatumaykin/camkeeper/internal/config"
	"github.com/aatumaykin/camkeeper/internal/devices"
	"github.com/aatumaykin/camkeeper/internal/housekeeper"
	"github.com/aatumaykin/camkeeper/internal/logger"
	"github.com/aatumaykin/camkeeper/internal/metrics"
	"github.com/aatumaykin/camkeeper/internal/notify"
)

// app ties the housekeeper together with its notification channels.
type app struct {
	cfg  *config.Config
	log  *logger.Logger
	keep *housekeeper.Housekeeper

	notifiers *notify.Multi
	mqtt      *notify.MQTT

	// Runs are strictly sequential: a cron tick and a watcher trigger must
	// never overlap on the same tree.
	runMu sync.Mutex
}

// buildApp wires the housekeeper, device registry and notification channels
// from the validated config. m may be nil for one-shot runs.
func buildApp(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*app, error) {
	fs := afero.NewOsFs()

	var registry *devices.Registry
	if cfg.Devices.Path != "" {
		var err error
		registry, err = devices.Load(fs, cfg.Devices.Path)
		if err != nil {
			return nil, fmt.Errorf("cannot load device registry: %w", err)
		}
		log.Info("device registry loaded",
			logger.Field{Key: "path", Value: cfg.Devices.Path},
			logger.Field{Key: "devices", Value: registry.Len()})
	}

	keep := housekeeper.New(fs, housekeeper.Config{
		InboxDir:      cfg.Storage.InboxDir,
		ArchiveDir:    cfg.Storage.ArchiveDir,
		MinUnmodified: cfg.Archive.MinUnmodified(),
		MinFreeBytes:  cfg.Reclaim.MinFreeBytes(),
		ExtraBytes:    cfg.Reclaim.ExtraBytes(),
		DryRunDelete:  cfg.Reclaim.DryRun,
		DryRunMove:    cfg.Archive.DryRun,
		DryRunPrune:   cfg.Prune.DryRun,
	}, log, housekeeper.Deps{
		Metrics: m,
		Devices: registry,
	})

	a := &app{cfg: cfg, log: log, keep: keep}

	var channels []notify.Notifier
	tg, err := notify.NewTelegram(cfg.Channels.Telegram, log)
	if err != nil {
		return nil, err
	}
	if tg != nil {
		channels = append(channels, tg)
	}
	mq, err := notify.NewMQTT(cfg.MQTT, log)
	if err != nil {
		return nil, err
	}
	if mq != nil {
		channels = append(channels, mq)
		a.mqtt = mq
	}
	a.notifiers = notify.NewMulti(log, channels...)

	return a, nil
}

// runOnce performs one housekeeping pass and notifies the channels. The
// returned error is the run's structural error, already logged and reported.
func (a *app) runOnce(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	report, err := a.keep.RunOnce()

	event := &notify.Event{Report: report}
	if err != nil {
		event.RunErr = err.Error()
	}
	a.notifiers.Notify(ctx, event)

	return err
}

// close releases channel resources.
func (a *app) close() {
	if a.mqtt != nil {
		a.mqtt.Close()
	}
}
