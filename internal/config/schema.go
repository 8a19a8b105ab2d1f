// Package config provides configuration loading and validation for Camkeeper.
// It supports TOML configuration files with environment variable expansion,
// default values, and comprehensive validation.
//
// Configuration structure:
//   - [storage]: Inbox and archive directory roots
//   - [reclaim]: Free-space thresholds for the deletion phase
//   - [archive]: Staleness gate for the archival phase
//   - [prune]: Empty-directory removal phase
//   - [schedule]: Cron schedule and inbox watching for serve mode
//   - [logging]: Logging level, format, and output
//   - [devices]: Optional camera device registry
//   - [metrics]: Prometheus endpoint
//   - [channels.telegram]: Telegram run notifications
//   - [mqtt]: MQTT run notifications
//
// Environment variables:
// Environment variables can be referenced using ${VAR} or ${VAR:default} syntax.
// For example: token = "${CAMKEEPER_TG_TOKEN}"
package config

import "time"

// megabyte uses the decimal definition (1 MB = 1,000,000 bytes), matching how
// camera vendors and disk manufacturers report sizes.
const megabyte = 1_000_000

// Config represents the main application configuration.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Reclaim  ReclaimConfig  `toml:"reclaim"`
	Archive  ArchiveConfig  `toml:"archive"`
	Prune    PruneConfig    `toml:"prune"`
	Schedule ScheduleConfig `toml:"schedule"`
	Logging  LoggingConfig  `toml:"logging"`
	Devices  DevicesConfig  `toml:"devices"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Channels ChannelsConfig `toml:"channels"`
	MQTT     MQTTConfig     `toml:"mqtt"`
}

// StorageConfig представляет конфигурацию директорий
type StorageConfig struct {
	InboxDir   string `toml:"inbox_dir"`
	ArchiveDir string `toml:"archive_dir"`
}

// ReclaimConfig представляет конфигурацию фазы освобождения места
type ReclaimConfig struct {
	MinFreeSpaceMB  int64 `toml:"min_free_space_mb"`
	ExtraMBToDelete int64 `toml:"extra_mb_to_delete"`
	DryRun          bool  `toml:"dry_run"`
}

// MinFreeBytes returns the deletion-trigger threshold in bytes.
func (c *ReclaimConfig) MinFreeBytes() int64 {
	return c.MinFreeSpaceMB * megabyte
}

// ExtraBytes returns the amount to free past the threshold in bytes.
func (c *ReclaimConfig) ExtraBytes() int64 {
	return c.ExtraMBToDelete * megabyte
}

// ArchiveConfig представляет конфигурацию фазы архивации
type ArchiveConfig struct {
	MinUnmodifiedMinutes int  `toml:"min_unmodified_minutes"`
	DryRun               bool `toml:"dry_run"`
}

// MinUnmodified returns the staleness gate as a duration.
func (c *ArchiveConfig) MinUnmodified() time.Duration {
	return time.Duration(c.MinUnmodifiedMinutes) * time.Minute
}

// PruneConfig представляет конфигурацию фазы удаления пустых директорий
type PruneConfig struct {
	DryRun bool `toml:"dry_run"`
}

// ScheduleConfig представляет конфигурацию serve-режима
type ScheduleConfig struct {
	Cron          string `toml:"cron"`
	Timezone      string `toml:"timezone"`
	RunOnStart    bool   `toml:"run_on_start"`
	WatchInbox    bool   `toml:"watch_inbox"`
	SettleSeconds int    `toml:"settle_seconds"`
}

// SettleInterval returns the quiet period before a watch-triggered run.
func (c *ScheduleConfig) SettleInterval() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}

// LoggingConfig представляет конфигурацию логирования
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// DevicesConfig представляет конфигурацию реестра устройств
type DevicesConfig struct {
	Path string `toml:"path"`
}

// MetricsConfig представляет конфигурацию Prometheus endpoint
type MetricsConfig struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// ChannelsConfig представляет конфигурацию каналов уведомлений
type ChannelsConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
}

// TelegramConfig представляет конфигурацию Telegram канала
type TelegramConfig struct {
	Enabled            bool   `toml:"enabled"`
	Token              string `toml:"token"`
	ChatID             int64  `toml:"chat_id"`
	SendTimeoutSeconds int    `toml:"send_timeout_seconds"`
	NotifyOn           string `toml:"notify_on"` // always, errors
}

// SendTimeout returns the delivery timeout for Telegram messages.
func (c *TelegramConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// MQTTConfig представляет конфигурацию MQTT уведомлений
type MQTTConfig struct {
	Enabled               bool   `toml:"enabled"`
	Broker                string `toml:"broker"` // host:port
	ClientID              string `toml:"client_id"`
	Topic                 string `toml:"topic"`
	QoS                   int    `toml:"qos"`
	Username              string `toml:"username"`
	Password              string `toml:"password"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
}

// ConnectTimeout returns the broker connect timeout.
func (c *MQTTConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}
