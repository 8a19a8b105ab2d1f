package config

import "path/filepath"

// applyDefaults применяет значения по умолчанию
func applyDefaults(c *Config) {
	if c.Storage.InboxDir == "" {
		c.Storage.InboxDir = "~/uploads"
	}
	if c.Storage.ArchiveDir == "" {
		// Matches the layout produced by Reolink FTP uploads: the archive
		// lives right under the inbox.
		c.Storage.ArchiveDir = filepath.Join(c.Storage.InboxDir, "Archive")
	}

	if c.Reclaim.MinFreeSpaceMB == 0 {
		c.Reclaim.MinFreeSpaceMB = 2000
	}
	if c.Reclaim.ExtraMBToDelete == 0 {
		c.Reclaim.ExtraMBToDelete = 500
	}

	if c.Archive.MinUnmodifiedMinutes == 0 {
		c.Archive.MinUnmodifiedMinutes = 5
	}

	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "*/5 * * * *"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Local"
	}
	if c.Schedule.SettleSeconds == 0 {
		c.Schedule.SettleSeconds = 30
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9270"
	}

	if c.Channels.Telegram.SendTimeoutSeconds == 0 {
		c.Channels.Telegram.SendTimeoutSeconds = 10
	}
	if c.Channels.Telegram.NotifyOn == "" {
		c.Channels.Telegram.NotifyOn = "always"
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "camkeeper"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "camkeeper/runs"
	}
	if c.MQTT.ConnectTimeoutSeconds == 0 {
		c.MQTT.ConnectTimeoutSeconds = 5
	}
}
