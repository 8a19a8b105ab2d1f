package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := expandEnvVars(&cfg); err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	return &cfg, nil
}

// Validate проверяет валидность конфигурации
func (c *Config) Validate() []error {
	var errors []error

	// Проверка storage
	if c.Storage.InboxDir == "" {
		errors = append(errors, fmt.Errorf("storage.inbox_dir is required"))
	} else if err := validatePath(c.Storage.InboxDir, "storage.inbox_dir"); err != nil {
		errors = append(errors, err)
	}

	if c.Storage.ArchiveDir == "" {
		errors = append(errors, fmt.Errorf("storage.archive_dir is required"))
	} else if err := validatePath(c.Storage.ArchiveDir, "storage.archive_dir"); err != nil {
		errors = append(errors, err)
	}

	// Проверка reclaim
	if c.Reclaim.MinFreeSpaceMB < 0 {
		errors = append(errors, fmt.Errorf("reclaim.min_free_space_mb must be >= 0 (got %d)", c.Reclaim.MinFreeSpaceMB))
	}
	if c.Reclaim.ExtraMBToDelete < 0 {
		errors = append(errors, fmt.Errorf("reclaim.extra_mb_to_delete must be >= 0 (got %d)", c.Reclaim.ExtraMBToDelete))
	}

	// Проверка archive
	if c.Archive.MinUnmodifiedMinutes < 0 {
		errors = append(errors, fmt.Errorf("archive.min_unmodified_minutes must be >= 0 (got %d)", c.Archive.MinUnmodifiedMinutes))
	}

	// Проверка schedule
	if c.Schedule.SettleSeconds < 1 {
		errors = append(errors, fmt.Errorf("schedule.settle_seconds must be >= 1 (got %d)", c.Schedule.SettleSeconds))
	}

	// Проверка Telegram канала
	if c.Channels.Telegram.Enabled {
		if c.Channels.Telegram.Token == "" {
			errors = append(errors, fmt.Errorf("channels.telegram.token is required when telegram is enabled"))
		} else if err := validateTelegramToken(c.Channels.Telegram.Token); err != nil {
			errors = append(errors, err)
		}
		if c.Channels.Telegram.ChatID == 0 {
			errors = append(errors, fmt.Errorf("channels.telegram.chat_id is required when telegram is enabled"))
		}
		switch c.Channels.Telegram.NotifyOn {
		case "always", "errors":
		default:
			errors = append(errors, fmt.Errorf("invalid channels.telegram.notify_on: %s (expected: always, errors)", c.Channels.Telegram.NotifyOn))
		}
	}

	// Проверка MQTT
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			errors = append(errors, fmt.Errorf("mqtt.broker is required when mqtt is enabled"))
		}
		if c.MQTT.Topic == "" {
			errors = append(errors, fmt.Errorf("mqtt.topic is required when mqtt is enabled"))
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errors = append(errors, fmt.Errorf("mqtt.qos must be 0, 1 or 2 (got %d)", c.MQTT.QoS))
		}
	}

	// Проверка metrics
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		errors = append(errors, fmt.Errorf("metrics.listen_addr is required when metrics is enabled"))
	}

	// Проверка logging config
	if c.Logging.Level == "" {
		errors = append(errors, fmt.Errorf("logging.level is required"))
	} else {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[strings.ToLower(c.Logging.Level)] {
			errors = append(errors, fmt.Errorf("invalid logging.level: %s (expected: debug, info, warn, error)", c.Logging.Level))
		}
	}

	if c.Logging.Format == "" {
		errors = append(errors, fmt.Errorf("logging.format is required"))
	} else {
		validFormats := map[string]bool{"json": true, "text": true}
		if !validFormats[strings.ToLower(c.Logging.Format)] {
			errors = append(errors, fmt.Errorf("invalid logging.format: %s (expected: json, text)", c.Logging.Format))
		}
	}

	if c.Logging.Output == "" {
		errors = append(errors, fmt.Errorf("logging.output is required"))
	}

	return errors
}

// Helper validation functions
func validateTelegramToken(token string) error {
	if token == "" {
		return fmt.Errorf("telegram token cannot be empty")
	}

	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return fmt.Errorf("telegram token has invalid format (expected format: <bot_id>:<token>, got: %s)", maskSecret(token))
	}

	botID := parts[0]
	botToken := parts[1]

	if len(botID) < 3 || len(botID) > 15 {
		return fmt.Errorf("telegram token has invalid bot ID length (expected 3-15 digits, got %d digits)", len(botID))
	}

	// Check that bot ID contains only digits
	for _, r := range botID {
		if r < '0' || r > '9' {
			return fmt.Errorf("telegram token has invalid bot ID (expected digits only, got: %s)", botID)
		}
	}

	if len(botToken) < 10 || len(botToken) > 50 {
		return fmt.Errorf("telegram token has invalid token length (expected 10-50 characters, got %d)", len(botToken))
	}

	return nil
}

func validatePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	if strings.HasPrefix(path, "~") {
		return nil
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains potentially dangerous path traversal sequence", fieldName)
	}

	return nil
}

// expandEnvVars расширяет переменные окружения в конфигурации
func expandEnvVars(c *Config) error {
	// Telegram token
	if strings.HasPrefix(c.Channels.Telegram.Token, "${") {
		c.Channels.Telegram.Token = expandEnv(c.Channels.Telegram.Token)
	}

	// MQTT credentials
	if strings.HasPrefix(c.MQTT.Username, "${") {
		c.MQTT.Username = expandEnv(c.MQTT.Username)
	}
	if strings.HasPrefix(c.MQTT.Password, "${") {
		c.MQTT.Password = expandEnv(c.MQTT.Password)
	}

	// Directory roots
	if strings.HasPrefix(c.Storage.InboxDir, "${") {
		c.Storage.InboxDir = expandEnv(c.Storage.InboxDir)
	}
	c.Storage.InboxDir = expandHome(c.Storage.InboxDir)

	if strings.HasPrefix(c.Storage.ArchiveDir, "${") {
		c.Storage.ArchiveDir = expandEnv(c.Storage.ArchiveDir)
	}
	c.Storage.ArchiveDir = expandHome(c.Storage.ArchiveDir)

	// Device registry
	c.Devices.Path = expandHome(c.Devices.Path)

	return nil
}
