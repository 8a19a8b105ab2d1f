package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"

	"github.com/aatumaykin/camkeeper/internal/config"
	"github.com/aatumaykin/camkeeper/internal/logger"
)

// telegramBot is the slice of the Telego API the notifier uses.
// Выделен в интерфейс, чтобы тесты могли подставить заглушку.
type telegramBot interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Telegram sends run digests to a Telegram chat.
type Telegram struct {
	cfg config.TelegramConfig
	log *logger.Logger
	bot telegramBot
}

// NewTelegram builds the Telegram channel. Returns nil when the channel is
// disabled in config.
func NewTelegram(cfg config.TelegramConfig, log *logger.Logger) (*Telegram, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("cannot create telegram bot: %w", err)
	}

	log.Info("telegram notifications enabled",
		logger.Field{Key: "chat_id", Value: cfg.ChatID},
		logger.Field{Key: "notify_on", Value: cfg.NotifyOn})

	return &Telegram{cfg: cfg, log: log, bot: bot}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Notify sends a one-message digest of the run, honoring the notify_on
// policy: "errors" keeps quiet about clean runs.
func (t *Telegram) Notify(ctx context.Context, event *Event) error {
	if t.cfg.NotifyOn == NotifyErrors && !event.Failed() {
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, t.cfg.SendTimeout())
	defer cancel()

	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: t.cfg.ChatID},
		Text:   formatEvent(event),
	}
	if _, err := t.bot.SendMessage(sendCtx, params); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// formatEvent renders the message body for chat channels.
func formatEvent(event *Event) string {
	if event.RunErr != "" {
		return "❌ Housekeeping run failed: " + event.RunErr
	}

	r := event.Report
	icon := "✅"
	if r.Failures() > 0 {
		icon = "⚠️"
	}
	return fmt.Sprintf("%s Housekeeping run %s: %s", icon, r.RunID, r.Summary())
}
