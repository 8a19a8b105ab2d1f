package config

import (
	"strings"
)

// maskSecret маскирует секрет, оставляя только первые 4 и последние 4 символа
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	// Если секрет слишком короткий, маскируем полностью
	if len(secret) < 8 {
		return "***"
	}

	// Оставляем первые 4 и последние 4 символа
	prefix := secret[:4]
	suffix := secret[len(secret)-4:]

	// Заменяем середину звездочками
	masked := strings.Repeat("*", len(secret)-8)

	return prefix + masked + suffix
}

// MaskTelegramToken маскирует Telegram токен для отображения в ошибках и логах
func MaskTelegramToken(token string) string {
	if token == "" {
		return ""
	}

	// Telegram token имеет формат <bot_id>:<token>
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		// Если формат неверный, маскируем как обычный секрет
		return maskSecret(token)
	}

	// Маскируем только часть токена, оставляя bot_id видимым для диагностики
	botID := parts[0]
	tokenPart := maskSecret(parts[1])

	return botID + ":" + tokenPart
}
