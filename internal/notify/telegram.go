// Package notify pushes new-submission alerts to the operations channels: a
// Telegram chat and an optional webhook. Both are best effort; a failed
// notification never fails the submission.
package notify

import (
	"fmt"

	"pontotaxi/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier sends new-message alerts to a fixed ops chat.
type TelegramNotifier struct {
	Bot    *tgbotapi.BotAPI
	ChatID int64
	Log    *zap.Logger
}

// NewTelegramNotifier connects the bot. Returns an error when the token is
// rejected; callers treat a nil notifier as disabled.
func NewTelegramNotifier(token string, chatID int64, log *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TelegramNotifier{Bot: bot, ChatID: chatID, Log: log}, nil
}

// NotifyNewMessage posts a short alert for the submission.
func (n *TelegramNotifier) NotifyNewMessage(msg *models.Message) {
	text := fmt.Sprintf("📩 *%s*\nProtocolo: `%s`\nAssunto: %s",
		msg.Type, msg.Protocol, msg.Subject)

	tgMsg := tgbotapi.NewMessage(n.ChatID, text)
	tgMsg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.Bot.Send(tgMsg); err != nil {
		n.Log.Warn("telegram notification failed",
			zap.String("protocol", msg.Protocol), zap.Error(err))
	}
}
