package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mroshb/liveroom/pkg/logger"
)

// Notifier posts operational alerts to a Telegram ops chat: failed durable
// writes and above-threshold agency transfers. A nil Notifier is a no-op,
// so the service runs fine without a bot token configured.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(botToken string, chatID int64) (*Notifier, error) {
	if botToken == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ops bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// SyncFailure reports a durable write that failed after its optimistic
// projection was rolled back.
func (n *Notifier) SyncFailure(opKind, opRef string, userID uint, cause error) {
	if n == nil {
		return
	}
	n.send(fmt.Sprintf("⚠️ durable write failed\nop: %s\nref: %s\nuser: %d\nerror: %v", opKind, opRef, userID, cause))
}

// LargeTransfer reports an agency transfer at or above the alert threshold.
func (n *Notifier) LargeTransfer(agentID, targetID uint, amount int64) {
	if n == nil {
		return
	}
	n.send(fmt.Sprintf("💰 large agency transfer\nagent: %d\ntarget: %d\namount: %d", agentID, targetID, amount))
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		logger.Warn("failed to send ops alert", "error", err)
	}
}
