package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultTypingInterval = 4 * time.Second

// sendTyping shows the "typing" status, which Telegram clears after about
// five seconds or when the next message arrives.
func (b *Bot) sendTyping(ctx context.Context, chatID int64) {
	if _, err := b.rateLimiter.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.WarnContext(ctx, "Failed to send typing action",
			"error", err,
			"chatID", chatID)
	}
}

// whileTyping runs fn and keeps the typing status visible until it returns.
func (b *Bot) whileTyping(ctx context.Context, chatID int64, fn func() error) error {
	typingCtx, stop := context.WithCancel(ctx)
	defer stop()

	interval := b.typingInterval
	if interval <= 0 {
		interval = defaultTypingInterval
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			b.sendTyping(typingCtx, chatID)

			select {
			case <-typingCtx.Done():
				return
			case <-t.C:
			}
		}
	}()

	return fn()
}
