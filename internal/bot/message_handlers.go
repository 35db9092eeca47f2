package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"mvdan.cc/xurls/v2"

	"linksummary/internal/domain"
)

const welcomeText = `🤖 *Welcome to Link Summary\!*

Send me a link to a web page, a YouTube video or a feed and I will reply with a summary\.

– Articles and blog posts work best
– Login\-walled sites usually fail
– YouTube videos are summarized from their transcript when one is available`

const noURLText = "✖️ Send me a message with an http or https link\\."

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		text = strings.TrimSpace(message.Caption)
	}

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		return b.sendMessage(message.Chat.ID, 0, welcomeText)
	}

	rawURL, ok := extractURL(text)
	if !ok {
		return b.sendMessage(message.Chat.ID, message.MessageID, noURLText)
	}

	return b.whileTyping(ctx, message.Chat.ID, func() error {
		return b.handleURL(ctx, rawURL, message)
	})
}

func (b *Bot) handleURL(ctx context.Context, rawURL string, message *tgbotapi.Message) error {
	result, err := b.summarizer.Summarize(ctx, domain.Request{
		URL:    rawURL,
		APIKey: b.apiKey,
	})
	if err != nil {
		b.log.WarnContext(ctx, "Failed to summarize link",
			"error", err,
			"url", rawURL,
			"chatID", message.Chat.ID)

		if sendErr := b.sendMessage(message.Chat.ID, message.MessageID, formatError(err)); sendErr != nil {
			return fmt.Errorf("send error message: %w", sendErr)
		}

		return nil
	}

	b.log.InfoContext(ctx, "Link is summarized",
		"url", result.URL,
		"loader", result.Loader,
		"strategy", result.Strategy,
		"documents", result.Documents,
		"chars", result.Chars,
		"cached", result.Cached,
		"chatID", message.Chat.ID)

	if err = b.sendMessage(message.Chat.ID, message.MessageID, formatResult(result)); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	return nil
}

// extractURL returns the first http(s) link found in text.
func extractURL(text string) (string, bool) {
	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return "", false
	}

	found := re.FindString(text)
	if found == "" {
		return "", false
	}

	return found, true
}
