package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"linksummary/internal/domain"
	"linksummary/internal/markdown"
	"linksummary/internal/summary"
)

const telegramMessageMaxLength = 4096

func formatResult(result domain.Result) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder

	b.WriteString("📝 *Summary*\n")
	b.WriteString(markdown.EscapeV2(result.URL))
	b.WriteString("\n\n")

	if result.Notice != "" {
		b.WriteString("⚠️ _")
		b.WriteString(markdown.EscapeV2(result.Notice))
		b.WriteString("_\n\n")
	}

	b.WriteString(markdown.EscapeV2(strings.TrimSpace(result.Summary)))
	b.WriteString("\n\n")
	b.WriteString(markdown.EscapeV2(p.Sprintf(
		"Documents: %d · Characters: %d", result.Documents, result.Chars)))

	if result.Cached {
		b.WriteString(" · cached")
	}

	return b.String()
}

func formatError(err error) string {
	text := summary.UserMessage(err, "")

	var tooShort *summary.ContentTooShortError
	if errors.As(err, &tooShort) || summary.IsInputError(err) {
		return "⚠️ " + markdown.EscapeV2(text)
	}

	return "❌ " + markdown.EscapeV2(text)
}

// sendMessage sends MarkdownV2 text, splitting it into as many messages as
// Telegram's length limit requires. The first part replies to replyTo when
// it is set.
func (b *Bot) sendMessage(chatID int64, replyTo int, text string) error {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.Warn("Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	var errs []error

	for i, part := range markdown.Split(normalizedText, telegramMessageMaxLength) {
		msg := tgbotapi.NewMessage(chatID, part)

		// See https://core.telegram.org/bots/api#markdownv2-style.
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.DisableWebPagePreview = true

		if i == 0 && replyTo != 0 {
			msg.ReplyToMessageID = replyTo
		}

		if _, err := b.rateLimiter.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("send part %d: %w", i+1, err))
		}
	}

	return errors.Join(errs...)
}
