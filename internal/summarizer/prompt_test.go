package summarizer_test

import (
	"testing"

	"linksummary/internal/summarizer"
)

func TestPromptRender(t *testing.T) {
	msg := summarizer.DefaultPrompt().Render("body")

	if msg.User != "Summarize this content:\n\nbody" {
		t.Fatalf("unexpected user prompt: %q", msg.User)
	}
	if msg.System != summarizer.DefaultSystemPrompt {
		t.Fatalf("unexpected system prompt: %q", msg.System)
	}
}

func TestPromptRenderAppendsTextWithoutPlaceholder(t *testing.T) {
	msg := summarizer.Prompt{UserTemplate: "TL;DR please"}.Render("body")

	if msg.User != "TL;DR please\n\nbody" {
		t.Fatalf("unexpected user prompt: %q", msg.User)
	}
}
