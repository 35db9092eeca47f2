package ratelimiter

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type recordingAPI struct {
	mu    sync.Mutex
	sent  []tgbotapi.Chattable
	times []time.Time
}

func (a *recordingAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sent = append(a.sent, c)
	a.times = append(a.times, time.Now())

	return tgbotapi.Message{MessageID: len(a.sent)}, nil
}

func (a *recordingAPI) Request(_ tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestGetDelay(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		chatID   int64
		lastSent time.Time
		wantZero bool
	}{
		{"Private chat - no delay needed", 123456789, now.Add(-2 * time.Second), true},
		{"Private chat - delay needed", 123456789, now.Add(-500 * time.Millisecond), false},
		{"Group chat - no delay needed", -123456789, now.Add(-4 * time.Second), true},
		{"Group chat - delay needed", -123456789, now.Add(-1 * time.Second), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := getDelay(test.chatID, test.lastSent)

			if test.wantZero && got > 0 {
				t.Errorf("Expected zero delay, got %v", got)
			}

			if !test.wantZero && got <= 0 {
				t.Errorf("Expected positive delay, got %v", got)
			}
		})
	}
}

func TestGetChatID(t *testing.T) {
	tests := []struct {
		name    string
		message tgbotapi.Chattable
		want    int64
	}{
		{"MessageConfig", tgbotapi.NewMessage(12345, "test"), 12345},
		{"ChatActionConfig", tgbotapi.NewChatAction(67890, tgbotapi.ChatTyping), 67890},
		{"EditMessageTextConfig", tgbotapi.NewEditMessageText(-100, 7, "edited"), -100},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := getChatID(test.message); got != test.want {
				t.Errorf("Expected %v chatID, got %v", test.want, got)
			}
		})
	}
}

func TestSendSpacesMessagesToSameChat(t *testing.T) {
	api := &recordingAPI{}
	rl := New(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer rl.Stop()

	for range 2 {
		if _, err := rl.Send(tgbotapi.NewMessage(42, "hello")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	api.mu.Lock()
	defer api.mu.Unlock()

	if len(api.times) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(api.times))
	}

	if gap := api.times[1].Sub(api.times[0]); gap < privateChatRate-50*time.Millisecond {
		t.Fatalf("expected sends to be spaced by about %v, got %v", privateChatRate, gap)
	}
}

func TestSendAfterStopFails(t *testing.T) {
	rl := New(&recordingAPI{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rl.Stop()

	if _, err := rl.Send(tgbotapi.NewMessage(1, "late")); err == nil {
		t.Fatalf("expected error after stop")
	}
}
