package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultMaxCompletionTokens int64 = 4096

// OpenAIClient talks to any OpenAI-compatible Chat Completions endpoint
// (Groq, OpenAI).
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float64
}

type OpenAIConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, msg Message) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}

	if strings.TrimSpace(msg.User) == "" {
		return "", ErrEmptyInput
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if system := strings.TrimSpace(msg.System); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(msg.User))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(c.model),
		Messages:            messages,
		Temperature:         openai.Float(c.temperature),
		MaxCompletionTokens: openai.Int(defaultMaxCompletionTokens),
	}, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion choices are missing (model = %s)", c.model)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w (finish reason = %s)", ErrEmptyOutput, resp.Choices[0].FinishReason)
	}

	return text, nil
}
