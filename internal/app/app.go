// Package app wires configuration into a ready summary.Service shared by the
// web, bot and CLI front ends.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"linksummary/internal/config"
	"linksummary/internal/loader"
	"linksummary/internal/summarizer"
	"linksummary/internal/summary"
)

type App struct {
	Service *summary.Service
	Cache   *summary.Cache
	LLM     summarizer.LLM
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	llm, err := NewLLM(cfg)
	if err != nil {
		return nil, err
	}

	router := loader.NewRouter(loader.RouterConfig{
		Client:    &http.Client{Timeout: cfg.FetchTimeout},
		UserAgent: cfg.UserAgent,
		Languages: cfg.YouTubeLangs,
		MinChars:  cfg.MinContentChars,
	}, log)

	chain := summarizer.NewChain(llm, summarizer.ChainConfig{
		Prompt:         summarizer.DefaultPrompt(),
		StuffMaxChars:  cfg.StuffMaxChars,
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
		MapParallelism: cfg.MapParallelism,
	}, log)

	var cache *summary.Cache
	if cfg.SummaryCacheSize > 0 && cfg.SummaryCacheTTL > 0 {
		cache = summary.NewCache(cfg.SummaryCacheSize)
	}

	svc := summary.NewService(router, chain, cache, summary.Config{
		MinChars: cfg.MinContentChars,
		CacheTTL: cfg.SummaryCacheTTL,
	}, log)

	return &App{
		Service: svc,
		Cache:   cache,
		LLM:     llm,
	}, nil
}

// NewLLM returns the chat client for the configured provider. Groq and
// OpenAI share the OpenAI-compatible client.
func NewLLM(cfg config.Config) (summarizer.LLM, error) {
	switch cfg.LLMProvider {
	case config.ProviderGroq, config.ProviderOpenAI:
		return summarizer.NewOpenAIClient(summarizer.OpenAIConfig{
			BaseURL:     cfg.BaseURL(),
			Model:       cfg.Model(),
			Temperature: cfg.LLMTemperature,
		}), nil
	case config.ProviderAnthropic:
		return summarizer.NewAnthropicClient(summarizer.AnthropicConfig{
			BaseURL:     cfg.BaseURL(),
			Model:       cfg.Model(),
			Temperature: cfg.LLMTemperature,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
}

// ProviderName is the label shown in prompts for the user's API key.
func ProviderName(provider string) string {
	switch provider {
	case config.ProviderGroq:
		return "Groq"
	case config.ProviderOpenAI:
		return "OpenAI"
	case config.ProviderAnthropic:
		return "Anthropic"
	default:
		return ""
	}
}
