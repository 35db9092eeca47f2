package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	groqBaseURL = "https://api.groq.com/openai/v1/"
)

//nolint:gochecknoglobals // Read-only defaults per provider.
var defaultModels = map[string]string{
	ProviderGroq:      "llama-3.1-8b-instant",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	LLMProvider    string  `env:"LLM_PROVIDER"    envDefault:"groq"`
	LLMBaseURL     string  `env:"LLM_BASE_URL"`
	LLMModel       string  `env:"LLM_MODEL"`
	LLMTemperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.1"`
	LLMAPIKey      string  `env:"LLM_API_KEY"`

	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT"     envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"   envDefault:"3m"`
	UserAgent       string        `env:"USER_AGENT"        envDefault:"Mozilla/5.0"`
	MinContentChars int           `env:"MIN_CONTENT_CHARS" envDefault:"50"`
	YouTubeLangs    []string      `env:"YOUTUBE_LANGUAGES" envDefault:"en"`

	StuffMaxChars  int `env:"STUFF_MAX_CHARS" envDefault:"8000"`
	ChunkSize      int `env:"CHUNK_SIZE"      envDefault:"8000"`
	ChunkOverlap   int `env:"CHUNK_OVERLAP"   envDefault:"200"`
	MapParallelism int `env:"MAP_PARALLELISM" envDefault:"4"`

	SummaryCacheSize int           `env:"SUMMARY_CACHE_SIZE" envDefault:"256"`
	SummaryCacheTTL  time.Duration `env:"SUMMARY_CACHE_TTL"  envDefault:"1h"`
	CacheSweepSpec   string        `env:"CACHE_SWEEP_SPEC"   envDefault:"*/10 * * * *"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0.5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"3"`

	TelegramToken string  `env:"TELEGRAM_TOKEN"`
	AllowedUsers  []int64 `env:"ALLOWED_USERS"`
}

// Load reads an optional .env file and then parses the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file (path = %s): %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// BaseURL returns the configured endpoint, falling back to Groq for the groq provider.
func (c Config) BaseURL() string {
	if c.LLMBaseURL != "" {
		return c.LLMBaseURL
	}
	if c.LLMProvider == ProviderGroq {
		return groqBaseURL
	}

	return ""
}

// Model returns the configured model or the provider's default one.
func (c Config) Model() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}

	return defaultModels[c.LLMProvider]
}

func (c Config) validate() error {
	switch c.LLMProvider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.LLMProvider)
	}

	if c.MinContentChars < 0 {
		return errors.New("MIN_CONTENT_CHARS must not be negative")
	}

	if c.ChunkSize <= 0 || c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf(
			"chunk settings are invalid (size = %d, overlap = %d)",
			c.ChunkSize,
			c.ChunkOverlap,
		)
	}

	return nil
}
