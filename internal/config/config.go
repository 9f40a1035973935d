package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     int
	LogLevel string
	APIToken string

	LLMProvider     string
	OllamaHost      string
	OllamaModel     string
	OllamaRecheck   time.Duration
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string

	FairUseThreshold float64
	MaxRetries       int
	RetryBackoff     time.Duration
	RetryBackoffMax  time.Duration
	SemanticScorer   string

	DatabaseURL string
	NatsURL     string
	NatsToken   string
}

func Load() Config {
	return Config{
		Port:     envInt("RECREATOR_PORT", 8760),
		LogLevel: envStr("LOG_LEVEL", "info"),
		APIToken: envStr("RECREATOR_API_TOKEN", ""),

		LLMProvider:     envStr("LLM_PROVIDER", "ollama"),
		OllamaHost:      envStr("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:     envStr("OLLAMA_MODEL", "eeve-korean-10.8b"),
		OllamaRecheck:   envDuration("OLLAMA_RECHECK_INTERVAL", 30*time.Second),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIModel:     envStr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   envStr("OPENAI_BASE_URL", ""),

		FairUseThreshold: envFloat("FAIR_USE_THRESHOLD", 0.70),
		MaxRetries:       envInt("GENERATION_MAX_RETRIES", 2),
		RetryBackoff:     envDuration("GENERATION_RETRY_BACKOFF", 0),
		RetryBackoffMax:  envDuration("GENERATION_RETRY_BACKOFF_MAX", 0),
		SemanticScorer:   envStr("SIMILARITY_SEMANTIC", "term"),

		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
