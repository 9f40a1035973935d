package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newskoo/recreator/internal/anthropic"
	"github.com/newskoo/recreator/internal/api"
	"github.com/newskoo/recreator/internal/config"
	"github.com/newskoo/recreator/internal/hermes"
	"github.com/newskoo/recreator/internal/llm"
	"github.com/newskoo/recreator/internal/ollama"
	"github.com/newskoo/recreator/internal/openai"
	"github.com/newskoo/recreator/internal/processor"
	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/similarity"
	"github.com/newskoo/recreator/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("recreator starting", "port", cfg.Port, "provider", cfg.LLMProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Text generator, shared by every request and event.
	gen, model, err := newGenerator(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up text generator", "error", err)
		os.Exit(1)
	}
	gen = llm.Serialized(gen)

	semantic, err := similarity.SemanticByName(cfg.SemanticScorer)
	if err != nil {
		slog.Error("invalid SIMILARITY_SEMANTIC", "error", err)
		os.Exit(1)
	}

	policy := recreation.NewPolicy(cfg.MaxRetries, cfg.RetryBackoff, cfg.RetryBackoffMax)
	rec := recreation.New(gen, similarity.NewScorer(semantic), recreation.Options{
		Retry:     &policy,
		Threshold: cfg.FairUseThreshold,
	}, slog.Default())

	opts := api.Options{
		Port:     cfg.Port,
		APIToken: cfg.APIToken,
		Provider: cfg.LLMProvider,
		Model:    model,
	}

	// Database (optional, enables the draft routes)
	var drafts processor.DraftStore
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare schema", "error", err)
			os.Exit(1)
		}
		drafts = db
		opts.Drafts = db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, drafts are not persisted")
	}

	// NATS/Hermes (optional, enables events and the inspiration subscriber)
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		opts.Bus = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)

		proc := processor.New(ctx, rec, drafts, hermesClient, slog.Default())
		if err := hermesClient.Subscribe(hermes.SubjectInspirationCreated, proc.HandleInspirationCreated); err != nil {
			slog.Error("failed to subscribe to inspiration events", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("NATS_URL not set, running without events")
	}

	// HTTP API
	srv := api.NewServer(rec, opts, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("recreator ready", "port", cfg.Port, "model", model, "generator_ready", rec.Ready())

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	// In-flight inspiration handlers get until the deadline to finish and
	// publish; whatever is still generating after that is cancelled.
	if hermesClient != nil {
		hermesClient.Close(shutdownCtx)
	}
	cancel()
	slog.Info("recreator stopped")
}

// newGenerator builds the configured backend and returns it with its model name.
func newGenerator(ctx context.Context, cfg config.Config) (llm.Generator, string, error) {
	switch cfg.LLMProvider {
	case "ollama":
		c := ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel, slog.Default())
		if err := c.Load(ctx); err != nil {
			// The API still starts; status reports not ready until the
			// watcher finds the model.
			slog.Warn("ollama model not loaded", "model", cfg.OllamaModel, "error", err)
		} else {
			slog.Info("text generator loaded", "backend", c.Name())
		}
		go c.Watch(ctx, cfg.OllamaRecheck)
		return c, cfg.OllamaModel, nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, "", fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel), cfg.AnthropicModel, nil
	case "openai":
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			return nil, "", err
		}
		return c, cfg.OpenAIModel, nil
	default:
		return nil, "", fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
