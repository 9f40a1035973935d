package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/newskoo/recreator/internal/llm"
)

const defaultTimeout = 3 * time.Minute

// Client generates text with a model served by a local Ollama instance.
// It is not ready until Load has confirmed the model is available.
type Client struct {
	host   string
	model  string
	client *http.Client
	logger *slog.Logger
	ready  atomic.Bool
}

func NewClient(host, model string, logger *slog.Logger) *Client {
	return &Client{
		host:  strings.TrimRight(host, "/"),
		model: model,
		// Local generations often run past a minute; callers bound latency with ctx.
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

func (c *Client) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *Client) Ready() bool {
	return c.ready.Load()
}

// Load checks that the configured model is present on the server and marks
// the client ready.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("build tags request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("list models: ollama returned %s", resp.Status)
	}

	var tags struct {
		Models []struct {
			Name  string `json:"name"`
			Model string `json:"model"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("decode model list: %w", err)
	}

	for _, m := range tags.Models {
		if sameModel(m.Name, c.model) || sameModel(m.Model, c.model) {
			if !c.ready.Swap(true) {
				c.logger.Info("ollama model available", "model", c.model)
			}
			return nil
		}
	}
	return fmt.Errorf("model %q not found on %s", c.model, c.host)
}

// Unload marks the client not ready.
func (c *Client) Unload() {
	c.ready.Store(false)
}

// Watch calls Load immediately and then every interval until ctx is done, so
// readiness follows the server: a model that shows up after startup becomes
// usable, and one that disappears is unloaded.
func (c *Client) Watch(ctx context.Context, interval time.Duration) {
	c.check(ctx)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

func (c *Client) check(ctx context.Context) {
	err := c.Load(ctx)
	switch {
	case err == nil || ctx.Err() != nil:
	case c.ready.Load():
		c.Unload()
		c.logger.Warn("ollama model unavailable", "model", c.model, "error", err)
	default:
		c.logger.Debug("ollama model not loaded yet", "model", c.model, "error", err)
	}
}

func sameModel(have, want string) bool {
	if have == want {
		return true
	}
	return !strings.Contains(want, ":") && have == want+":latest"
}

func (c *Client) Generate(ctx context.Context, prompt string, s llm.Sampling) (string, error) {
	return c.generate(ctx, "", prompt, s)
}

func (c *Client) GenerateWithSystem(ctx context.Context, system, user string, s llm.Sampling) (string, error) {
	return c.generate(ctx, system, user, s)
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

func (c *Client) generate(ctx context.Context, system, prompt string, s llm.Sampling) (string, error) {
	if !c.Ready() {
		return "", llm.ErrNotLoaded
	}

	payload := generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		System:  system,
		Stream:  false,
		Options: options(s),
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	return strings.TrimSpace(parsed.Response), nil
}

func options(s llm.Sampling) map[string]any {
	opts := map[string]any{}
	if s.MaxNewTokens > 0 {
		opts["num_predict"] = s.MaxNewTokens
	}
	if s.Temperature > 0 {
		opts["temperature"] = s.Temperature
	}
	if s.TopP > 0 {
		opts["top_p"] = s.TopP
	}
	if s.TopK > 0 {
		opts["top_k"] = s.TopK
	}
	if s.RepetitionPenalty > 0 {
		opts["repeat_penalty"] = s.RepetitionPenalty
	}
	return opts
}
