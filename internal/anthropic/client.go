package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newskoo/recreator/internal/llm"
)

const apiURL = "https://api.anthropic.com/v1/messages"

// Client generates text through the Anthropic Messages API.
type Client struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		url:    apiURL,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// SetTestTransport points the client at a test server.
func (c *Client) SetTestTransport(url string) {
	c.url = url
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        *float64  `json:"top_p,omitempty"`
	TopK        *int      `json:"top_k,omitempty"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Ready reports whether the client has credentials to call the API.
func (c *Client) Ready() bool {
	return c.apiKey != ""
}

func (c *Client) Generate(ctx context.Context, prompt string, s llm.Sampling) (string, error) {
	return c.GenerateWithSystem(ctx, "", prompt, s)
}

func (c *Client) GenerateWithSystem(ctx context.Context, system, user string, s llm.Sampling) (string, error) {
	req := request{
		Model:     c.model,
		MaxTokens: s.MaxNewTokens,
		System:    system,
		Messages:  []Message{{Role: "user", Content: user}},
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = llm.DefaultSampling().MaxNewTokens
	}
	// The API rejects temperature and top_p together on newer models.
	if s.Temperature > 0 {
		t := min(s.Temperature, 1.0)
		req.Temperature = &t
	} else if s.TopP > 0 {
		p := s.TopP
		req.TopP = &p
	}
	if s.TopK > 0 {
		k := s.TopK
		req.TopK = &k
	}
	return c.complete(ctx, req)
}

// complete sends a message to the Anthropic API and returns the text response.
func (c *Client) complete(ctx context.Context, reqBody request) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Type != "" {
			return "", fmt.Errorf("api error %d: %s: %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response content")
	}

	return apiResp.Content[0].Text, nil
}
