package openai

import (
	"context"
	"errors"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/newskoo/recreator/internal/llm"
)

// Client generates text through an OpenAI-compatible chat completions API.
type Client struct {
	model string
	sdk   oai.Client
	ready bool
}

// NewClient builds a client. baseURL may be empty for the public API, or point
// at any compatible server (vLLM, llama.cpp server, LM Studio).
func NewClient(apiKey, model, baseURL string) (*Client, error) {
	if model == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// Retries are owned by the recreation pipeline.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		model: model,
		sdk:   oai.NewClient(opts...),
		ready: apiKey != "" || baseURL != "",
	}, nil
}

func (c *Client) Ready() bool {
	return c.ready
}

func (c *Client) Generate(ctx context.Context, prompt string, s llm.Sampling) (string, error) {
	return c.complete(ctx, []oai.ChatCompletionMessageParamUnion{oai.UserMessage(prompt)}, s)
}

func (c *Client) GenerateWithSystem(ctx context.Context, system, user string, s llm.Sampling) (string, error) {
	var msgs []oai.ChatCompletionMessageParamUnion
	if system != "" {
		msgs = append(msgs, oai.SystemMessage(system))
	}
	msgs = append(msgs, oai.UserMessage(user))
	return c.complete(ctx, msgs, s)
}

func (c *Client) complete(ctx context.Context, msgs []oai.ChatCompletionMessageParamUnion, s llm.Sampling) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model:    oai.ChatModel(c.model),
		Messages: msgs,
	}
	if s.MaxNewTokens > 0 {
		params.MaxTokens = oai.Int(int64(s.MaxNewTokens))
	}
	if s.Temperature > 0 {
		params.Temperature = oai.Float(s.Temperature)
	}
	if s.TopP > 0 {
		params.TopP = oai.Float(s.TopP)
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
