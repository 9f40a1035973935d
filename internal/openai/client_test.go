package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newskoo/recreator/internal/llm"
)

func completionServer(t *testing.T, content string, check func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if check != nil {
			check(body)
		}
		w.Header().Set("Content-Type", "application/json")
		var choices []map[string]any
		if content != "" {
			choices = append(choices, map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": choices,
		})
	}))
}

func TestGenerateWithSystem_Success(t *testing.T) {
	server := completionServer(t, "제목 후보", func(body map[string]any) {
		if body["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", body["model"])
		}
		msgs, _ := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected system + user messages, got %d", len(msgs))
		}
		first, _ := msgs[0].(map[string]any)
		if first["role"] != "system" {
			t.Errorf("expected first message role system, got %v", first["role"])
		}
		if body["temperature"] != 0.9 {
			t.Errorf("expected temperature 0.9, got %v", body["temperature"])
		}
		if body["max_tokens"] != float64(200) {
			t.Errorf("expected max_tokens 200, got %v", body["max_tokens"])
		}
	})
	defer server.Close()

	c, err := NewClient("sk-test", "test-model", server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	out, err := c.GenerateWithSystem(context.Background(), "당신은 제목 작성 전문가입니다.", "제목을 만들어 주세요", llm.Sampling{MaxNewTokens: 200, Temperature: 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "제목 후보" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	server := completionServer(t, "", nil)
	defer server.Close()

	c, err := NewClient("sk-test", "test-model", server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Generate(context.Background(), "hi", llm.DefaultSampling()); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewClient_RequiresModel(t *testing.T) {
	if _, err := NewClient("sk-test", "", ""); err == nil {
		t.Fatal("expected error without model")
	}
}

func TestReady(t *testing.T) {
	c, _ := NewClient("", "m", "")
	if c.Ready() {
		t.Error("client without key or base url should not be ready")
	}
	c, _ = NewClient("", "m", "http://localhost:8000/v1")
	if !c.Ready() {
		t.Error("client with a self-hosted base url should be ready")
	}
}
