//go:build integration

package hermes

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PubSub(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	logger := slog.Default()

	client, err := NewClient(natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close(context.Background())

	received := make(chan map[string]string, 1)

	err = client.Subscribe("newskoo.recreation.test.>", func(subject string, data []byte) {
		var msg map[string]string
		json.Unmarshal(data, &msg)
		received <- msg
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	err = client.Publish("newskoo.recreation.test.ping", map[string]string{
		"message": "hello from integration test",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg["message"] != "hello from integration test" {
			t.Errorf("expected hello message, got %v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestIntegration_CloseDrainsInFlightHandler(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	logger := slog.Default()

	worker, err := NewClient(natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect worker: %v", err)
	}
	observer, err := NewClient(natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect observer: %v", err)
	}
	defer observer.Close(context.Background())

	results := make(chan string, 1)
	if err := observer.Subscribe("newskoo.recreation.test.done", func(_ string, data []byte) {
		results <- string(data)
	}); err != nil {
		t.Fatalf("observer subscribe failed: %v", err)
	}

	started := make(chan struct{})
	if err := worker.Subscribe("newskoo.recreation.test.work", func(_ string, _ []byte) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		if err := worker.Publish("newskoo.recreation.test.done", "finished"); err != nil {
			t.Errorf("publish from draining handler failed: %v", err)
		}
	}); err != nil {
		t.Fatalf("worker subscribe failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := observer.Publish("newskoo.recreation.test.work", "go"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	worker.Close(ctx)

	select {
	case got := <-results:
		if got != `"finished"` {
			t.Errorf("unexpected result %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight handler's publish was lost on close")
	}
}
