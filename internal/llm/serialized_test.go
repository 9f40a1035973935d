package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingGenerator struct {
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (c *countingGenerator) Ready() bool { return true }

func (c *countingGenerator) Generate(ctx context.Context, prompt string, s Sampling) (string, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		cur := c.maxSeen.Load()
		if n <= cur || c.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	return prompt, nil
}

func (c *countingGenerator) GenerateWithSystem(ctx context.Context, system, user string, s Sampling) (string, error) {
	return c.Generate(ctx, ChatPrompt(system, user), s)
}

func TestSerialized_OneCallAtATime(t *testing.T) {
	inner := &countingGenerator{}
	g := Serialized(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.GenerateWithSystem(context.Background(), "sys", "user", DefaultSampling()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := inner.maxSeen.Load(); got != 1 {
		t.Errorf("expected at most 1 concurrent call, saw %d", got)
	}
}

func TestSerialized_Idempotent(t *testing.T) {
	g := Serialized(&countingGenerator{})
	if Serialized(g) != g {
		t.Error("wrapping a serialized generator twice should return the same wrapper")
	}
}

func TestSerialized_CancelledContext(t *testing.T) {
	g := Serialized(&countingGenerator{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, "hi", DefaultSampling()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

// blockingGenerator holds its turn until release is closed.
type blockingGenerator struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingGenerator) Ready() bool { return true }

func (b *blockingGenerator) Generate(ctx context.Context, prompt string, s Sampling) (string, error) {
	b.entered <- struct{}{}
	<-b.release
	return prompt, nil
}

func (b *blockingGenerator) GenerateWithSystem(ctx context.Context, system, user string, s Sampling) (string, error) {
	return b.Generate(ctx, ChatPrompt(system, user), s)
}

func TestSerialized_WaiterGivesUpAtDeadline(t *testing.T) {
	inner := &blockingGenerator{entered: make(chan struct{}, 1), release: make(chan struct{})}
	g := Serialized(inner)

	holderDone := make(chan error, 1)
	go func() {
		_, err := g.Generate(context.Background(), "holder", DefaultSampling())
		holderDone <- err
	}()
	<-inner.entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	waiterDone := make(chan error, 1)
	go func() {
		_, err := g.GenerateWithSystem(ctx, "sys", "waiter", DefaultSampling())
		waiterDone <- err
	}()

	select {
	case err := <-waiterDone:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter still blocked after its deadline expired")
	}

	close(inner.release)
	if err := <-holderDone; err != nil {
		t.Errorf("holder: unexpected error: %v", err)
	}

	// The slot is free again once the holder returns.
	inner.release = make(chan struct{})
	close(inner.release)
	if _, err := g.Generate(context.Background(), "next", DefaultSampling()); err != nil {
		t.Errorf("next call: unexpected error: %v", err)
	}
}

func TestChatPrompt(t *testing.T) {
	got := ChatPrompt("be brief", "hello")
	want := "### System:\nbe brief\n\n### User:\nhello\n\n### Assistant:\n"
	if got != want {
		t.Errorf("ChatPrompt() = %q, want %q", got, want)
	}
}
