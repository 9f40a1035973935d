package recreation

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/newskoo/recreator/internal/llm"
)

type call struct {
	system   string
	user     string
	prompt   string
	sampling llm.Sampling
}

// fakeGenerator records every call and answers through respond. The call
// index passed to respond is zero-based across the generator's lifetime.
type fakeGenerator struct {
	mu      sync.Mutex
	ready   bool
	calls   []call
	respond func(n int, c call) (string, error)
}

func newFake(respond func(n int, c call) (string, error)) *fakeGenerator {
	return &fakeGenerator{ready: true, respond: respond}
}

func fixed(text string) func(int, call) (string, error) {
	return func(int, call) (string, error) { return text, nil }
}

func (f *fakeGenerator) Ready() bool { return f.ready }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, s llm.Sampling) (string, error) {
	return f.record(call{prompt: prompt, sampling: s})
}

func (f *fakeGenerator) GenerateWithSystem(ctx context.Context, system, user string, s llm.Sampling) (string, error) {
	return f.record(call{system: system, user: user, sampling: s})
}

func (f *fakeGenerator) record(c call) (string, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	return f.respond(n, c)
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(g llm.Generator) *Orchestrator {
	return New(g, nil, Options{}, discardLogger())
}
