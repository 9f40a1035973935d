package llm

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Serialized wraps g so that at most one generation runs at a time. A loaded
// model is a single stateful resource; every caller in the process shares the
// wrapper built at the composition root. Callers waiting for their turn give
// up as soon as their context is done.
func Serialized(g Generator) Generator {
	if s, ok := g.(*serialized); ok {
		return s
	}
	return &serialized{next: g, sem: semaphore.NewWeighted(1)}
}

type serialized struct {
	sem  *semaphore.Weighted
	next Generator
}

func (s *serialized) Ready() bool {
	return s.next.Ready()
}

// acquire takes the single slot or returns ctx.Err() once ctx is done.
// Acquire may succeed on an already-done ctx, hence the first check.
func (s *serialized) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.sem.Acquire(ctx, 1)
}

func (s *serialized) Generate(ctx context.Context, prompt string, sp Sampling) (string, error) {
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.sem.Release(1)
	return s.next.Generate(ctx, prompt, sp)
}

func (s *serialized) GenerateWithSystem(ctx context.Context, system, user string, sp Sampling) (string, error) {
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.sem.Release(1)
	return s.next.GenerateWithSystem(ctx, system, user, sp)
}
