package recreation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/newskoo/recreator/internal/extractor"
	"github.com/newskoo/recreator/internal/fairuse"
	"github.com/newskoo/recreator/internal/llm"
	"github.com/newskoo/recreator/internal/prompts"
	"github.com/newskoo/recreator/internal/similarity"
)

const (
	MaxVersions = 7
	MaxTitles   = 5

	// minTitleRunes drops title candidates too short to be usable.
	minTitleRunes = 5

	// tokensPerRune is the heuristic used for token estimates. It is not a
	// tokenizer count.
	tokensPerRune = 2
)

// DefaultStyles are used by GenerateMultipleVersions when no styles are given.
var DefaultStyles = []prompts.Style{prompts.StyleSarcasm, prompts.StyleCute, prompts.StyleDark}

var errEmptyResponse = errors.New("generator returned an empty response")

// Options tune an Orchestrator. Zero values take the defaults.
type Options struct {
	Retry     *Policy
	Threshold float64
}

// Orchestrator runs the recreation pipeline against a single generator.
// It keeps no state between calls.
type Orchestrator struct {
	gen       llm.Generator
	scorer    *similarity.Scorer
	retry     Policy
	threshold float64
	logger    *slog.Logger
}

func New(gen llm.Generator, scorer *similarity.Scorer, opts Options, logger *slog.Logger) *Orchestrator {
	if scorer == nil {
		scorer = similarity.NewScorer(nil)
	}
	retry := DefaultPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}
	threshold := opts.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = fairuse.DefaultThreshold
	}
	return &Orchestrator{
		gen:       gen,
		scorer:    scorer,
		retry:     retry,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the default fair-use threshold.
func (o *Orchestrator) Threshold() float64 { return o.threshold }

// Ready reports whether the generator can take calls.
func (o *Orchestrator) Ready() bool { return o.gen != nil && o.gen.Ready() }

// Metadata describes a single successful generation.
type Metadata struct {
	TokenEstimate  int     `json:"token_estimate"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Attempts       int     `json:"attempts"`
}

// GeneratedVersion is one recreated piece of content with its fair-use
// verdict against the concept.
type GeneratedVersion struct {
	ID         uuid.UUID         `json:"id"`
	Style      prompts.Style     `json:"style"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Similarity similarity.Result `json:"similarity"`
	IsFairUse  bool              `json:"is_fair_use"`
	Threshold  float64           `json:"threshold"`
	Metadata   Metadata          `json:"metadata"`
}

// Status tags the outcome of a generation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the outcome of the generation primitive: success with text, or
// failed with the last error. It never carries both.
type Result struct {
	Status        Status
	Text          string
	Attempts      int
	Elapsed       time.Duration
	TokenEstimate int
	Err           error
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

func (r Result) metadata() Metadata {
	return Metadata{
		TokenEstimate:  r.TokenEstimate,
		ElapsedSeconds: r.Elapsed.Seconds(),
		Attempts:       r.Attempts,
	}
}

// asError converts a failed result into the error surfaced by single-item
// operations.
func (r Result) asError(op string) error {
	if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
		return r.Err
	}
	return &GenerationError{Op: op, Attempts: r.Attempts, Err: r.Err}
}

// EstimateTokens returns the heuristic token count for text.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) * tokensPerRune
}

// generate invokes call under the retry policy. It never returns an error
// directly; exhaustion is reported as a failed Result.
func (o *Orchestrator) generate(ctx context.Context, op string, call func(context.Context) (string, error)) Result {
	var (
		lastErr  error
		attempts int
	)
	for i := 0; i < o.retry.Attempts(); i++ {
		if i > 0 {
			if err := o.retry.wait(ctx, i); err != nil {
				lastErr = err
				break
			}
		}

		attempts++
		start := time.Now()
		text, err := call(ctx)
		elapsed := time.Since(start)
		text = strings.TrimSpace(text)
		if err == nil && text == "" {
			err = errEmptyResponse
		}
		if err == nil {
			return Result{
				Status:        StatusSuccess,
				Text:          text,
				Attempts:      attempts,
				Elapsed:       elapsed,
				TokenEstimate: EstimateTokens(text),
			}
		}

		lastErr = err
		o.logger.Warn("generation attempt failed",
			"op", op,
			"attempt", attempts,
			"elapsed", elapsed.String(),
			"error", err,
		)
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}
	return Result{Status: StatusFailed, Attempts: attempts, Err: lastErr}
}

func (o *Orchestrator) withSystem(system, user string, s llm.Sampling) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return o.gen.GenerateWithSystem(ctx, system, user, s)
	}
}

func (o *Orchestrator) plain(prompt string, s llm.Sampling) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return o.gen.Generate(ctx, prompt, s)
	}
}

func (o *Orchestrator) checkReady() error {
	if !o.Ready() {
		return ErrNotReady
	}
	return nil
}

// newVersion parses a successful result and scores it against concept.
func (o *Orchestrator) newVersion(concept string, style prompts.Style, r Result) GeneratedVersion {
	d := extractor.Parse(r.Text)
	sim := o.scorer.Score(concept, d.Content)
	verdict := fairuse.Evaluate(sim, o.threshold)
	return GeneratedVersion{
		ID:         uuid.New(),
		Style:      style,
		Title:      d.Title,
		Content:    d.Content,
		Similarity: sim,
		IsFairUse:  verdict.IsFairUse,
		Threshold:  o.threshold,
		Metadata:   r.metadata(),
	}
}

func sampling(maxTokens int, temperature float64) llm.Sampling {
	s := llm.DefaultSampling()
	s.MaxNewTokens = maxTokens
	s.Temperature = temperature
	return s
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func runeLen(s string) int { return utf8.RuneCountInString(s) }
