package recreation

import (
	"context"

	"github.com/newskoo/recreator/internal/extractor"
	"github.com/newskoo/recreator/internal/fairuse"
	"github.com/newskoo/recreator/internal/llm"
	"github.com/newskoo/recreator/internal/prompts"
)

// Sampling per operation. Multi-version generation runs hotter than
// single-shot recreation so the styles drift apart.
var (
	versionSampling  = sampling(512, 0.95)
	improveSampling  = sampling(300, 0.7)
	titleSampling    = sampling(200, 0.9)
	feedbackSampling = sampling(400, 0.7)
)

// Request is a single-style recreation.
type Request struct {
	Concept string
	// Style defaults to casual.
	Style string
	// SkipExamples omits worked examples from the prompt.
	SkipExamples bool
	ExampleCount int
	Instructions string
}

// Recreate generates one version of concept in a single style. Failures are
// returned to the caller.
func (o *Orchestrator) Recreate(ctx context.Context, req Request) (GeneratedVersion, error) {
	if blank(req.Concept) {
		return GeneratedVersion{}, invalid("concept", "must not be empty")
	}
	style, err := singleStyle(req.Style)
	if err != nil {
		return GeneratedVersion{}, err
	}
	if err := o.checkReady(); err != nil {
		return GeneratedVersion{}, err
	}

	r := o.recreate(ctx, req, style)
	if !r.OK() {
		return GeneratedVersion{}, r.asError("recreate")
	}
	return o.newVersion(req.Concept, style, r), nil
}

func (o *Orchestrator) recreate(ctx context.Context, req Request, style prompts.Style) Result {
	system, user := prompts.Build(prompts.Input{
		Concept:      req.Concept,
		Style:        style,
		WithExamples: !req.SkipExamples,
		ExampleCount: req.ExampleCount,
		Instructions: req.Instructions,
	})
	return o.generate(ctx, "recreate", o.withSystem(system, user, llm.DefaultSampling()))
}

// GenerateMultipleVersions generates one version of concept per style.
//
// A nil styles slice selects the first count DefaultStyles. Otherwise only
// catalog styles are kept, in order, up to count. Styles whose generation
// fails are logged and skipped, so the result may be shorter than requested
// or empty. Cancelling ctx stops the loop and returns what was produced with
// ctx's error.
func (o *Orchestrator) GenerateMultipleVersions(ctx context.Context, concept string, styles []string, count int) ([]GeneratedVersion, error) {
	if blank(concept) {
		return nil, invalid("concept", "must not be empty")
	}
	if count < 1 || count > MaxVersions {
		return nil, invalid("count", "must be between 1 and %d, got %d", MaxVersions, count)
	}
	if err := o.checkReady(); err != nil {
		return nil, err
	}

	selected := selectStyles(styles, count)
	versions := make([]GeneratedVersion, 0, len(selected))
	for _, style := range selected {
		if err := ctx.Err(); err != nil {
			return versions, err
		}

		system, user := prompts.Build(prompts.Input{
			Concept:      concept,
			Style:        style,
			WithExamples: true,
		})
		r := o.generate(ctx, "generate_version", o.withSystem(system, user, versionSampling))
		if !r.OK() {
			o.logger.Error("version generation failed, skipping style",
				"style", style,
				"attempts", r.Attempts,
				"error", r.Err,
			)
			continue
		}
		versions = append(versions, o.newVersion(concept, style, r))
	}

	o.logger.Info("versions generated", "requested", len(selected), "succeeded", len(versions))
	return versions, nil
}

func selectStyles(names []string, count int) []prompts.Style {
	if names == nil {
		n := min(count, len(DefaultStyles))
		return append([]prompts.Style(nil), DefaultStyles[:n]...)
	}
	return prompts.FilterStyles(names, count)
}

// LengthChange compares the rune lengths of a text before and after a rewrite.
type LengthChange struct {
	OriginalLength int `json:"original_length"`
	NewLength      int `json:"new_length"`
	Delta          int `json:"length_change"`
}

func lengthChange(before, after string) LengthChange {
	b, a := runeLen(before), runeLen(after)
	return LengthChange{OriginalLength: b, NewLength: a, Delta: a - b}
}

// Improvement is the result of ImproveParagraph.
type Improvement struct {
	Original string       `json:"original"`
	Improved string       `json:"improved"`
	Goal     string       `json:"goal"`
	Style    string       `json:"style"`
	Length   LengthChange `json:"length"`
	Metadata Metadata     `json:"metadata"`
}

// ImproveParagraph rewrites a single paragraph toward goal (DefaultGoal when
// empty). An empty style means no style guidance.
func (o *Orchestrator) ImproveParagraph(ctx context.Context, paragraph, goal, style string) (Improvement, error) {
	if blank(paragraph) {
		return Improvement{}, invalid("paragraph", "must not be empty")
	}
	st, err := optionalStyle(style)
	if err != nil {
		return Improvement{}, err
	}
	if blank(goal) {
		goal = prompts.DefaultGoal
	}
	if err := o.checkReady(); err != nil {
		return Improvement{}, err
	}

	r := o.generate(ctx, "improve_paragraph", o.plain(prompts.Improve(paragraph, goal, st), improveSampling))
	if !r.OK() {
		return Improvement{}, r.asError("improve_paragraph")
	}

	return Improvement{
		Original: paragraph,
		Improved: r.Text,
		Goal:     goal,
		Style:    styleLabel(st),
		Length:   lengthChange(paragraph, r.Text),
		Metadata: r.metadata(),
	}, nil
}

// GenerateTitle asks for count title candidates in the given title style
// (catchy when empty). Enumeration is stripped and short lines dropped, so
// fewer than count titles may come back.
func (o *Orchestrator) GenerateTitle(ctx context.Context, content, style string, count int) ([]string, error) {
	if blank(content) {
		return nil, invalid("content", "must not be empty")
	}
	if count < 1 || count > MaxTitles {
		return nil, invalid("count", "must be between 1 and %d, got %d", MaxTitles, count)
	}
	ts := prompts.TitleCatchy
	if style != "" {
		var err error
		if ts, err = prompts.ParseTitleStyle(style); err != nil {
			return nil, invalid("style", "%v", err)
		}
	}
	if err := o.checkReady(); err != nil {
		return nil, err
	}

	system, user := prompts.Titles(content, ts, count)
	r := o.generate(ctx, "generate_title", o.withSystem(system, user, titleSampling))
	if !r.OK() {
		return nil, r.asError("generate_title")
	}

	titles := extractor.Titles(r.Text, minTitleRunes, count)
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// CheckFairUse scores generated against original and gates the result.
// It does not touch the generator.
func (o *Orchestrator) CheckFairUse(original, generated string, threshold float64) (fairuse.Verdict, error) {
	if !fairuse.ValidThreshold(threshold) {
		return fairuse.Verdict{}, invalid("threshold", "must be between 0 and 1, got %g", threshold)
	}
	return fairuse.Evaluate(o.scorer.Score(original, generated), threshold), nil
}

// CheckFairUseBatch gates generated[i] against originals[i]. The slices must
// have the same length.
func (o *Orchestrator) CheckFairUseBatch(originals, generated []string, threshold float64) ([]fairuse.Verdict, error) {
	if !fairuse.ValidThreshold(threshold) {
		return nil, invalid("threshold", "must be between 0 and 1, got %g", threshold)
	}
	scores, err := o.scorer.BatchScore(originals, generated)
	if err != nil {
		return nil, invalid("pairs", "%v", err)
	}
	out := make([]fairuse.Verdict, len(scores))
	for i, r := range scores {
		out[i] = fairuse.Evaluate(r, threshold)
	}
	return out, nil
}

// FeedbackRevision is the result of RewriteWithFeedback. Similarity is always
// measured between the revised draft and the concept.
type FeedbackRevision struct {
	OriginalDraft        string       `json:"original_draft"`
	RevisedDraft         string       `json:"revised_draft"`
	FeedbackApplied      string       `json:"feedback_applied"`
	SimilarityToOriginal float64      `json:"similarity_to_original"`
	IsFairUse            bool         `json:"is_fair_use"`
	Style                string       `json:"style"`
	Length               LengthChange `json:"length"`
	Metadata             Metadata     `json:"metadata"`
}

// RewriteWithFeedback revises draft according to feedback and scores the
// revision against concept.
func (o *Orchestrator) RewriteWithFeedback(ctx context.Context, concept, draft, feedback, style string) (FeedbackRevision, error) {
	switch {
	case blank(concept):
		return FeedbackRevision{}, invalid("concept", "must not be empty")
	case blank(draft):
		return FeedbackRevision{}, invalid("draft", "must not be empty")
	case blank(feedback):
		return FeedbackRevision{}, invalid("feedback", "must not be empty")
	}
	st, err := optionalStyle(style)
	if err != nil {
		return FeedbackRevision{}, err
	}
	if err := o.checkReady(); err != nil {
		return FeedbackRevision{}, err
	}

	r := o.generate(ctx, "rewrite_with_feedback", o.plain(prompts.Feedback(concept, draft, feedback, st), feedbackSampling))
	if !r.OK() {
		return FeedbackRevision{}, r.asError("rewrite_with_feedback")
	}

	sim := o.scorer.Score(concept, r.Text)
	return FeedbackRevision{
		OriginalDraft:        draft,
		RevisedDraft:         r.Text,
		FeedbackApplied:      feedback,
		SimilarityToOriginal: sim.Overall,
		IsFairUse:            fairuse.Evaluate(sim, o.threshold).IsFairUse,
		Style:                styleLabel(st),
		Length:               lengthChange(draft, r.Text),
		Metadata:             r.metadata(),
	}, nil
}

// BatchItem is the tagged outcome for one concept of a batch.
type BatchItem struct {
	Concept string            `json:"concept"`
	Status  Status            `json:"status"`
	Version *GeneratedVersion `json:"version,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// BatchGenerate recreates each concept in style, one at a time. A failing
// concept yields a failed item and the batch continues.
func (o *Orchestrator) BatchGenerate(ctx context.Context, concepts []string, style string) ([]BatchItem, error) {
	if len(concepts) == 0 {
		return nil, invalid("concepts", "must not be empty")
	}
	st, err := singleStyle(style)
	if err != nil {
		return nil, err
	}
	if err := o.checkReady(); err != nil {
		return nil, err
	}

	items := make([]BatchItem, 0, len(concepts))
	for i, concept := range concepts {
		item := BatchItem{Concept: concept}
		switch {
		case ctx.Err() != nil:
			item.Status, item.Error = StatusFailed, ctx.Err().Error()
		case blank(concept):
			item.Status, item.Error = StatusFailed, "empty concept"
		default:
			r := o.recreate(ctx, Request{Concept: concept}, st)
			if r.OK() {
				v := o.newVersion(concept, st, r)
				item.Status, item.Version = StatusSuccess, &v
			} else {
				item.Status, item.Error = StatusFailed, r.Err.Error()
				o.logger.Error("batch item failed", "index", i, "style", st, "attempts", r.Attempts, "error", r.Err)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func singleStyle(name string) (prompts.Style, error) {
	if name == "" {
		return prompts.StyleCasual, nil
	}
	st, err := prompts.ParseStyle(name)
	if err != nil {
		return "", invalid("style", "%v", err)
	}
	return st, nil
}

func optionalStyle(name string) (prompts.Style, error) {
	if name == "" {
		return "", nil
	}
	return singleStyle(name)
}

func styleLabel(st prompts.Style) string {
	if st == "" {
		return "default"
	}
	return string(st)
}
