package processor

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newskoo/recreator/internal/hermes"
	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/store"
)

// DefaultCount is used when an inspiration event carries no count.
const DefaultCount = 3

// VersionGenerator produces versions of a concept.
type VersionGenerator interface {
	GenerateMultipleVersions(ctx context.Context, concept string, styles []string, count int) ([]recreation.GeneratedVersion, error)
}

// DraftStore persists fair-use-compliant versions.
type DraftStore interface {
	SaveDraft(ctx context.Context, d store.Draft) (uuid.UUID, error)
}

type Publisher interface {
	Publish(subject string, data any) error
}

// Processor turns inspiration events into stored drafts.
type Processor struct {
	ctx    context.Context
	gen    VersionGenerator
	drafts DraftStore
	bus    Publisher
	logger *slog.Logger
}

// New returns a Processor. drafts and bus may be nil. Every event is handled
// under ctx; cancelling it aborts generation in progress.
func New(ctx context.Context, gen VersionGenerator, drafts DraftStore, bus Publisher, logger *slog.Logger) *Processor {
	return &Processor{ctx: ctx, gen: gen, drafts: drafts, bus: bus, logger: logger}
}

// HandleInspirationCreated is the NATS handler for newskoo.inspiration.created.
func (p *Processor) HandleInspirationCreated(subject string, data []byte) {
	ctx := p.ctx

	var evt hermes.InspirationCreated
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse inspiration event", "subject", subject, "error", err)
		return
	}
	if strings.TrimSpace(evt.Concept) == "" {
		p.logger.Warn("inspiration event without concept", "inspiration_id", evt.InspirationID)
		return
	}

	count := evt.Count
	if count <= 0 {
		count = DefaultCount
	}
	count = min(count, recreation.MaxVersions)

	p.logger.Info("processing inspiration",
		"inspiration_id", evt.InspirationID,
		"styles", evt.Styles,
		"count", count,
	)

	versions, err := p.gen.GenerateMultipleVersions(ctx, evt.Concept, evt.Styles, count)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Warn("inspiration processing cancelled",
				"inspiration_id", evt.InspirationID,
				"completed", len(versions),
				"error", err,
			)
			return
		}
		p.logger.Error("version generation failed", "inspiration_id", evt.InspirationID, "error", err)
		return
	}

	summaries := make([]hermes.VersionSummary, 0, len(versions))
	stored := 0
	for _, v := range versions {
		sum := hermes.VersionSummary{
			ID:         v.ID.String(),
			Style:      string(v.Style),
			Title:      v.Title,
			Similarity: v.Similarity.Overall,
			IsFairUse:  v.IsFairUse,
		}
		if p.persist(ctx, evt, v) {
			sum.Stored = true
			stored++
		}
		summaries = append(summaries, sum)
	}

	if p.bus != nil {
		if err := p.bus.Publish(hermes.SubjectVersionsGenerated, hermes.VersionsGenerated{
			EventID:       hermes.NewEventID(),
			InspirationID: evt.InspirationID,
			Requested:     count,
			Versions:      summaries,
			GeneratedAt:   time.Now().UTC(),
		}); err != nil {
			p.logger.Error("failed to publish versions generated", "error", err)
		}
	}

	p.logger.Info("inspiration processed",
		"inspiration_id", evt.InspirationID,
		"versions", len(versions),
		"stored", stored,
	)
}

// persist stores v when a store is configured and v passes the gate.
func (p *Processor) persist(ctx context.Context, evt hermes.InspirationCreated, v recreation.GeneratedVersion) bool {
	if p.drafts == nil {
		return false
	}
	if !v.IsFairUse {
		p.logger.Warn("version too close to concept, not stored",
			"inspiration_id", evt.InspirationID,
			"style", v.Style,
			"similarity", v.Similarity.Overall,
		)
		return false
	}
	if _, err := p.drafts.SaveDraft(ctx, store.DraftFromVersion(evt.InspirationID, evt.Concept, v)); err != nil {
		p.logger.Error("failed to store draft", "version_id", v.ID, "error", err)
		return false
	}
	return true
}
