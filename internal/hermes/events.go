package hermes

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SubjectInspirationCreated is published by the crawler when a new
	// concept is ready for recreation.
	SubjectInspirationCreated = "newskoo.inspiration.created"

	SubjectVersionsGenerated = "newskoo.recreation.versions.generated"
	SubjectFairUseChecked    = "newskoo.recreation.fairuse.checked"
	SubjectDraftCreated      = "newskoo.recreation.draft.created"
	SubjectDraftRevised      = "newskoo.recreation.draft.revised"
)

// InspirationCreated asks for versions of a concept. Styles and Count are
// optional.
type InspirationCreated struct {
	InspirationID string   `json:"inspiration_id"`
	Concept       string   `json:"concept"`
	Styles        []string `json:"styles,omitempty"`
	Count         int      `json:"count,omitempty"`
}

// VersionSummary describes one generated version without its content.
type VersionSummary struct {
	ID         string  `json:"id"`
	Style      string  `json:"style"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
	IsFairUse  bool    `json:"is_fair_use"`
	Stored     bool    `json:"stored"`
}

type VersionsGenerated struct {
	EventID       string           `json:"event_id"`
	InspirationID string           `json:"inspiration_id,omitempty"`
	Requested     int              `json:"requested"`
	Versions      []VersionSummary `json:"versions"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

type FairUseChecked struct {
	EventID   string    `json:"event_id"`
	Overall   float64   `json:"overall_similarity"`
	Threshold float64   `json:"threshold"`
	IsFairUse bool      `json:"is_fair_use"`
	CheckedAt time.Time `json:"checked_at"`
}

// DraftEvent is published when a draft is created, regenerated or revised
// from feedback. DraftID is empty for revisions of unsaved drafts.
type DraftEvent struct {
	EventID    string    `json:"event_id"`
	DraftID    string    `json:"draft_id,omitempty"`
	Style      string    `json:"style,omitempty"`
	Revision   int       `json:"revision,omitempty"`
	Similarity float64   `json:"similarity"`
	IsFairUse  bool      `json:"is_fair_use"`
	Feedback   string    `json:"feedback,omitempty"`
	At         time.Time `json:"at"`
}

// NewEventID returns a fresh event identifier.
func NewEventID() string {
	return uuid.NewString()
}
