package processor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/newskoo/recreator/internal/hermes"
	"github.com/newskoo/recreator/internal/prompts"
	"github.com/newskoo/recreator/internal/recreation"
	"github.com/newskoo/recreator/internal/similarity"
	"github.com/newskoo/recreator/internal/store"
)

type fakeGenerator struct {
	concept string
	styles  []string
	count   int
	calls   int
	out     []recreation.GeneratedVersion
	err     error
	// started, when set, is closed on the first call, which then blocks
	// until ctx is done.
	started chan struct{}
}

func (f *fakeGenerator) GenerateMultipleVersions(ctx context.Context, concept string, styles []string, count int) ([]recreation.GeneratedVersion, error) {
	f.calls++
	f.concept, f.styles, f.count = concept, styles, count
	if f.started != nil {
		close(f.started)
		<-ctx.Done()
		return f.out, ctx.Err()
	}
	return f.out, f.err
}

type fakeStore struct {
	saved []store.Draft
	err   error
}

func (f *fakeStore) SaveDraft(ctx context.Context, d store.Draft) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.saved = append(f.saved, d)
	return d.ID, nil
}

type published struct {
	subject string
	data    any
}

type fakeBus struct {
	msgs []published
}

func (f *fakeBus) Publish(subject string, data any) error {
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func version(style prompts.Style, overall float64, fair bool) recreation.GeneratedVersion {
	return recreation.GeneratedVersion{
		ID:         uuid.New(),
		Style:      style,
		Title:      "제목 " + string(style),
		Content:    "본문",
		Similarity: similarity.Result{Overall: overall, Weights: similarity.DefaultWeights},
		IsFairUse:  fair,
		Threshold:  0.7,
	}
}

func event(t *testing.T, evt hermes.InspirationCreated) []byte {
	t.Helper()
	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return data
}

func TestHandleInspirationCreated(t *testing.T) {
	gen := &fakeGenerator{out: []recreation.GeneratedVersion{
		version(prompts.StyleSarcasm, 0.2, true),
		version(prompts.StyleCute, 0.85, false),
	}}
	drafts := &fakeStore{}
	bus := &fakeBus{}
	p := New(context.Background(), gen, drafts, bus, testLogger())

	p.HandleInspirationCreated(hermes.SubjectInspirationCreated, event(t, hermes.InspirationCreated{
		InspirationID: "insp-1",
		Concept:       "고양이가 키보드 위에서 자다가 이메일을 보냄",
		Styles:        []string{"sarcasm", "cute"},
		Count:         2,
	}))

	if gen.concept != "고양이가 키보드 위에서 자다가 이메일을 보냄" || gen.count != 2 || len(gen.styles) != 2 {
		t.Errorf("unexpected generator call: %q %v %d", gen.concept, gen.styles, gen.count)
	}

	if len(drafts.saved) != 1 {
		t.Fatalf("expected only the compliant version to be stored, got %d", len(drafts.saved))
	}
	d := drafts.saved[0]
	if d.InspirationID != "insp-1" || d.Style != "sarcasm" || d.ID != gen.out[0].ID {
		t.Errorf("unexpected draft %+v", d)
	}

	if len(bus.msgs) != 1 || bus.msgs[0].subject != hermes.SubjectVersionsGenerated {
		t.Fatalf("expected one versions.generated event, got %+v", bus.msgs)
	}
	evt, ok := bus.msgs[0].data.(hermes.VersionsGenerated)
	if !ok {
		t.Fatalf("unexpected payload type %T", bus.msgs[0].data)
	}
	if evt.InspirationID != "insp-1" || evt.Requested != 2 || len(evt.Versions) != 2 {
		t.Errorf("unexpected event %+v", evt)
	}
	if !evt.Versions[0].Stored || evt.Versions[1].Stored {
		t.Errorf("stored flags should follow the fair-use verdict: %+v", evt.Versions)
	}
	if evt.EventID == "" {
		t.Error("expected an event id")
	}
}

func TestHandleInspirationCreated_DefaultsAndClamp(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"missing count", 0, DefaultCount},
		{"too many", 20, recreation.MaxVersions},
		{"explicit", 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			p := New(context.Background(), gen, nil, nil, testLogger())
			p.HandleInspirationCreated(hermes.SubjectInspirationCreated, event(t, hermes.InspirationCreated{
				InspirationID: "x", Concept: "컨셉", Count: tt.count,
			}))
			if gen.count != tt.want {
				t.Errorf("count = %d, want %d", gen.count, tt.want)
			}
			if gen.styles != nil {
				t.Errorf("omitted styles should stay nil, got %v", gen.styles)
			}
		})
	}
}

func TestHandleInspirationCreated_Ignored(t *testing.T) {
	gen := &fakeGenerator{}
	bus := &fakeBus{}
	p := New(context.Background(), gen, nil, bus, testLogger())

	p.HandleInspirationCreated(hermes.SubjectInspirationCreated, []byte("not json"))
	p.HandleInspirationCreated(hermes.SubjectInspirationCreated, event(t, hermes.InspirationCreated{InspirationID: "x", Concept: "  "}))

	if gen.calls != 0 || len(bus.msgs) != 0 {
		t.Errorf("invalid events should be dropped, got %d calls and %d messages", gen.calls, len(bus.msgs))
	}
}

func TestHandleInspirationCreated_GenerationError(t *testing.T) {
	gen := &fakeGenerator{err: recreation.ErrNotReady}
	bus := &fakeBus{}
	p := New(context.Background(), gen, &fakeStore{}, bus, testLogger())

	p.HandleInspirationCreated(hermes.SubjectInspirationCreated, event(t, hermes.InspirationCreated{InspirationID: "x", Concept: "컨셉"}))

	if len(bus.msgs) != 0 {
		t.Errorf("nothing should be published on failure, got %+v", bus.msgs)
	}
}

func TestHandleInspirationCreated_StoreFailure(t *testing.T) {
	gen := &fakeGenerator{out: []recreation.GeneratedVersion{version(prompts.StyleDark, 0.1, true)}}
	bus := &fakeBus{}
	p := New(context.Background(), gen, &fakeStore{err: errors.New("db down")}, bus, testLogger())

	p.HandleInspirationCreated(hermes.SubjectInspirationCreated, event(t, hermes.InspirationCreated{InspirationID: "x", Concept: "컨셉"}))

	if len(bus.msgs) != 1 {
		t.Fatalf("expected the event to be published despite the store failure")
	}
	evt := bus.msgs[0].data.(hermes.VersionsGenerated)
	if evt.Versions[0].Stored {
		t.Error("version should not be marked stored")
	}
}

func TestHandleInspirationCreated_CancelledByOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := &fakeGenerator{
		out:     []recreation.GeneratedVersion{version(prompts.StyleSarcasm, 0.2, true)},
		started: make(chan struct{}),
	}
	drafts := &fakeStore{}
	bus := &fakeBus{}
	p := New(ctx, gen, drafts, bus, testLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.HandleInspirationCreated(hermes.SubjectInspirationCreated, event(t, hermes.InspirationCreated{InspirationID: "x", Concept: "컨셉"}))
	}()

	<-gen.started
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler kept running after its context was cancelled")
	}
	if len(drafts.saved) != 0 || len(bus.msgs) != 0 {
		t.Errorf("cancelled work should not be stored or published, got %d drafts and %d messages", len(drafts.saved), len(bus.msgs))
	}
}
