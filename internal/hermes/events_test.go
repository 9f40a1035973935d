package hermes

import (
	"encoding/json"
	"testing"
)

func TestInspirationCreatedParsing(t *testing.T) {
	raw := `{
		"inspiration_id": "insp-001",
		"concept": "고양이가 키보드 위에서 자다가 이메일을 보냄",
		"styles": ["sarcasm", "cute"],
		"count": 2
	}`

	var evt InspirationCreated
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("failed to parse InspirationCreated: %v", err)
	}

	if evt.InspirationID != "insp-001" {
		t.Errorf("expected inspiration_id 'insp-001', got '%s'", evt.InspirationID)
	}
	if evt.Concept != "고양이가 키보드 위에서 자다가 이메일을 보냄" {
		t.Errorf("unexpected concept '%s'", evt.Concept)
	}
	if len(evt.Styles) != 2 || evt.Styles[0] != "sarcasm" {
		t.Errorf("unexpected styles %v", evt.Styles)
	}
	if evt.Count != 2 {
		t.Errorf("expected count 2, got %d", evt.Count)
	}
}

func TestInspirationCreated_OptionalFields(t *testing.T) {
	var evt InspirationCreated
	if err := json.Unmarshal([]byte(`{"inspiration_id":"x","concept":"y"}`), &evt); err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if evt.Styles != nil || evt.Count != 0 {
		t.Errorf("expected omitted styles and count, got %v / %d", evt.Styles, evt.Count)
	}
}

func TestVersionsGeneratedWireNames(t *testing.T) {
	data, err := json.Marshal(VersionsGenerated{
		EventID:   "evt-1",
		Requested: 3,
		Versions:  []VersionSummary{{ID: "v1", Style: "dark", Similarity: 0.2, IsFairUse: true}},
	})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"event_id", "requested", "versions", "generated_at"} {
		if _, ok := generic[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := generic["inspiration_id"]; ok {
		t.Error("empty inspiration_id should be omitted")
	}
}

func TestSubjectConstants(t *testing.T) {
	subjects := map[string]string{
		SubjectInspirationCreated: "newskoo.inspiration.created",
		SubjectVersionsGenerated:  "newskoo.recreation.versions.generated",
		SubjectFairUseChecked:     "newskoo.recreation.fairuse.checked",
		SubjectDraftCreated:       "newskoo.recreation.draft.created",
		SubjectDraftRevised:       "newskoo.recreation.draft.revised",
	}
	for got, want := range subjects {
		if got != want {
			t.Errorf("expected subject %q, got %q", want, got)
		}
	}
}

func TestNewEventID(t *testing.T) {
	a, b := NewEventID(), NewEventID()
	if a == "" || a == b {
		t.Errorf("expected distinct event ids, got %q and %q", a, b)
	}
}
