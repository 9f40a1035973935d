package render

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	got, err := HTML("첫 문단\n\n**둘째** 문단")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<p>첫 문단</p>") || !strings.Contains(got, "<strong>둘째</strong>") {
		t.Errorf("unexpected html: %s", got)
	}
}

func TestHTML_HardWraps(t *testing.T) {
	got, err := HTML("한 줄\n다음 줄")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<br") {
		t.Errorf("expected a line break, got %s", got)
	}
}

func TestHTML_OmitsRawHTML(t *testing.T) {
	got, err := HTML("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw html should be omitted, got %s", got)
	}
}

func TestDraft(t *testing.T) {
	got, err := Draft("새벽 두 시의 발신자", "본문")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<h2>새벽 두 시의 발신자</h2>") || !strings.Contains(got, "<p>본문</p>") {
		t.Errorf("unexpected html: %s", got)
	}

	got, _ = Draft("  ", "본문")
	if strings.Contains(got, "<h2>") {
		t.Errorf("blank title should not render a heading: %s", got)
	}
}
