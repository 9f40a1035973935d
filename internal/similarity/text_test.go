package similarity

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("첫 문장. 둘째!! 셋째?\n\n넷째 ...")
	want := []string{"첫 문장", "둘째", "셋째", "넷째"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitSentences() = %v, want %v", got, want)
	}
	if got := SplitSentences(""); len(got) != 0 {
		t.Errorf("expected no sentences for empty text, got %v", got)
	}
}

func TestMeaningfulWords(t *testing.T) {
	got := MeaningfulWords("그리고 고양이가, 키보드를 밟았다! A cat 및 또 Email")
	want := []string{"고양이가", "키보드를", "밟았다", "cat", "email"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MeaningfulWords() = %v, want %v", got, want)
	}
}

func TestNGrams(t *testing.T) {
	got := NGrams("가 나다", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 bigrams, got %v", got)
	}
	for _, g := range []string{"가나", "나다"} {
		if _, ok := got[g]; !ok {
			t.Errorf("missing bigram %q", g)
		}
	}
	if got := NGrams("가", 3); len(got) != 0 {
		t.Errorf("expected no trigrams for short text, got %v", got)
	}
}

func TestJaccard(t *testing.T) {
	set := func(items ...string) map[string]struct{} { return toSet(items) }

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"both empty", set(), set(), 0},
		{"one empty", set("a"), set(), 0},
		{"identical", set("a", "b"), set("a", "b"), 1},
		{"partial", set("a", "b", "c"), set("b", "c", "d"), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("Jaccard() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTermCosine(t *testing.T) {
	if got := TermCosine("", "고양이"); got != 0 {
		t.Errorf("expected 0 for empty side, got %f", got)
	}
	if got := TermCosine("고양이 강아지", "자동차 비행기"); got != 0 {
		t.Errorf("expected 0 for disjoint vocabularies, got %f", got)
	}
	if got := TermCosine("고양이 강아지", "강아지 고양이"); got < 0.999 {
		t.Errorf("expected ≈1 for same bag of words, got %f", got)
	}
}
