package similarity

import (
	"regexp"
	"strings"
	"unicode"
)

var sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)

// stopwords are Korean particles, conjunctions and copulas that carry no
// content on their own.
var stopwords = map[string]struct{}{
	"은": {}, "는": {}, "이": {}, "가": {}, "을": {}, "를": {}, "의": {}, "에": {}, "에서": {}, "으로": {},
	"와": {}, "과": {}, "도": {}, "만": {}, "까지": {}, "부터": {}, "보다": {}, "처럼": {}, "같이": {},
	"그": {}, "저": {}, "그런": {}, "저런": {}, "이런": {}, "것": {}, "수": {},
	"등": {}, "및": {}, "또": {}, "또한": {}, "그리고": {}, "하지만": {}, "그러나": {},
	"있다": {}, "없다": {}, "이다": {}, "아니다": {}, "하다": {}, "되다": {}, "않다": {},
}

// SplitSentences splits on '.', '!', '?' and newlines and drops empty pieces.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// MeaningfulWords returns the content tokens of text in order, duplicates
// kept. Punctuation is replaced by spaces, tokens are lowercased, and tokens
// shorter than two characters or in the stoplist are dropped.
func MeaningfulWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, text)

	var out []string
	for _, w := range strings.Fields(strings.ToLower(cleaned)) {
		if len([]rune(w)) < 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// NGrams returns the set of character n-grams of text with all whitespace
// removed.
func NGrams(text string, n int) map[string]struct{} {
	runes := []rune(strings.Join(strings.Fields(text), ""))
	set := make(map[string]struct{})
	if n <= 0 || len(runes) < n {
		return set
	}
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

// Jaccard is |a∩b| / |a∪b|. Two empty sets score 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func runeLen(s string) int {
	return len([]rune(s))
}
