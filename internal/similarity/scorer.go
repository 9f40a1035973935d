package similarity

import (
	"fmt"
	"math"
	"strings"
)

// Weights are the per-axis contributions to the overall score. They sum to 1.
type Weights struct {
	Structural float64 `json:"structural"`
	Lexical    float64 `json:"lexical"`
	Semantic   float64 `json:"semantic"`
}

// DefaultWeights is 0.3 structural, 0.5 lexical, 0.2 semantic.
var DefaultWeights = Weights{Structural: 0.3, Lexical: 0.5, Semantic: 0.2}

// Result is the three-axis similarity between a reference and a candidate.
// Every score is in [0, 1].
type Result struct {
	Overall    float64 `json:"overall"`
	Structural float64 `json:"structural"`
	Lexical    float64 `json:"lexical"`
	Semantic   float64 `json:"semantic"`
	Weights    Weights `json:"weights"`
}

// SemanticFunc scores the semantic axis.
type SemanticFunc func(reference, candidate string) float64

// Stub always scores the semantic axis as 0, leaving the overall score to
// the structural and lexical axes.
func Stub(string, string) float64 { return 0 }

// Scorer computes weighted similarity. The zero value is not usable; build
// one with NewScorer.
type Scorer struct {
	semantic SemanticFunc
	weights  Weights
}

// NewScorer returns a scorer using semantic for the semantic axis, or
// TermCosine when semantic is nil.
func NewScorer(semantic SemanticFunc) *Scorer {
	if semantic == nil {
		semantic = TermCosine
	}
	return &Scorer{semantic: semantic, weights: DefaultWeights}
}

// SemanticByName maps a configuration value to a semantic scorer.
func SemanticByName(name string) (SemanticFunc, error) {
	switch name {
	case "", "term":
		return TermCosine, nil
	case "stub":
		return Stub, nil
	default:
		return nil, fmt.Errorf("unknown semantic scorer %q", name)
	}
}

// Score compares candidate against reference.
func (s *Scorer) Score(reference, candidate string) Result {
	res := Result{Weights: s.weights}
	if strings.TrimSpace(reference) == "" && strings.TrimSpace(candidate) == "" {
		return res
	}

	res.Structural = Structural(reference, candidate)
	res.Lexical = Lexical(reference, candidate)
	res.Semantic = clamp(s.semantic(reference, candidate))
	res.Overall = clamp(
		res.Structural*s.weights.Structural +
			res.Lexical*s.weights.Lexical +
			res.Semantic*s.weights.Semantic,
	)
	return res
}

// BatchScore scores references[i] against candidates[i].
func (s *Scorer) BatchScore(references, candidates []string) ([]Result, error) {
	if len(references) != len(candidates) {
		return nil, fmt.Errorf("batch length mismatch: %d references, %d candidates", len(references), len(candidates))
	}
	out := make([]Result, len(references))
	for i := range references {
		out[i] = s.Score(references[i], candidates[i])
	}
	return out, nil
}

// Structural compares sentence count (0.4), average sentence length (0.3)
// and total length (0.3).
func Structural(a, b string) float64 {
	sa, sb := SplitSentences(a), SplitSentences(b)

	countSim := ratio(float64(len(sa)), float64(len(sb)))
	avgSim := ratio(avgLen(sa), avgLen(sb))
	totalSim := ratio(float64(runeLen(a)), float64(runeLen(b)))

	return clamp(countSim*0.4 + avgSim*0.3 + totalSim*0.3)
}

// Lexical combines meaningful-word Jaccard (0.5) with character bigram (0.3)
// and trigram (0.2) Jaccard.
func Lexical(a, b string) float64 {
	words := Jaccard(toSet(MeaningfulWords(a)), toSet(MeaningfulWords(b)))
	bigram := Jaccard(NGrams(a, 2), NGrams(b, 2))
	trigram := Jaccard(NGrams(a, 3), NGrams(b, 3))

	return clamp(words*0.5 + bigram*0.3 + trigram*0.2)
}

// TermCosine is the cosine similarity of meaningful-word frequency vectors.
// It is a bag-of-words proxy for the semantic axis, not an embedding.
func TermCosine(a, b string) float64 {
	fa, fb := termFreq(MeaningfulWords(a)), termFreq(MeaningfulWords(b))
	if len(fa) == 0 || len(fb) == 0 {
		return 0
	}

	// Integer accumulation keeps the result independent of map order.
	var dot, na, nb int
	for w, ca := range fa {
		na += ca * ca
		if cb, ok := fb[w]; ok {
			dot += ca * cb
		}
	}
	for _, cb := range fb {
		nb += cb * cb
	}
	if dot == 0 {
		return 0
	}
	return clamp(float64(dot) / (math.Sqrt(float64(na)) * math.Sqrt(float64(nb))))
}

func termFreq(words []string) map[string]int {
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	return freq
}

func avgLen(sentences []string) float64 {
	total := 0
	for _, s := range sentences {
		total += runeLen(s)
	}
	return float64(total) / math.Max(float64(len(sentences)), 1)
}

// ratio is 1 - |a-b| / max(a, b, 1).
func ratio(a, b float64) float64 {
	return 1 - math.Abs(a-b)/math.Max(math.Max(a, b), 1)
}

func clamp(score float64) float64 {
	if score < 0.0 || math.IsNaN(score) {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
