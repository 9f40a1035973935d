package fairuse

import (
	"fmt"
	"strings"

	"github.com/newskoo/recreator/internal/similarity"
)

// DefaultThreshold is the similarity ceiling: content at or above it fails.
const DefaultThreshold = 0.70

// Verdict is the outcome of gating a similarity result.
type Verdict struct {
	IsFairUse            bool    `json:"is_fair_use"`
	OverallSimilarity    float64 `json:"overall_similarity"`
	StructuralSimilarity float64 `json:"structural_similarity"`
	LexicalSimilarity    float64 `json:"lexical_similarity"`
	SemanticSimilarity   float64 `json:"semantic_similarity"`
	Recommendation       string  `json:"recommendation"`
	Details              Details `json:"details"`
}

// Details is the per-axis breakdown shown in the review UI.
type Details struct {
	Threshold float64               `json:"threshold"`
	Passed    bool                  `json:"passed"`
	Breakdown map[string]AxisDetail `json:"similarity_breakdown"`
}

type AxisDetail struct {
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// ValidThreshold reports whether t is in [0, 1].
func ValidThreshold(t float64) bool {
	return t >= 0 && t <= 1
}

// Evaluate gates r against threshold. It has no side effects.
func Evaluate(r similarity.Result, threshold float64) Verdict {
	passed := r.Overall < threshold

	return Verdict{
		IsFairUse:            passed,
		OverallSimilarity:    r.Overall,
		StructuralSimilarity: r.Structural,
		LexicalSimilarity:    r.Lexical,
		SemanticSimilarity:   r.Semantic,
		Recommendation:       recommendation(passed, r.Overall, threshold),
		Details: Details{
			Threshold: threshold,
			Passed:    passed,
			Breakdown: map[string]AxisDetail{
				"structural": {Score: r.Structural, Weight: r.Weights.Structural, Description: "문장 구조 유사도"},
				"lexical":    {Score: r.Lexical, Weight: r.Weights.Lexical, Description: "어휘 유사도"},
				"semantic":   {Score: r.Semantic, Weight: r.Weights.Semantic, Description: "의미 유사도"},
			},
		},
	}
}

func recommendation(passed bool, overall, threshold float64) string {
	if passed {
		return "✓ Fair Use 준수: 충분히 재창작되었습니다."
	}
	return fmt.Sprintf("✗ 유사도 %.1f%%가 임계값 %.1f%%를 초과합니다. 재생성을 권장합니다.", overall*100, threshold*100)
}

// Report renders v as a plain-text compliance report for editors.
func Report(v Verdict) string {
	status := "✅ Fair Use 준수"
	if !v.IsFairUse {
		status = "⚠️ Fair Use 위반 가능성"
	}

	var b strings.Builder
	b.WriteString("=== Fair Use 유사도 체크 리포트 ===\n\n")
	fmt.Fprintf(&b, "**전체 유사도**: %.2f%%\n", v.OverallSimilarity*100)
	fmt.Fprintf(&b, "**판정**: %s\n\n", status)
	b.WriteString("**세부 분석**:\n")
	fmt.Fprintf(&b, "- 구조적 유사도: %.2f%%\n", v.StructuralSimilarity*100)
	fmt.Fprintf(&b, "- 어휘적 유사도: %.2f%%\n", v.LexicalSimilarity*100)
	fmt.Fprintf(&b, "- 의미적 유사도: %.2f%%\n\n", v.SemanticSimilarity*100)
	fmt.Fprintf(&b, "**기준 임계값**: %.0f%%\n\n", v.Details.Threshold*100)
	b.WriteString("**권장 사항**:\n")
	if v.IsFairUse {
		b.WriteString("- 현재 콘텐츠는 Fair Use 기준을 충족합니다.\n")
		b.WriteString("- 그대로 사용하셔도 됩니다.")
	} else {
		b.WriteString("- 유사도가 높아 Fair Use 위반 가능성이 있습니다.\n")
		b.WriteString("- 추가 수정을 권장합니다:\n")
		b.WriteString("  1. 문장 구조를 더 다르게 변경\n")
		b.WriteString("  2. 다른 어휘 사용\n")
		b.WriteString("  3. 배경이나 등장인물 변경")
	}
	return b.String()
}
