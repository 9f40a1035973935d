package prompts

import (
	"fmt"
	"strings"
)

// DefaultGoal is the improvement goal used when the caller gives none.
const DefaultGoal = "더 재미있게"

// titlePreviewRunes bounds how much content is shown to the title generator.
const titlePreviewRunes = 500

// Input describes a recreation prompt.
type Input struct {
	Concept      string
	Style        Style // empty for no style fragment
	WithExamples bool
	ExampleCount int // defaults to 1 when WithExamples is set
	Instructions string
}

// SystemPrompt returns the policy preamble followed by the style fragment.
// Unknown or empty styles get the preamble only.
func SystemPrompt(style Style) string {
	prof, ok := style.Profile()
	if !ok {
		return basePolicy
	}
	return basePolicy + "\n\n" + prof.Fragment
}

// Examples returns up to count worked examples for style. Styles without
// their own examples borrow the casual ones.
func Examples(style Style, count int) []Example {
	prof, ok := style.Profile()
	if !ok || len(prof.Examples) == 0 {
		prof = catalog[StyleCasual]
	}
	if count > len(prof.Examples) {
		count = len(prof.Examples)
	}
	if count < 0 {
		count = 0
	}
	return prof.Examples[:count]
}

// Build composes the system and user prompts for a recreation request.
// It never fails.
func Build(in Input) (system, user string) {
	system = SystemPrompt(in.Style)

	var parts []string
	if in.WithExamples {
		n := in.ExampleCount
		if n <= 0 {
			n = 1
		}
		examples := Examples(in.Style, n)
		if len(examples) > 0 {
			parts = append(parts, "### 참고 예제:")
			for i, ex := range examples {
				parts = append(parts,
					fmt.Sprintf("\n**예제 %d**:", i+1),
					"원본: "+ex.Original,
					"\n재창작:\n"+ex.Recreated,
					"",
				)
			}
			parts = append(parts, "---\n")
		}
	}

	recreation := fmt.Sprintf(recreationTemplate, in.Concept)
	if extra := strings.TrimSpace(in.Instructions); extra != "" {
		recreation += "\n\n### 추가 요구사항:\n" + extra
	}
	parts = append(parts, recreation)

	return system, strings.Join(parts, "\n")
}

// Improve builds the single-paragraph improvement prompt.
func Improve(paragraph, goal string, style Style) string {
	if strings.TrimSpace(goal) == "" {
		goal = DefaultGoal
	}
	return fmt.Sprintf(improveTemplate, goal, styleLine(style), paragraph)
}

// Titles builds the system and user prompts requesting count title candidates.
func Titles(content string, style TitleStyle, count int) (system, user string) {
	instruction, ok := titleInstructions[style]
	if !ok {
		instruction = titleInstructions[TitleCatchy]
	}
	preview := content
	if r := []rune(content); len(r) > titlePreviewRunes {
		preview = string(r[:titlePreviewRunes])
	}
	return titleSystem, fmt.Sprintf(titleTemplate, count, instruction, preview, count)
}

// Feedback builds the revision prompt combining concept, draft and feedback.
func Feedback(concept, draft, feedback string, style Style) string {
	return fmt.Sprintf(feedbackTemplate, styleLine(style), concept, draft, feedback)
}

func styleLine(style Style) string {
	prof, ok := style.Profile()
	if !ok {
		return ""
	}
	return "\n" + prof.Fragment + "\n"
}
