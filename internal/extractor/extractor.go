package extractor

import (
	"regexp"
	"strings"
)

// FallbackTitleRunes bounds a title taken from the first content line.
const FallbackTitleRunes = 50

var (
	titleRe   = regexp.MustCompile(`(?i)^[#*\s]*(?:제목|title)\s*\**\s*[:：]\s*(.*)$`)
	contentRe = regexp.MustCompile(`(?i)^[#*\s]*(?:내용|본문|content|body)\s*\**\s*[:：]\s*(.*)$`)

	// enumerationCutset is stripped from the left of every title candidate.
	enumerationCutset = "0123456789.-) "
)

// Draft is the structured form of a generator response.
type Draft struct {
	Title   string
	Content string
}

// Parse extracts a title and content from freeform generator output.
//
// Lines after a content marker become the content, one paragraph per
// non-empty line. Without a title marker the first content line, clipped to
// FallbackTitleRunes, is used as the title. When neither marker is present
// the trimmed text is returned as content with an empty title. Parse never
// fails.
func Parse(raw string) Draft {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	var (
		title        string
		hasTitle     bool
		hasContent   bool
		contentLines []string
		looseLines   []string
	)

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if !hasTitle {
			if m := titleRe.FindStringSubmatch(line); m != nil {
				title = cleanTitle(m[1])
				hasTitle = true
				continue
			}
		}

		if !hasContent {
			if m := contentRe.FindStringSubmatch(line); m != nil {
				hasContent = true
				if rest := strings.TrimSpace(m[1]); rest != "" {
					contentLines = append(contentLines, rest)
				}
				continue
			}
		}

		if line == "" {
			continue
		}
		if hasContent {
			contentLines = append(contentLines, line)
		} else {
			looseLines = append(looseLines, line)
		}
	}

	switch {
	case !hasTitle && !hasContent:
		return Draft{Content: strings.TrimSpace(raw)}
	case !hasContent:
		// Title only: whatever follows it is the body.
		contentLines = looseLines
	}

	content := strings.Join(contentLines, "\n\n")
	if !hasTitle && len(contentLines) > 0 {
		title = clip(contentLines[0], FallbackTitleRunes)
	}
	return Draft{Title: title, Content: content}
}

// Titles splits a title-list response into candidates. Leading enumeration
// ("1.", "2)", "-") is stripped, candidates shorter than minRunes are
// dropped, and at most limit titles are returned.
func Titles(raw string, minRunes, limit int) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if len(out) >= limit {
			break
		}
		line = strings.TrimLeft(strings.TrimSpace(line), enumerationCutset)
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) < minRunes {
			continue
		}
		out = append(out, line)
	}
	return out
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*")
	return strings.TrimSpace(s)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
