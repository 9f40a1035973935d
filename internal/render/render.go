package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in generated text is omitted; single newlines become <br>.
var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders markdown to an HTML fragment.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Draft renders a title and body as a single preview document.
func Draft(title, content string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return HTML(content)
	}
	return HTML("## " + title + "\n\n" + content)
}
