package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown is the shared converter; GFM tables are needed for the
// utilization table in Summary output.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts GFM Markdown text into an HTML fragment.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderHTML converts the report's Markdown summary into a standalone
// HTML fragment.
func (r *FlowReport) RenderHTML() (string, error) {
	return RenderMarkdown(r.Summary())
}
