package views

import (
	"strings"
)

// RenderResults renders one line per item, highlighting the first
// case-insensitive occurrence of query in each
func (r *Renderer) RenderResults(items []string, query string) string {
	if len(items) == 0 {
		return r.styles.Dim.Render("  No cheese found")
	}

	q := strings.ToLower(query)
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = r.styles.Item.Render(r.highlight(item, q))
	}
	return strings.Join(lines, "\n")
}

// PlainResults is the unstyled list, used for the pager
func PlainResults(items []string, query string) string {
	b := &strings.Builder{}
	b.WriteString("Results for \"")
	b.WriteString(query)
	b.WriteString("\"\n\n")
	for _, item := range items {
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) highlight(item, loweredQuery string) string {
	if loweredQuery == "" {
		return item
	}
	// lowercasing can change byte lengths outside ASCII
	lowered := strings.ToLower(item)
	if len(lowered) != len(item) {
		return item
	}
	at := strings.Index(lowered, loweredQuery)
	if at < 0 {
		return item
	}
	end := at + len(loweredQuery)
	return item[:at] + r.styles.Highlight.Render(item[at:end]) + item[end:]
}
