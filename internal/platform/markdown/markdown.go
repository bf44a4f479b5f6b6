package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"labsched/internal/platform/text"
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
	"!", `\!`,
)

// Escape makes server text inert: control characters are dropped, newlines are
// folded, and markdown punctuation is backslash-escaped.
func Escape(s string) string {
	return escaper.Replace(text.SingleLine(s))
}

// Document builds a markdown source incrementally.
type Document struct {
	sb strings.Builder
}

func (d *Document) Heading(level int, title string) *Document {
	if level < 1 {
		level = 1
	}
	fmt.Fprintf(&d.sb, "%s %s\n\n", strings.Repeat("#", level), title)
	return d
}

func (d *Document) Paragraph(s string) *Document {
	d.sb.WriteString(s + "\n\n")
	return d
}

func (d *Document) Bullets(items []string) *Document {
	for _, item := range items {
		d.sb.WriteString("- " + item + "\n")
	}
	if len(items) > 0 {
		d.sb.WriteString("\n")
	}
	return d
}

// Table writes a pipe table. Cells are expected to be escaped already.
func (d *Document) Table(headers []string, rows [][]string) *Document {
	if len(headers) == 0 {
		return d
	}
	d.sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	d.sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		d.sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	d.sb.WriteString("\n")
	return d
}

func (d *Document) String() string { return d.sb.String() }

// Renderer wraps a glamour renderer for a fixed wrap width.
type Renderer struct {
	width int
	term  *glamour.TermRenderer
}

func NewRenderer(width int) (*Renderer, error) {
	if width < 20 {
		width = 80
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("new markdown renderer: %w", err)
	}
	return &Renderer{width: width, term: term}, nil
}

func (r *Renderer) Width() int { return r.width }

// Render falls back to the raw source when glamour fails.
func (r *Renderer) Render(doc string) string {
	if r == nil || r.term == nil {
		return doc
	}
	out, err := r.term.Render(doc)
	if err != nil {
		return doc
	}
	return strings.TrimRight(out, "\n")
}
