// Package richtext renders a week of day cards for pasting into documents,
// chat or email: an HTML fragment, a Markdown document, and a terminal
// preview of the Markdown.
package richtext

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/h0rv/weekplan/internal/domain"
)

// Options controls the HTML export.
type Options struct {
	// HeadingLevel is one of domain.HeadingLevels; empty means h3.
	HeadingLevel string
	// Markdown renders item text as inline Markdown instead of escaping it.
	Markdown bool
}

// Raw HTML in item text is never passed through.
var inline = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
	),
)

// HTML renders days in the given order. Every day gets a heading and a list;
// a day without items gets a single empty list entry.
func HTML(days []domain.DayData, opts Options) string {
	tag := headingTag(opts.HeadingLevel)

	var b strings.Builder
	for _, day := range days {
		fmt.Fprintf(&b, "<%s>%s</%s>\n<ul>\n", tag, html.EscapeString(day.DayName), tag)
		if len(day.Items) == 0 {
			b.WriteString("  <li></li>\n")
		}
		for _, it := range day.Items {
			b.WriteString("  <li>")
			b.WriteString(itemHTML(it.Text, opts.Markdown))
			b.WriteString("</li>\n")
		}
		b.WriteString("</ul>\n\n")
	}
	return b.String()
}

func itemHTML(text string, markdown bool) string {
	if !markdown {
		return html.EscapeString(text)
	}
	var buf bytes.Buffer
	if err := inline.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	out := strings.TrimSpace(buf.String())
	// A single paragraph is unwrapped so it sits inline in the <li>.
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out
}

func headingTag(level string) string {
	if !domain.ValidHeadingLevel(level) {
		return domain.DefaultHeadingLevel
	}
	return level
}

// Markdown renders days as a Markdown document. The heading level maps to
// the number of '#'; "p" renders the day name in bold.
func Markdown(days []domain.DayData, headingLevel string) string {
	tag := headingTag(headingLevel)

	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		if tag == "p" {
			fmt.Fprintf(&b, "**%s**\n\n", day.DayName)
		} else {
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", int(tag[1]-'0')), day.DayName)
		}
		if len(day.Items) == 0 {
			b.WriteString("- \n")
		}
		for _, it := range day.Items {
			fmt.Fprintf(&b, "- %s\n", strings.ReplaceAll(it.Text, "\n", " "))
		}
	}
	return b.String()
}

// Preview renders Markdown for the terminal with a glamour standard style
// ("dark", "light", "notty", ...). If rendering fails the source is
// returned unchanged.
func Preview(md string, width int, style string) string {
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
