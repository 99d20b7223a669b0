package richtext

import (
	"strings"
	"testing"

	"github.com/h0rv/weekplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func createTestDays() []domain.DayData {
	return []domain.DayData{
		{
			Date:    "2025-08-11",
			DayName: "Monday",
			Items: []domain.Item{
				{ID: "1", Text: "Standup"},
				{ID: "2", Text: "Review PR"},
			},
		},
		{Date: "2025-08-12", DayName: "Tuesday", Items: []domain.Item{}},
	}
}

func TestHTML_Layout(t *testing.T) {
	got := HTML(createTestDays(), Options{HeadingLevel: "h3"})

	want := "<h3>Monday</h3>\n<ul>\n  <li>Standup</li>\n  <li>Review PR</li>\n</ul>\n\n" +
		"<h3>Tuesday</h3>\n<ul>\n  <li></li>\n</ul>\n\n"
	assert.Equal(t, want, got)
}

func TestHTML_HeadingLevels(t *testing.T) {
	days := createTestDays()[:1]

	assert.True(t, strings.HasPrefix(HTML(days, Options{HeadingLevel: "h1"}), "<h1>Monday</h1>"))
	assert.True(t, strings.HasPrefix(HTML(days, Options{HeadingLevel: "p"}), "<p>Monday</p>"))
	assert.True(t, strings.HasPrefix(HTML(days, Options{}), "<h3>Monday</h3>"), "empty defaults to h3")
	assert.True(t, strings.HasPrefix(HTML(days, Options{HeadingLevel: "script"}), "<h3>Monday</h3>"))
}

func TestHTML_KeepsDayOrder(t *testing.T) {
	days := createTestDays()
	days[0], days[1] = days[1], days[0]

	got := HTML(days, Options{})
	assert.Less(t, strings.Index(got, "Tuesday"), strings.Index(got, "Monday"))
}

func TestHTML_EscapesText(t *testing.T) {
	days := []domain.DayData{{
		DayName: "Mon & Tue",
		Items:   []domain.Item{{ID: "1", Text: `<script>alert("x")</script> & more`}},
	}}

	got := HTML(days, Options{})
	assert.Contains(t, got, "<h3>Mon &amp; Tue</h3>")
	assert.Contains(t, got, "<li>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; more</li>")
}

func TestHTML_Markdown(t *testing.T) {
	days := []domain.DayData{{
		DayName: "Monday",
		Items: []domain.Item{
			{ID: "1", Text: "**ship** it ~~later~~"},
			{ID: "2", Text: "<b>raw</b>"},
		},
	}}

	got := HTML(days, Options{Markdown: true})
	assert.Contains(t, got, "<li><strong>ship</strong> it <del>later</del></li>")
	assert.NotContains(t, got, "<b>raw</b>", "raw HTML is dropped")
	assert.NotContains(t, got, "<li><p>")
}

func TestMarkdown(t *testing.T) {
	got := Markdown(createTestDays(), "h2")

	want := "## Monday\n\n- Standup\n- Review PR\n\n## Tuesday\n\n- \n"
	assert.Equal(t, want, got)
}

func TestMarkdown_Paragraph(t *testing.T) {
	got := Markdown(createTestDays()[:1], "p")
	assert.True(t, strings.HasPrefix(got, "**Monday**\n\n- Standup\n"))
}

func TestMarkdown_FlattensNewlines(t *testing.T) {
	days := []domain.DayData{{DayName: "Monday", Items: []domain.Item{{ID: "1", Text: "a\nb"}}}}
	assert.Contains(t, Markdown(days, "h3"), "- a b\n")
}

func TestPreview(t *testing.T) {
	out := Preview(Markdown(createTestDays(), "h3"), 60, "notty")

	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, "Standup")
	assert.NotEmpty(t, strings.TrimSpace(out))
}
