package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Build   APIs\nin Go ", "Build APIs in Go"},
		{"paragraphs", "<p>One</p><p>Two</p>", "One Two"},
		{"list", "<ul><li>Go</li><li>SQL</li></ul>", "Go SQL"},
		{"entities", "R&amp;D &lt;team&gt;", "R&D <team>"},
		{"script", "<p>Hi</p><script>alert(1)</script>", "Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	short := "<p>Short description</p>"
	assert.Equal(t, "Short description", Excerpt(short, ExcerptLength))

	long := "<p>" + strings.Repeat("word ", 100) + "</p>"
	got := Excerpt(long, ExcerptLength)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), ExcerptLength+1)
	assert.NotContains(t, got, "word…word")

	cyr := strings.Repeat("вакансия ", 40)
	assert.True(t, utf8.ValidString(Excerpt(cyr, 20)))
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text escaped", "a < b", "a &lt; b"},
		{"allowed tags kept", "<p>Build <b>great</b> things</p>", "<p>Build <b>great</b> things</p>"},
		{"attributes removed", `<p onclick="x()" class="c">Hi</p>`, "<p>Hi</p>"},
		{"script dropped", "<p>ok</p><script>alert(1)</script>", "<p>ok</p>"},
		{"unknown tag unwrapped", `<div><a href="javascript:x">link</a> text</div>`, "link text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(SanitizeHTML(tt.in)))
		})
	}
}
