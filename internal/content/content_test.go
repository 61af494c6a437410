package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedDocument(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Blog.Posts, 3)
	assert.Len(t, c.ResumeTemplates, 15)
	assert.NotEmpty(t, c.FAQs)
	assert.NotEmpty(t, c.InterviewQuestions)
	assert.Len(t, c.About.Stats, 3)

	p, ok := c.Post("post2")
	require.True(t, ok)
	assert.Equal(t, "5 Non-Technical Skills Every Developer Needs", p.Title)
	assert.NotContains(t, p.Excerpt, "<")

	_, ok = c.Post("missing")
	assert.False(t, ok)
}

func TestParse_DuplicatePostID(t *testing.T) {
	_, err := Parse([]byte(`
blog:
  posts:
    - id: a
      title: One
    - id: a
      title: Two
`))
	assert.Error(t, err)
}
