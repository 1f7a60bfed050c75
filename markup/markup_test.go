package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"articles-cms/models"
)

func TestRenderHTMLPassesThrough(t *testing.T) {
	raw := "<p>already <b>html</b></p>"

	out, err := Render(models.MarkupHTML, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := Render(models.MarkupMarkdown, "# Heading\n\nsome **bold** text")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderMarkdownKeepsRawHTML(t *testing.T) {
	out, err := Render(models.MarkupMarkdown, `<a href="http://example.com">link</a>`)
	require.NoError(t, err)
	assert.Contains(t, out, `href="http://example.com"`)
}

func TestRenderUnknownDialectPassesThrough(t *testing.T) {
	out, err := Render(models.MarkupType("x"), "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", out)
}

func TestRegisterReplacesRenderer(t *testing.T) {
	Register(models.MarkupTextile, func(raw string) (string, error) {
		return strings.ToUpper(raw), nil
	})
	defer Register(models.MarkupTextile, passthrough)

	out, err := Render(models.MarkupTextile, "shout")
	require.NoError(t, err)
	assert.Equal(t, "SHOUT", out)
}
