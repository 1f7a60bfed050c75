package markup

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"articles-cms/models"
)

// Renderer converts raw article text for one markup dialect into HTML. A
// renderer must be a pure function of its input.
type Renderer func(raw string) (string, error)

// Shared goldmark instance; it is stateless and safe for concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

func renderMarkdown(raw string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(raw), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

func passthrough(raw string) (string, error) {
	return raw, nil
}

var (
	mu        sync.RWMutex
	renderers = map[models.MarkupType]Renderer{
		models.MarkupHTML:     passthrough,
		models.MarkupMarkdown: renderMarkdown,
		models.MarkupReST:     passthrough,
		models.MarkupTextile:  passthrough,
	}
)

// Register installs a renderer for a dialect, replacing the current one.
// ReST and Textile ship as passthrough until a real converter is plugged in.
func Register(markup models.MarkupType, renderer Renderer) {
	mu.Lock()
	defer mu.Unlock()
	renderers[markup] = renderer
}

// Render converts raw text with the dialect's renderer. Unknown dialects pass
// through unchanged.
func Render(markup models.MarkupType, raw string) (string, error) {
	mu.RLock()
	renderer, ok := renderers[markup]
	mu.RUnlock()

	if !ok {
		return raw, nil
	}
	return renderer(raw)
}
