package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Run("basic markdown", func(t *testing.T) {
		html := Render("Some **bold** text")
		assert.Contains(t, html, "<strong>bold</strong>")
	})

	t.Run("gfm tables", func(t *testing.T) {
		html := Render("| a | b |\n| --- | --- |\n| 1 | 2 |")
		assert.Contains(t, html, "<table>")
	})

	t.Run("code blocks get our wrapper", func(t *testing.T) {
		html := Render("```go\nfunc main() {}\n```")
		assert.Contains(t, html, `<pre class="vca-code">`)
	})
}

func TestRenderPlaintext(t *testing.T) {
	text := RenderPlaintext("Some **bold** text with a [link](https://example.com)")
	assert.Contains(t, text, "bold")
	assert.NotContains(t, text, "<strong>")
	assert.NotContains(t, text, "https://example.com")
}

func TestFirstUrl(t *testing.T) {
	assert.Equal(t, "https://example.com/demo", FirstUrl("check out https://example.com/demo please"))
	assert.Equal(t, "", FirstUrl("no links here"))
}
