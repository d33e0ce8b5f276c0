package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/util"
	"mvdan.cc/xurls/v2"
)

// Used for rendering curriculum sections, project descriptions, bios
// and feedback bodies.
var ContentMarkdown = goldmark.New(
	goldmark.WithExtensions(makeGoldmarkExtensions()...),
)

// Used for generating plain-text summaries, e.g. for Slack messages.
var PlaintextMarkdown = goldmark.New(
	goldmark.WithExtensions(makeGoldmarkExtensions()...),
	goldmark.WithRenderer(plaintextRenderer{}),
)

func Render(source string) string {
	return convert(source, ContentMarkdown)
}

func RenderPlaintext(source string) string {
	return convert(source, PlaintextMarkdown)
}

func convert(source string, md goldmark.Markdown) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		panic(err)
	}

	return buf.String()
}

var strictUrls = xurls.Strict()

// FirstUrl returns the first absolute URL found in a piece of text,
// or the empty string.
func FirstUrl(text string) string {
	return strictUrls.FindString(text)
}

func makeGoldmarkExtensions() []goldmark.Extender {
	return []goldmark.Extender{
		extension.GFM,
		highlightExtension,
	}
}

var highlightExtension = highlighting.NewHighlighting(
	highlighting.WithFormatOptions(chromaOptions...),
	highlighting.WithWrapperRenderer(func(w util.BufWriter, context highlighting.CodeBlockContext, entering bool) {
		if entering {
			w.WriteString(`<pre class="vca-code">`)
		} else {
			w.WriteString(`</pre>`)
		}
	}),
)
