package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// Render converts markdown source to HTML. On conversion failure the raw
// source is returned so a bad post body never 500s a read.
func Render(source string) string {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return source
	}
	return buf.String()
}
