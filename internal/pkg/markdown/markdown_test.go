package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeadingsAndEmphasis(t *testing.T) {
	out := Render("# Title\n\nsome *emphasis* here")

	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<em>emphasis</em>")
}

func TestRenderGFMTable(t *testing.T) {
	out := Render("| a | b |\n|---|---|\n| 1 | 2 |")

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestRenderAutolink(t *testing.T) {
	out := Render("see https://example.com for details")

	assert.Contains(t, out, `<a href="https://example.com"`)
}

func TestRenderEmptyInput(t *testing.T) {
	assert.Equal(t, "", Render(""))
}
