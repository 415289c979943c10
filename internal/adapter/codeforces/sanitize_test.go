package codeforces

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScriptsAndHandlers(t *testing.T) {
	in := `<p class="x" onclick="steal()">Hello</p>` +
		`<script>alert(1)</script>` +
		`<img src="https://codeforces.com/a.png" onerror="steal()" alt="pic">` +
		`<pre>1 2</pre><table><tbody><tr><td>c</td></tr></tbody></table>` +
		`<a href="https://codeforces.com/blog">blog</a>`

	out := Sanitize(in)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "onerror")

	assert.Contains(t, out, `<p class="x">Hello</p>`)
	assert.Contains(t, out, "<pre>1 2</pre>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `src="https://codeforces.com/a.png"`)
	assert.Contains(t, out, `<a href="https://codeforces.com/blog"`)
}

func TestSanitizeForcesSafeAnchors(t *testing.T) {
	in := `<a href="https://example.com" target="_self" rel="opener">x</a>` +
		`<p><a href="/relative">y</a></p>`

	out := Sanitize(in)

	assert.Equal(t, 2, strings.Count(out, `target="_blank"`))
	assert.Equal(t, 2, strings.Count(out, `rel="noopener noreferrer"`))
	assert.NotContains(t, out, "_self")
	assert.NotContains(t, out, `rel="opener"`)
}

func TestSanitizeDropsDisallowedTags(t *testing.T) {
	out := Sanitize(`<iframe src="https://evil"></iframe><form><input name="q"></form><b>ok</b>`)

	assert.NotContains(t, out, "iframe")
	assert.NotContains(t, out, "<form")
	assert.NotContains(t, out, "<input")
	assert.Contains(t, out, "<b>ok</b>")
}

func TestSanitizeRejectsJavascriptURLs(t *testing.T) {
	out := Sanitize(`<a href="javascript:alert(1)">x</a>`)
	assert.NotContains(t, out, "javascript:")
}
