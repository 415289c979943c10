package codeforces

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "span", "div", "ul", "ol", "li", "em", "strong", "i", "b", "u", "s",
	"table", "thead", "tbody", "tr", "th", "td", "caption",
	"pre", "code", "br", "sub", "sup", "img", "a", "hr",
}

var statementPolicy = newStatementPolicy()

func newStatementPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowAttrs("href", "name", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "srcset").OnElements("img")
	p.AllowAttrs("class").Globally()
	p.AllowStandardURLs()
	return p
}

// Sanitize restricts statement HTML to the allow-list and makes every anchor
// open in a new tab without access to window.opener.
func Sanitize(fragment string) string {
	return forceSafeAnchors(statementPolicy.Sanitize(fragment))
}

func forceSafeAnchors(fragment string) string {
	if !strings.Contains(fragment, "<a") {
		return fragment
	}

	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), parent)
	if err != nil {
		return fragment
	}

	var b strings.Builder
	for _, n := range nodes {
		rewriteAnchors(n)
		if err := html.Render(&b, n); err != nil {
			return fragment
		}
	}
	return b.String()
}

func rewriteAnchors(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		setAttr(n, "target", "_blank")
		setAttr(n, "rel", "noopener noreferrer")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteAnchors(c)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
