package hn

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText converts the HTML fragment HN uses for item text into plain text
// for a terminal. Paragraphs become blank-line separated, links keep their
// text and add the target in angle brackets when it differs, and script and
// style content is dropped. Malformed input degrades to its text content.
func PlainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return html.UnescapeString(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return strings.TrimSpace(collapseBlankLines(b.String()))
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(b, c)
		}
		return
	}
	switch n.DataAtom {
	case atom.Script, atom.Style:
		return
	case atom.P:
		b.WriteString("\n\n")
	case atom.Br:
		b.WriteString("\n")
		return
	case atom.Pre:
		b.WriteString("\n")
	}
	start := b.Len()
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.DataAtom == atom.A {
		href := attr(n, "href")
		if href != "" && strings.TrimSpace(b.String()[start:]) != href {
			b.WriteString(" <" + href + ">")
		}
	}
	if n.DataAtom == atom.Pre {
		b.WriteString("\n")
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
