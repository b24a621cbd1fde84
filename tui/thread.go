package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agentuity/go-hn/hn"
	"github.com/charmbracelet/lipgloss"
)

const indentWidth = 2

var commentStyle = lipgloss.NewStyle()

// Byline is the "N points by user 3h ago | M comments" line for an item.
func Byline(item *hn.Item, now time.Time) string {
	var parts []string
	if item.Type != hn.TypeComment {
		parts = append(parts, strconv.Itoa(item.Score)+" "+hn.Pluralize(item.Score, "point", ""))
	}
	if item.By != "" {
		parts = append(parts, "by "+item.By)
	}
	if ago := hn.TimeAgo(now, item.CreatedAt()); ago != "" {
		parts = append(parts, ago+" ago")
	}
	line := strings.Join(parts, " ")
	if item.Type != hn.TypeComment {
		line += fmt.Sprintf(" | %d %s", item.Descendants, hn.Pluralize(item.Descendants, "comment", ""))
	}
	return line
}

// RenderItem writes a single item: the title banner with link and byline,
// followed by its text.
func RenderItem(w io.Writer, item *hn.Item, now time.Time, width int) {
	title := item.Title
	if title == "" {
		title = "#" + strconv.Itoa(item.ID)
	}
	var body []string
	if item.URL != "" {
		body = append(body, item.URL)
	}
	body = append(body, Byline(item, now))
	if text := hn.PlainText(item.Text); text != "" {
		body = append(body, "", text)
	}
	fmt.Fprintln(w, Banner(title, strings.Join(body, "\n"), width))
}

// RenderThread writes the root item and then every loaded comment indented
// by its depth.
func RenderThread(w io.Writer, thread *hn.Thread, now time.Time, width int) {
	RenderItem(w, thread.Item, now, width)
	thread.Walk(func(t *hn.Thread, depth int) {
		if depth == 0 {
			return
		}
		indent := (depth - 1) * indentWidth
		textWidth := max(width-indent, 20)
		style := commentStyle.MarginLeft(indent).Width(textWidth)
		fmt.Fprintln(w)
		fmt.Fprintln(w, style.Render(Muted(Byline(t.Item, now))))
		fmt.Fprintln(w, style.Render(hn.PlainText(t.Item.Text)))
	})
}
