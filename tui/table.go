package tui

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agentuity/go-hn/hn"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableBorderColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#AAAAAA"}
	tableBorderStyle = lipgloss.NewStyle().Foreground(tableBorderColor)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table writes headers and rows to w as a bordered table.
func Table(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

var storyHeaders = []string{"#", "Title", "Site", "Points", "By", "Age", "Comments"}

// StoryRows turns a page of items into table rows ranked from offset+1.
// Titles are cut to titleWidth cells.
func StoryRows(items []*hn.Item, offset int, now time.Time, titleWidth int) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(offset + i + 1),
			MaxWidth(item.Title, titleWidth),
			hn.Host(item.URL),
			strconv.Itoa(item.Score),
			item.By,
			hn.TimeAgo(now, item.CreatedAt()),
			strconv.Itoa(item.Descendants),
		})
	}
	return rows
}

// StoryTable writes a ranked table of stories to w.
func StoryTable(w io.Writer, items []*hn.Item, offset int, now time.Time) {
	titleWidth := max(Width()-60, 30)
	Table(w, storyHeaders, StoryRows(items, offset, now, titleWidth))
}
