package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentuity/go-hn/hn"
	"github.com/agentuity/go-hn/tui"
	"github.com/spf13/cobra"
)

type searchOutput struct {
	Query string     `json:"query" yaml:"query"`
	Page  int        `json:"page" yaml:"page"`
	Pages int        `json:"pages" yaml:"pages"`
	Items []*hn.Item `json:"items" yaml:"items"`
}

func searchCmd(a *app) *cobra.Command {
	var (
		page        int
		hitsPerPage int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			format, err := getOutput(cmd)
			if err != nil {
				return err
			}

			var (
				items []*hn.Item
				res   hn.SearchResult
			)
			err = tui.ShowSpinner(cmd.Context(), fmt.Sprintf("Searching for %q...", query), func(ctx context.Context) (err error) {
				items, res, err = a.reader.SearchStories(ctx, query, page, hitsPerPage)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ok, err := encode(out, format, searchOutput{Query: query, Page: res.Page, Pages: res.Pages, Items: items}); ok {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(out, tui.Muted("No stories found"))
				return nil
			}
			perPage := hitsPerPage
			if perPage <= 0 {
				perPage = hn.DefaultHitsPerPage
			}
			tui.StoryTable(out, items, max(page, 0)*perPage, a.now())
			if res.Pages > 1 {
				fmt.Fprintln(out, tui.Muted(fmt.Sprintf("page %d of %d", res.Page+1, res.Pages)))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based result page")
	cmd.Flags().IntVarP(&hitsPerPage, "limit", "n", hn.DefaultHitsPerPage, "results per page")
	addOutputFlag(cmd)
	return cmd
}
