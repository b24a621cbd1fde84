package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentuity/go-hn/hn"
	"github.com/agentuity/go-hn/tui"
	"github.com/spf13/cobra"
)

func feedKindsHelp() string {
	kinds := hn.FeedKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func feedCmd(a *app) *cobra.Command {
	var (
		offset int
		limit  int
	)

	cmd := &cobra.Command{
		Use:       "feed <kind>",
		Short:     "List a page of stories from a feed",
		Long:      "List a page of stories from a feed. Kinds: " + feedKindsHelp(),
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"top", "new", "best", "ask", "show", "jobs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := hn.ParseFeedKind(args[0])
			if err != nil {
				return err
			}
			format, err := getOutput(cmd)
			if err != nil {
				return err
			}

			var items []*hn.Item
			err = tui.ShowSpinner(cmd.Context(), fmt.Sprintf("Loading %s stories...", kind), func(ctx context.Context) (err error) {
				items, err = a.reader.Page(ctx, kind, offset, limit)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ok, err := encode(out, format, items); ok {
				return err
			}
			tui.StoryTable(out, items, offset, a.now())
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "index of the first story")
	cmd.Flags().IntVarP(&limit, "limit", "n", 30, "number of stories")
	addOutputFlag(cmd)
	return cmd
}
