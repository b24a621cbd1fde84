package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/agentuity/go-hn/hn"
	"github.com/agentuity/go-hn/tui"
	"github.com/spf13/cobra"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id: %s", s)
	}
	return id, nil
}

func itemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item <id>",
		Short: "Show a single item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			format, err := getOutput(cmd)
			if err != nil {
				return err
			}
			item, err := a.reader.Items.Item(cmd.Context(), id)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("item %d: %w", id, hn.ErrNotFound)
			}

			out := cmd.OutOrStdout()
			if ok, err := encode(out, format, item); ok {
				return err
			}
			tui.RenderItem(out, item, a.now(), tui.Width())
			return nil
		},
	}
	addOutputFlag(cmd)
	return cmd
}

// threadJSON is the encoded form of a hn.Thread.
type threadJSON struct {
	hn.Item `yaml:",inline"`
	Replies []threadJSON `json:"replies,omitempty" yaml:"replies,omitempty"`
}

func toThreadJSON(t *hn.Thread) threadJSON {
	out := threadJSON{Item: *t.Item}
	for _, child := range t.Children {
		out.Replies = append(out.Replies, toThreadJSON(child))
	}
	return out
}

func threadCmd(a *app) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "thread <id>",
		Short: "Show an item with its comment tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			format, err := getOutput(cmd)
			if err != nil {
				return err
			}
			if depth < 0 {
				return fmt.Errorf("depth must not be negative, got %d", depth)
			}

			var thread *hn.Thread
			err = tui.ShowSpinner(cmd.Context(), "Loading comments...", func(ctx context.Context) (err error) {
				thread, err = a.reader.Thread(ctx, id, depth)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ok, err := encode(out, format, toThreadJSON(thread)); ok {
				return err
			}
			tui.RenderThread(out, thread, a.now(), tui.Width())
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "levels of replies to load")
	addOutputFlag(cmd)
	return cmd
}
