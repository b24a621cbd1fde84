package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/agentuity/go-hn/hn"
	"github.com/agentuity/go-hn/resilience"
	"github.com/agentuity/go-hn/tui"
	"github.com/spf13/cobra"
)

func watchCmd(a *app) *cobra.Command {
	var (
		limit    int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <kind>",
		Short: "Redraw a feed page periodically, optionally serving metrics",
		Long: "Redraw a feed page every interval until interrupted. Feed lists refresh\n" +
			"once their cache entry expires; items already seen are served from memory.\n" +
			"With --metrics-addr the cache and request metrics are served at /metrics.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := hn.ParseFeedKind(args[0])
			if err != nil {
				return err
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			ctx := cmd.Context()

			addr, _ := cmd.Flags().GetString("metrics-addr")
			if addr == "" {
				addr = a.cfg.MetricsAddr
			}
			if addr != "" {
				stop, err := a.serveMetrics(ctx, addr)
				if err != nil {
					return err
				}
				defer stop()
			}

			breaker := resilience.NewBreaker(resilience.Config{
				MaxFailures: 3,
				Cooldown:    max(5*interval, time.Minute),
				OnStateChange: func(from, to resilience.State) {
					a.logger.Info("refresh breaker %s -> %s", from, to)
				},
			})
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				err := breaker.Do(ctx, func(ctx context.Context) error {
					return a.drawFeed(ctx, kind, limit)
				})
				switch {
				case ctx.Err() != nil:
					return nil
				case errors.Is(err, resilience.ErrOpen):
					a.logger.Debug("skipping refresh of %s while the api is failing", kind)
				case err != nil:
					a.logger.Warn("error loading %s: %s", kind, err)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of stories")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "time between redraws")
	cmd.Flags().String("metrics-addr", "", "address to serve prometheus metrics on (e.g. :9090)")
	return cmd
}

func (a *app) drawFeed(ctx context.Context, kind hn.FeedKind, limit int) error {
	snap, err := a.reader.Feeds.Snapshot(ctx, kind)
	if err != nil {
		return err
	}
	items, err := a.reader.Page(ctx, kind, 0, limit)
	if err != nil {
		return err
	}
	now := a.now()
	var frame bytes.Buffer
	fmt.Fprintln(&frame, tui.Title(fmt.Sprintf("%s stories", kind))+" "+
		tui.Muted(fmt.Sprintf("list fetched %s ago, updated %s", hn.TimeAgo(now, snap.FetchedAt), now.Format(time.Kitchen))))
	tui.StoryTable(&frame, items, 0, now)
	tui.Redraw(frame.String())
	return nil
}

// serveMetrics serves the metrics handler on addr until ctx ends or the
// returned stop func is called.
func (a *app) serveMetrics(ctx context.Context, addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error: %s", err)
		}
	}()
	a.logger.Info("serving metrics on http://%s/metrics", ln.Addr())
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}, nil
}
