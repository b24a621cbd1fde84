package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentuity/go-hn/config"
	"github.com/agentuity/go-hn/hn"
	"github.com/agentuity/go-hn/logger"
	"github.com/agentuity/go-hn/telemetry"
	"github.com/spf13/cobra"
)

const serviceName = "hn"

// app is the state shared by every subcommand, built once the flags are
// parsed.
type app struct {
	cfg       config.Config
	logger    logger.Logger
	metrics   *hn.Metrics
	reader    *hn.Reader
	telemetry *telemetry.Telemetry
	now       func() time.Time
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	console := logger.NewConsoleLogger(cfg.Level())
	tel, err := telemetry.New(cmd.Context(), telemetry.Config{
		Endpoint:    cfg.OTLPEndpoint,
		AuthToken:   cfg.OTLPToken,
		ServiceName: serviceName,
		LogLevel:    cfg.Level(),
	}, console)
	if err != nil {
		return fmt.Errorf("error creating telemetry: %w", err)
	}
	a.telemetry = tel
	a.logger = tel.Logger
	a.metrics = hn.NewMetrics("hn")

	client := hn.NewClient(
		hn.WithBaseURL(cfg.BaseURL),
		hn.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Timeout)}),
		hn.WithLogger(a.logger),
		hn.WithMetrics(a.metrics),
		hn.WithTracerProvider(tel.TracerProvider),
	)
	a.reader = hn.NewReader(client, hn.ReaderConfig{
		FeedTTL:     time.Duration(cfg.FeedTTL),
		Concurrency: cfg.Concurrency,
		SearchURL:   cfg.SearchURL,
	})
	a.logger.Debug("using %s with concurrency %d", cfg.BaseURL, cfg.Concurrency)
	return nil
}

func (a *app) close() {
	a.telemetry.Shutdown()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hn",
		Short:         "Read Hacker News from the terminal",
		Long:          "Read Hacker News feeds, items, comment threads and search results from the terminal",
		Version:       hn.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	config.AddFlags(rootCmd)

	rootCmd.AddCommand(
		feedCmd(a),
		itemCmd(a),
		threadCmd(a),
		searchCmd(a),
		watchCmd(a),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	a := &app{now: time.Now}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
