package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddFlags registers the persistent flags that ApplyFlags reads.
func AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default "+DefaultPath()+")")
	flags.String("env-file", ".env", "dotenv file with HN_ settings")
	flags.String("base-url", "", "Hacker News API base url")
	flags.String("search-url", "", "Algolia search API base url")
	flags.String("feed-ttl", "", "how long feed id lists stay fresh (e.g. 2m)")
	flags.Int("concurrency", 0, "maximum concurrent item requests")
	flags.String("timeout", "", "per request timeout (e.g. 15s)")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("otlp-endpoint", "", "OTLP/HTTP collector base url")
}

// FromCommand loads the Config for cmd: the file named by --config (or the
// default path if present), the --env-file, the environment, then any flags
// set on the command line.
func FromCommand(cmd *cobra.Command) (Config, error) {
	var opts []LoadOption
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, WithFile(path))
	} else if path := DefaultPath(); path != "" {
		opts = append(opts, WithOptionalFile(path))
	}
	if path, _ := cmd.Flags().GetString("env-file"); path != "" {
		opts = append(opts, WithEnvFile(path))
	}
	cfg, err := Load(opts...)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyFlags(cmd, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyFlags overrides cfg with the flags explicitly set on cmd.
func ApplyFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()
	strFlag := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	durFlag := func(name string, dst *Duration) error {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: %w", name, v, err)
		}
		*dst = d
		return nil
	}

	strFlag("base-url", &cfg.BaseURL)
	strFlag("search-url", &cfg.SearchURL)
	strFlag("log-level", &cfg.LogLevel)
	strFlag("otlp-endpoint", &cfg.OTLPEndpoint)
	if err := durFlag("feed-ttl", &cfg.FeedTTL); err != nil {
		return err
	}
	if err := durFlag("timeout", &cfg.Timeout); err != nil {
		return err
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	return nil
}
