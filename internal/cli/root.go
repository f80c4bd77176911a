// Package cli implements the tinyservice command line: a demo routing table
// of built-in string handlers composed with combinators and middleware from
// a YAML configuration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tinyservice/config"
	"github.com/hupe1980/tinyservice/layer/metrics"
	"github.com/hupe1980/tinyservice/logging"
)

var version = "dev"

var configPath string

// Populated by PersistentPreRunE for the running command.
var (
	cfg       *config.Config
	logger    logging.Logger
	collector *metrics.Collector
	router    *Router
)

var rootCmd = &cobra.Command{
	Use:   "tinyservice",
	Short: "Compose and call services from the command line",
	Long: `tinyservice builds a routing table of built-in handlers (echo, upper,
reverse, length), wraps each in the middleware named by the configuration
(tracing, metrics, rate limits, concurrency limits) and calls them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (defaults are used when empty)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	c := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		c = loaded
	}

	lc := c.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	lc.Component = "cli"

	cfg = c
	logger = logging.NewLogger(lc)
	collector = nil
	if c.Metrics.Enabled {
		collector = metrics.NewCollector(c.Metrics.Namespace)
	}

	r, err := BuildRouter(c, logger, collector)
	if err != nil {
		return fmt.Errorf("failed to build routes: %w", err)
	}
	router = r

	return nil
}
