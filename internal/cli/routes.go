package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List configured routes",
	Args:  cobra.NoArgs,
	RunE:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	names := router.Names()
	if len(names) == 0 {
		cmd.Println("No routes configured.")
		return nil
	}

	for _, name := range names {
		rc := cfg.Routes[name]
		line := name + "\t" + rc.Handler
		if layers := describe(rc, cfg.Metrics.Enabled); len(layers) > 0 {
			line += "\t" + strings.Join(layers, ", ")
		}
		cmd.Println(line)
	}

	return nil
}
