// Command tinyservice composes built-in services from a YAML config and calls
// them from the command line.
package main

import (
	"os"

	"github.com/hupe1980/tinyservice/internal/cli"
)

// Set via -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
