// dataset-fetch downloads the chest X-ray dataset archives concurrently,
// either through the kaggle CLI or by direct transfer.
package main

import (
	"os"

	"github.com/rescale/dataset-fetch/internal/cli"
	"github.com/rescale/dataset-fetch/internal/version"
)

// Version information, overridden with -ldflags "-X main.Version=..."
var (
	Version   = "v1.0.0-dev"
	BuildTime = "unknown"
)

func main() {
	// Set version in version package (canonical source for all packages)
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
