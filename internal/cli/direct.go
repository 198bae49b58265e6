package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rescale/dataset-fetch/internal/cloud/providers"
	internalhttp "github.com/rescale/dataset-fetch/internal/http"
	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/progress"
	"github.com/rescale/dataset-fetch/internal/transfer"
)

// directCatalog supplies the jobs for the direct command.
var directCatalog = jobs.DirectCatalog

func newDirectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "direct",
		Short: "Stream the dataset archives directly with live progress",
		Long: `Download each archive with a streaming GET, all at the same time,
showing one progress bar per dataset.

Supported sources:
  https://   plain HTTP(S) with redirects (proxy settings apply)
  s3://      Amazon S3, using the standard AWS credential chain
  az://      Azure Blob Storage, optionally with --azure-sas-token

Failed downloads leave their partial file in place.

Examples:
  dataset-fetch direct
  dataset-fetch direct --plain --output-root /data
  dataset-fetch direct --proxy-mode basic --proxy-host proxy.corp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := prepareJobs(directCatalog())
			if err != nil {
				return err
			}

			c := GetConfig()
			log := GetLogger()

			client, err := internalhttp.CreateOptimizedClient(c)
			if err != nil {
				return fmt.Errorf("failed to configure HTTP client: %w", err)
			}

			ui := progress.NewUI(c.Plain, os.Stdout)
			if ui.IsTerminal() {
				// Route log lines above the bars
				log.SetOutput(ui.Writer())
				defer log.SetOutput(os.Stdout)
			}

			factory := providers.NewFactory(c, client, log)
			downloader := transfer.NewDownloader(factory, ui, log)

			return runBatch(cmd, list, downloader)
		},
	}
}
