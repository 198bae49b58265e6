package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/kaggle"
)

func newKaggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kaggle",
		Short: "Download the datasets through the kaggle CLI",
		Long: `Run "kaggle datasets download" once per dataset, all at the same time.

Each dataset is unzipped into its destination directory by the kaggle tool.
Credentials are read by kaggle itself from ~/.kaggle/kaggle.json (or
KAGGLE_USERNAME/KAGGLE_KEY, which may come from a .env file).

Examples:
  dataset-fetch kaggle
  dataset-fetch kaggle --output-root /data --max-parallel 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := prepareJobs(jobs.KaggleCatalog())
			if err != nil {
				return err
			}

			runner := kaggle.NewRunner(GetConfig().KaggleBin, &kaggle.ExecRunner{Stdout: os.Stdout}, GetLogger())
			runner.CheckCredentials()

			return runBatch(cmd, list, runner)
		},
	}
}
