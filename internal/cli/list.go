package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rescale/dataset-fetch/internal/jobs"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the built-in dataset lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			root, err := outputRoot()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "kaggle:")
			printJobs(out, jobs.Rebase(jobs.KaggleCatalog(), root))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "direct:")
			printJobs(out, jobs.Rebase(jobs.DirectCatalog(), root))
			return nil
		},
	}
}

func printJobs(out io.Writer, list []jobs.Job) {
	for _, j := range list {
		fmt.Fprintf(out, "  %-18s %s\n", j.Name, j.Source)
		fmt.Fprintf(out, "  %-18s -> %s\n", "", j.Destination)
	}
}
