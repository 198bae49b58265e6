package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rescale/dataset-fetch/internal/core"
	"github.com/rescale/dataset-fetch/internal/diskspace"
	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/pathutil"
)

// BatchFailedError is returned when at least one dataset failed and
// --ignore-failures is not set. It turns into a non-zero exit status.
type BatchFailedError struct {
	Failed int
	Total  int
}

func (e *BatchFailedError) Error() string {
	return fmt.Sprintf("%d of %d datasets failed to download", e.Failed, e.Total)
}

// outputRoot resolves --output-root, or returns "" to keep destinations
// relative to the working directory.
func outputRoot() (string, error) {
	root := GetConfig().OutputRoot
	if root == "" {
		return "", nil
	}
	resolved, err := pathutil.ResolveAbsolutePath(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output root %s: %w", root, err)
	}
	return resolved, nil
}

// prepareJobs re-roots the built-in list under --output-root and validates it.
func prepareJobs(list []jobs.Job) ([]jobs.Job, error) {
	root, err := outputRoot()
	if err != nil {
		return nil, err
	}
	list = jobs.Rebase(list, root)
	if err := jobs.ValidateAll(list); err != nil {
		return nil, fmt.Errorf("invalid job list: %w", err)
	}
	return list, nil
}

// runBatch runs list through runner, prints the tally and applies the exit policy.
func runBatch(cmd *cobra.Command, list []jobs.Job, runner core.Runner) error {
	c := GetConfig()
	out := cmd.OutOrStdout()

	engine := core.NewEngine(GetLogger(), c.MaxParallel, out)
	summary := engine.Run(GetContext(), list, runner)

	printSummary(out, summary)

	if summary.Failed > 0 && !c.IgnoreFailures {
		return &BatchFailedError{Failed: summary.Failed, Total: summary.Total}
	}
	return nil
}

func printSummary(out io.Writer, summary core.Summary) {
	fmt.Fprintln(out, summary.String())
	for _, o := range summary.Errors() {
		fmt.Fprintf(out, "  - %s: %v\n", o.Job.Name, o.Err)
		if diskspace.IsInsufficientSpaceError(o.Err) {
			fmt.Fprintf(out, "    Free up space or choose another --output-root\n")
		}
	}
}
