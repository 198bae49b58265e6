// Package kaggle runs dataset downloads by delegating to the kaggle CLI.
package kaggle

import (
	"context"
	"fmt"
	"os"

	"github.com/rescale/dataset-fetch/internal/config"
	"github.com/rescale/dataset-fetch/internal/constants"
	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/logging"
)

// Runner downloads one dataset per call with
// `kaggle datasets download -d <slug> -p <dir> --unzip --quiet`.
type Runner struct {
	bin      string
	exec     Executor
	logger   *logging.Logger
	credPath string
}

// NewRunner creates a Runner that invokes bin through exec.
func NewRunner(bin string, exec Executor, logger *logging.Logger) *Runner {
	if bin == "" {
		bin = constants.KaggleBinary
	}
	if exec == nil {
		exec = &ExecRunner{}
	}
	return &Runner{
		bin:      bin,
		exec:     exec,
		logger:   logger,
		credPath: config.KaggleCredentialPath(),
	}
}

// DownloadArgs returns the kaggle arguments for job.
func DownloadArgs(job jobs.Job) []string {
	return []string{"datasets", "download", "-d", job.Source, "-p", job.Destination, "--unzip", "--quiet"}
}

// Run downloads job into its destination directory and logs the outcome.
// Launch failures and non-zero exits are both returned as errors.
func (r *Runner) Run(ctx context.Context, job jobs.Job) error {
	r.logger.Info().Str("path", job.Destination).Msgf("Downloading %s", job.Name)

	if err := os.MkdirAll(job.Destination, constants.DirPermissions); err != nil {
		err = fmt.Errorf("failed to create destination directory: %w", err)
		r.logger.Error().Err(err).Msgf("Failed to download %s", job.Name)
		return err
	}

	res, err := r.exec.Execute(ctx, r.bin, DownloadArgs(job))
	if err == nil && res.ExitCode != 0 {
		err = &ExitError{Result: res}
	}
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("command", res.Command()).
			Msgf("Failed to download %s", job.Name)
		r.logger.Warn().Msgf("Check that kaggle credentials exist at %s", r.credPath)
		return err
	}

	r.logger.Info().Str("path", job.Destination).Msgf("Downloaded %s", job.Name)
	return nil
}

// CheckCredentials warns when neither the credential file nor the
// KAGGLE_USERNAME/KAGGLE_KEY environment pair is present. It never fails:
// the kaggle tool itself decides whether it can authenticate.
func (r *Runner) CheckCredentials() bool {
	if os.Getenv("KAGGLE_USERNAME") != "" && os.Getenv("KAGGLE_KEY") != "" {
		return true
	}
	if _, err := os.Stat(r.credPath); err == nil {
		return true
	}
	r.logger.Warn().
		Str("expected", r.credPath).
		Msg("No kaggle credentials found; downloads will likely fail")
	return false
}
