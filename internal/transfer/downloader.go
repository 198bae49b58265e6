package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rescale/dataset-fetch/internal/cloud"
	"github.com/rescale/dataset-fetch/internal/constants"
	"github.com/rescale/dataset-fetch/internal/diskspace"
	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/logging"
	"github.com/rescale/dataset-fetch/internal/progress"
	"github.com/rescale/dataset-fetch/internal/util/buffers"
)

// Result is the outcome of one direct transfer.
type Result struct {
	Job     jobs.Job
	Bytes   int64         // Bytes written to the destination
	Total   int64         // Advertised size, -1 if unknown
	Ratio   float64       // Last ratio rendered by the observer
	Elapsed time.Duration
	Err     error
}

// Downloader streams one job's locator into its destination file while an
// observer renders progress. It is safe for concurrent use by several workers.
type Downloader struct {
	sources    cloud.SourceFactory
	ui         progress.UI
	logger     *logging.Logger
	interval   time.Duration
	checkSpace bool
}

// NewDownloader creates a downloader. Bars are drawn on ui.
func NewDownloader(sources cloud.SourceFactory, ui progress.UI, logger *logging.Logger) *Downloader {
	return &Downloader{
		sources:    sources,
		ui:         ui,
		logger:     logger,
		interval:   constants.ProgressPollInterval,
		checkSpace: true,
	}
}

// SetPollInterval overrides the observer sampling interval.
func (d *Downloader) SetPollInterval(interval time.Duration) {
	d.interval = interval
}

// Run downloads job and returns its error, if any.
func (d *Downloader) Run(ctx context.Context, job jobs.Job) error {
	return d.Fetch(ctx, job).Err
}

// Wait blocks until every progress bar has been drawn for the last time.
func (d *Downloader) Wait() {
	d.ui.Wait()
}

// Fetch downloads job and logs the outcome. Partial files are left on disk
// when the transfer fails midway.
func (d *Downloader) Fetch(ctx context.Context, job jobs.Job) Result {
	d.logger.Info().Str("path", job.Destination).Msgf("Downloading %s", job.Name)

	start := time.Now()
	res := d.fetch(ctx, job)
	res.Job = job
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		d.logger.Error().
			Err(res.Err).
			Str("source", job.Source).
			Msgf("Failed to download %s", job.Name)
		return res
	}

	d.logger.Info().
		Str("path", job.Destination).
		Str("size", FormatBytes(res.Bytes)).
		Dur("elapsed", res.Elapsed.Round(time.Millisecond)).
		Str("rate", FormatSpeed(Throughput(res.Bytes, res.Elapsed))).
		Msgf("Downloaded %s", job.Name)
	return res
}

func (d *Downloader) fetch(ctx context.Context, job jobs.Job) Result {
	res := Result{Total: -1}

	if err := os.MkdirAll(filepath.Dir(job.Destination), constants.DirPermissions); err != nil {
		res.Err = fmt.Errorf("failed to create destination directory: %w", err)
		return res
	}

	src, err := d.sources.SourceFor(ctx, job.Source)
	if err != nil {
		res.Err = err
		return res
	}

	openTimer := StartTimer(d.logger, "open "+job.Name)
	obj, err := src.Open(ctx, job.Source)
	if err != nil {
		res.Err = err
		return res
	}
	defer obj.Body.Close()
	openTimer.Stop()
	res.Total = obj.Size

	if d.checkSpace && obj.Size > 0 {
		if err := diskspace.CheckAvailableSpace(job.Destination, obj.Size, constants.DiskSpaceSafetyMargin); err != nil {
			res.Err = err
			return res
		}
	}

	f, err := os.Create(job.Destination)
	if err != nil {
		res.Err = fmt.Errorf("failed to open destination file: %w", err)
		return res
	}
	defer f.Close()

	state := NewState()
	state.SetTotal(obj.Size)

	bar := d.ui.AddBar(job.Name, job.Destination, obj.Size)
	observer := progress.NewObserver(state, bar, d.interval)
	observed := make(chan struct{})
	go func() {
		defer close(observed)
		observer.Run()
	}()

	copyTimer := StartTimer(d.logger, "copy "+job.Name)
	buf := buffers.GetCopyBuffer()
	written, err := io.CopyBuffer(&countingWriter{w: f, state: state}, obj.Body, *buf)
	buffers.PutCopyBuffer(buf)
	if err == nil {
		err = f.Close()
	}
	if err != nil {
		err = fmt.Errorf("transfer interrupted after %s: %w", FormatBytes(written), err)
	} else {
		copyTimer.StopWithThroughput(written)
		if _, total := state.Snapshot(); total <= 0 {
			// Size was not advertised; the bytes written are the whole object
			state.SetTotal(written)
		}
	}

	state.Finish()
	<-observed
	bar.Finish(err == nil)

	res.Bytes = written
	res.Ratio = observer.Ratio()
	res.Err = err
	return res
}
