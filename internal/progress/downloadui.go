package progress

import (
	"fmt"
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/rescale/dataset-fetch/internal/constants"
)

// DownloadUI renders one mpb bar per download so concurrent transfers do
// not overwrite each other's line.
type DownloadUI struct {
	progress *mpb.Progress
}

// DownloadBar is a single download's bar inside a DownloadUI.
type DownloadBar struct {
	bar       *mpb.Bar
	knownSize bool
	last      int64
}

// NewDownloadUI creates a multi-bar UI writing to out.
func NewDownloadUI(out io.Writer) *DownloadUI {
	p := mpb.New(
		mpb.WithOutput(out),
		mpb.WithRefreshRate(constants.ProgressPollInterval),
		mpb.WithWidth(constants.ProgressBarWidth),
	)
	return &DownloadUI{progress: p}
}

// AddBar implements UI.
func (u *DownloadUI) AddBar(name, dest string, total int64) BarRenderer {
	label := fmt.Sprintf("%s → %s (%s)", name, truncatePath(dest, 2), formatMiB(total))
	if total < 0 {
		total = 0
	}

	bar := u.progress.New(total,
		mpb.BarStyle().
			Lbound("[").
			Filler("█").
			Tip("█").
			Padding("░").
			Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(label, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.OnAbort(
				decor.OnComplete(decor.Percentage(decor.WCSyncSpace), "done"),
				"failed",
			),
			decor.Name("  "),
			decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
			decor.Name("  "),
			decor.AverageSpeed(decor.SizeB1024(0), "% .1f", decor.WCSyncSpace),
		),
	)

	return &DownloadBar{
		bar:       bar,
		knownSize: total > 0,
	}
}

// Render implements BarRenderer.
func (b *DownloadBar) Render(transferred, total int64, ratio float64) {
	if !b.knownSize && total > 0 {
		b.bar.SetTotal(total, false)
		b.knownSize = true
	}
	if transferred > b.last {
		b.bar.SetCurrent(transferred)
		b.last = transferred
	}
}

// Finish implements BarRenderer. A failed bar stays on screen.
func (b *DownloadBar) Finish(ok bool) {
	if !ok {
		b.bar.Abort(false)
		return
	}
	// Mark done at the bytes actually written, whatever the advertised size
	b.bar.SetCurrent(b.last)
	b.bar.SetTotal(-1, true)
}

// Writer implements UI. Lines written here appear above the bars.
func (u *DownloadUI) Writer() io.Writer {
	return u.progress
}

// IsTerminal implements UI.
func (u *DownloadUI) IsTerminal() bool {
	return true
}

// Wait implements UI.
func (u *DownloadUI) Wait() {
	u.progress.Wait()
}
