package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/rescale/dataset-fetch/internal/constants"
)

// LineUI draws each download as a carriage-return progress line and leaves a
// permanent RenderBar summary line when the download finishes.
type LineUI struct {
	barOut io.Writer
	logOut io.Writer
}

// NewLineUI creates a line UI drawing bars on barOut. Log lines go to logOut.
func NewLineUI(barOut, logOut io.Writer) *LineUI {
	return &LineUI{
		barOut: &lockedWriter{w: barOut},
		logOut: logOut,
	}
}

// LineBar is a single progressbar/v3 bar.
type LineBar struct {
	bar   *progressbar.ProgressBar
	out   io.Writer
	name  string
	max   int64
	ratio float64
}

// AddBar implements UI. An unknown total renders as a spinner with a byte count.
func (u *LineUI) AddBar(name, dest string, total int64) BarRenderer {
	max := total
	if max <= 0 {
		max = -1
	}

	bar := progressbar.NewOptions64(max,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(u.barOut),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(constants.ProgressBarWidth),
		progressbar.OptionThrottle(constants.ProgressPollInterval),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &LineBar{bar: bar, out: u.barOut, name: name, max: max}
}

// Render implements BarRenderer.
func (b *LineBar) Render(transferred, total int64, ratio float64) {
	if total > 0 && total != b.max {
		b.bar.ChangeMax64(total)
		b.max = total
	}
	_ = b.bar.Set64(transferred)
	b.ratio = ratio
}

// Finish implements BarRenderer.
func (b *LineBar) Finish(ok bool) {
	status := "done"
	if ok {
		_ = b.bar.Finish()
	} else {
		_ = b.bar.Exit()
		status = "failed"
	}
	fmt.Fprintf(b.out, "\r%s %s: %s\n", RenderBar(b.ratio, constants.ProgressBarWidth), b.name, status)
}

// Writer implements UI.
func (u *LineUI) Writer() io.Writer {
	return u.logOut
}

// IsTerminal implements UI.
func (u *LineUI) IsTerminal() bool {
	return false
}

// Wait implements UI. Line bars finish synchronously.
func (u *LineUI) Wait() {}

// lockedWriter serializes writes from concurrent bars.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
