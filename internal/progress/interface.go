// Package progress renders per-download progress bars and runs the observers
// that sample transfer state while downloads are in flight.
package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Sampler exposes a transfer's counters to an observer.
// Implementations must be safe to call from the observer goroutine while the
// transfer is running.
type Sampler interface {
	// Snapshot returns bytes transferred so far and the total size
	// (0 or less when unknown), read together.
	Snapshot() (transferred, total int64)

	// Done is closed when the transfer has finished, successfully or not.
	Done() <-chan struct{}
}

// BarRenderer draws one download's progress.
type BarRenderer interface {
	// Render draws the current state. ratio is already clamped and monotonic.
	Render(transferred, total int64, ratio float64)

	// Finish marks the bar complete (ok) or failed.
	Finish(ok bool)
}

// UI owns the bars for one batch of downloads.
type UI interface {
	// AddBar creates a bar labeled name for a download into dest.
	AddBar(name, dest string, total int64) BarRenderer

	// Writer returns an io.Writer that prints above the bars.
	Writer() io.Writer

	// IsTerminal returns true if live multi-bar rendering is active.
	IsTerminal() bool

	// Wait blocks until every bar is finished.
	Wait()
}

// NewUI picks the renderer for the current output.
// A terminal on stderr gets the multi-bar DownloadUI unless plain is set;
// everything else gets the single-line LineUI writing to stderr, with log
// lines going to logOut.
func NewUI(plain bool, logOut io.Writer) UI {
	if !plain && term.IsTerminal(int(os.Stderr.Fd())) {
		enableANSIOnWindows(os.Stderr)
		return NewDownloadUI(os.Stderr)
	}
	return NewLineUI(os.Stderr, logOut)
}
