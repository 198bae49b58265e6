package transfer

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rescale/dataset-fetch/internal/logging"
)

// Timer tracks elapsed time for a named phase and reports it at debug level.
// Stop is idempotent and safe for concurrent use.
type Timer struct {
	name    string
	start   time.Time
	logger  *logging.Logger
	stopped int32
}

// StartTimer starts a timer for the phase name.
func StartTimer(logger *logging.Logger, name string) *Timer {
	return &Timer{name: name, start: time.Now(), logger: logger}
}

// Stop logs the elapsed time on the first call and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if atomic.CompareAndSwapInt32(&t.stopped, 0, 1) && t.logger != nil {
		t.logger.Debug().Str("phase", t.name).Dur("elapsed", elapsed).Msg("timing")
	}
	return elapsed
}

// StopWithThroughput is Stop with the average rate for bytes included.
func (t *Timer) StopWithThroughput(bytes int64) time.Duration {
	elapsed := time.Since(t.start)
	if atomic.CompareAndSwapInt32(&t.stopped, 0, 1) && t.logger != nil {
		t.logger.Debug().
			Str("phase", t.name).
			Dur("elapsed", elapsed).
			Str("total", FormatBytes(bytes)).
			Str("rate", FormatSpeed(Throughput(bytes, elapsed))).
			Msg("timing")
	}
	return elapsed
}

// Throughput returns bytes per second, or 0 for a zero duration.
func Throughput(bytes int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(bytes) / elapsed.Seconds()
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed returns a human-readable rate in bytes/second.
func FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec < 1024 {
		return fmt.Sprintf("%.1f B/s", bytesPerSec)
	}
	if bytesPerSec < 1024*1024 {
		return fmt.Sprintf("%.1f KiB/s", bytesPerSec/1024)
	}
	return fmt.Sprintf("%.1f MiB/s", bytesPerSec/(1024*1024))
}
