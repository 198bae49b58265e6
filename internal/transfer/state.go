// Package transfer implements the direct-transfer download worker and the
// progress state it shares with its observer.
package transfer

import (
	"io"
	"sync"
)

// State is the progress of one in-flight transfer.
// Thread-safe: it is written by the download worker and read by the progress
// observer, always through these methods.
type State struct {
	mu          sync.Mutex
	transferred int64
	total       int64

	done     chan struct{}
	doneOnce sync.Once
}

// NewState creates a State with an unknown total.
func NewState() *State {
	return &State{done: make(chan struct{})}
}

// SetTotal records the expected size. Zero or negative means unknown.
func (s *State) SetTotal(total int64) {
	if total < 0 {
		total = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
}

// Add records n more bytes written.
func (s *State) Add(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transferred += n
}

// Snapshot returns bytes transferred and the total, read together.
func (s *State) Snapshot() (transferred, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transferred, s.total
}

// Finish marks the transfer as ended. Safe to call more than once.
func (s *State) Finish() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Done is closed by Finish.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// countingWriter forwards writes and records the bytes in a State.
type countingWriter struct {
	w     io.Writer
	state *State
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.state.Add(int64(n))
	}
	return n, err
}
