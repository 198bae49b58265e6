package progress

import (
	"sync"
	"time"
)

// Observer polls a Sampler at a fixed interval and renders each sample.
// The rendered ratio is clamped to [0,1] and never decreases. Run returns
// once the sampler's Done channel is closed, after one final sample, so a
// transfer of unknown size cannot keep it alive.
type Observer struct {
	sampler  Sampler
	bar      BarRenderer
	interval time.Duration

	mu    sync.Mutex
	ratio float64
}

// NewObserver creates an observer. A nil bar only tracks the ratio.
func NewObserver(sampler Sampler, bar BarRenderer, interval time.Duration) *Observer {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Observer{
		sampler:  sampler,
		bar:      bar,
		interval: interval,
	}
}

// Run samples until the transfer is done.
func (o *Observer) Run() {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-o.sampler.Done():
			o.sample()
			return
		case <-ticker.C:
			o.sample()
		}
	}
}

// Ratio returns the last rendered ratio.
func (o *Observer) Ratio() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ratio
}

func (o *Observer) sample() {
	transferred, total := o.sampler.Snapshot()

	o.mu.Lock()
	if r := Ratio(transferred, total); r > o.ratio {
		o.ratio = r
	}
	ratio := o.ratio
	o.mu.Unlock()

	if o.bar != nil {
		o.bar.Render(transferred, total, ratio)
	}
}

// Ratio returns transferred/total clamped to [0,1]; 0 when total is unknown.
func Ratio(transferred, total int64) float64 {
	if total <= 0 || transferred <= 0 {
		return 0
	}
	if transferred >= total {
		return 1
	}
	return float64(transferred) / float64(total)
}
