package frame

import "time"

// DefaultInterval is one frame at 60 Hz.
const DefaultInterval = time.Second / 60

// Source delivers refresh signals.
type Source interface {
	C() <-chan time.Time
	Stop()
}

type timeSource struct {
	t *time.Ticker
}

func (s timeSource) C() <-chan time.Time { return s.t.C }
func (s timeSource) Stop()               { s.t.Stop() }

// Ticker runs each loop on its own goroutine, paced by a Source. Ticks of
// one loop never overlap.
type Ticker struct {
	newSource func() Source
}

// NewTicker paces loops with a time.Ticker. A non-positive interval means
// DefaultInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		newSource: func() Source { return timeSource{t: time.NewTicker(interval)} },
	}
}

// NewTickerWithSource paces every loop with a source from newSource.
func NewTickerWithSource(newSource func() Source) *Ticker {
	return &Ticker{newSource: newSource}
}

func (t *Ticker) Start(tick func()) *Handle {
	h := newHandle()
	src := t.newSource()

	go func() {
		defer h.finish()
		defer src.Stop()

		for {
			select {
			case <-h.stop:
				return
			case <-src.C():
				// The signal may have been queued before Cancel.
				if !h.running() {
					return
				}
				tick()
			}
		}
	}()
	return h
}
