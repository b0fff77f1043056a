package frame

import "sync"

type drivenLoop struct {
	tick   func()
	handle *Handle
}

// Driven is a Scheduler for hosts that already own a display-synchronised
// callback, such as an ebiten Update. The host calls Pump once per refresh.
type Driven struct {
	mu    sync.Mutex
	loops []drivenLoop
}

func NewDriven() *Driven {
	return &Driven{}
}

func (d *Driven) Start(tick func()) *Handle {
	h := newHandle()
	h.finishOnCancel = true
	d.mu.Lock()
	d.loops = append(d.loops, drivenLoop{tick: tick, handle: h})
	d.mu.Unlock()
	return h
}

// Pump runs every live loop's tick once, in start order, and returns how
// many ran. A loop cancelled before or during this pump is skipped.
func (d *Driven) Pump() int {
	d.mu.Lock()
	loops := make([]drivenLoop, len(d.loops))
	copy(loops, d.loops)
	d.mu.Unlock()

	ran := 0
	for _, l := range loops {
		// busy goes up before the check so a concurrent Cancel either sees
		// it or is seen here.
		l.handle.busy.Store(true)
		if !l.handle.running() {
			l.handle.busy.Store(false)
			continue
		}
		l.tick()
		l.handle.busy.Store(false)
		ran++
	}
	d.prune()
	return ran
}

// Active returns the number of loops not yet cancelled.
func (d *Driven) Active() int {
	d.prune()
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.loops)
}

func (d *Driven) prune() {
	d.mu.Lock()
	defer d.mu.Unlock()
	live := d.loops[:0]
	for _, l := range d.loops {
		if l.handle.running() {
			live = append(live, l)
			continue
		}
		l.handle.finish()
	}
	for i := len(live); i < len(d.loops); i++ {
		d.loops[i] = drivenLoop{}
	}
	d.loops = live
}
