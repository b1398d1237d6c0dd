package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into one invocation of fn that
// runs delay after the last call. Invocations never overlap. After Stop no
// further invocation starts.
type Debouncer struct {
	delay time.Duration
	fn    func()

	// run is held for the whole of an invocation, including its
	// generation check.
	run sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New builds a Debouncer.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)arms the timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops a scheduled invocation and waits for one already running, so
// fn has no effect after Cancel returns. It must not be called from fn.
func (d *Debouncer) Cancel() {
	d.disarm(false)
	d.run.Lock()
	defer d.run.Unlock()
}

// Stop cancels like Cancel and refuses later triggers.
func (d *Debouncer) Stop() {
	d.disarm(true)
	d.run.Lock()
	defer d.run.Unlock()
}

func (d *Debouncer) disarm(stop bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if stop {
		d.stopped = true
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// Timers that already fired but have not taken run yet see a newer
	// generation and return.
	d.gen++
}

func (d *Debouncer) fire(gen uint64) {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
