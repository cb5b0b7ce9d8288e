package mainloop

import (
	"sync"
	"time"

	"github.com/bnema/smux/internal/ports"
)

// Debouncer waits for a quiet period per key, then hands the latest
// callback to a Coalescer so it runs on the main loop.
type Debouncer struct {
	clock     ports.Clock
	delay     time.Duration
	coalescer *Coalescer

	mu     sync.Mutex
	timers map[string]ports.Timer
	gen    map[string]uint64
	fns    map[string]func()
}

func NewDebouncer(clock ports.Clock, delay time.Duration, post func(func())) *Debouncer {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Debouncer{
		clock:     clock,
		delay:     delay,
		coalescer: NewCoalescer(post),
		timers:    make(map[string]ports.Timer),
		gen:       make(map[string]uint64),
		fns:       make(map[string]func()),
	}
}

// Trigger (re)arms the timer for key. fn replaces any callback armed earlier.
func (d *Debouncer) Trigger(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	d.mu.Lock()
	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.gen[key]++
	gen := d.gen[key]
	d.fns[key] = fn

	if d.delay <= 0 {
		ready := d.take(key, gen)
		d.mu.Unlock()
		d.post(key, ready)
		return
	}

	d.timers[key] = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		ready := d.take(key, gen)
		d.mu.Unlock()
		d.post(key, ready)
	})
	d.mu.Unlock()
}

// Cancel drops the armed callback for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}
	d.gen[key]++
	delete(d.timers, key)
	delete(d.fns, key)
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
	d.fns = map[string]func(){}
	d.mu.Unlock()

	d.coalescer.Destroy()
}

// take must be called with d.mu held. It returns nil when the timer for gen
// was superseded or cancelled.
func (d *Debouncer) take(key string, gen uint64) func() {
	if d.gen[key] != gen {
		return nil
	}
	fn := d.fns[key]
	delete(d.fns, key)
	delete(d.timers, key)
	return fn
}

func (d *Debouncer) post(key string, fn func()) {
	if fn == nil {
		return
	}
	d.coalescer.Post(key, fn)
}
