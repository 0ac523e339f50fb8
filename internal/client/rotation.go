package client

import (
	"sync"
	"time"
)

// Rotator advances a current-index pointer through an ordered list on
// a fixed cadence, wrapping after the last item. Each rendering surface
// owns its own instances (one for content, one for the RSS ticker), so
// teardown and multiple surfaces never cross-talk.
type Rotator struct {
	mu       sync.Mutex
	interval time.Duration
	count    int
	index    int
	resets   int
	stop     chan struct{}
	onChange func(index int)
}

// NewRotator creates a stopped rotator. onChange fires on every index
// move; it may be nil.
func NewRotator(interval time.Duration, onChange func(index int)) *Rotator {
	return &Rotator{interval: interval, onChange: onChange}
}

// Reset repoints the rotator at a list of count items: index returns to
// 0 and the timer restarts. Called whenever the underlying list changes
// size or content, since keeping the old index risks running past the
// end. No timer runs for empty or single-item lists, or when the
// rotator has no usable interval; the index still resets so manual
// Advance calls stay in bounds.
func (r *Rotator) Reset(count int) {
	r.mu.Lock()
	r.stopLocked()
	r.count = count
	r.index = 0
	r.resets++

	var stop chan struct{}
	if count > 1 && r.interval > 0 {
		stop = make(chan struct{})
		r.stop = stop
	}
	interval := r.interval
	r.mu.Unlock()

	if stop != nil {
		go r.run(stop, interval)
	}
}

func (r *Rotator) run(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Advance()
		case <-stop:
			return
		}
	}
}

// Advance moves to the next item, wrapping to 0 after the last.
func (r *Rotator) Advance() {
	r.mu.Lock()
	if r.count == 0 {
		r.mu.Unlock()
		return
	}
	r.index = (r.index + 1) % r.count
	idx := r.index
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(idx)
	}
}

// Stop cancels the timer. Index state is retained until the next Reset.
func (r *Rotator) Stop() {
	r.mu.Lock()
	r.stopLocked()
	r.mu.Unlock()
}

// caller must hold r.mu
func (r *Rotator) stopLocked() {
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Count reports the size of the list currently being rotated.
func (r *Rotator) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Index reports the currently displayed item's index.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Resets reports how many times the rotator was repointed. Used to
// verify that no-op reconciliations do not disturb rotation.
func (r *Rotator) Resets() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets
}
