/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package webserv wires the poller, FD wrappers, HTTP framing,
// response variants and CGI sub-engine into the per-connection state
// machine and the single-threaded event loop that drives it.
package webserv

import (
	"sort"
	"sync"
	"time"
)

// TimerCallback is invoked once a scheduled deadline has passed.
type TimerCallback func()

type timerEntry struct {
	id       uint64
	deadline time.Time
	interval time.Duration
	callback TimerCallback
	dead     bool
}

// Timer is an ordered set of (deadline, callback) entries with
// secondary storage for recurring intervals. It has no goroutine of
// its own: the event loop calls ProcessExpired once per iteration,
// after Poller.Wait returns.
type Timer struct {
	mtx     sync.Mutex
	nextID  uint64
	entries map[uint64]*timerEntry
}

func NewTimer() *Timer {
	return &Timer{entries: make(map[uint64]*timerEntry)}
}

// AddEvent schedules cb to fire after delay, optionally recurring
// every delay thereafter, and returns an id usable with DeleteEvent.
func (t *Timer) AddEvent(delay time.Duration, cb TimerCallback, recurring bool) uint64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.nextID++
	id := t.nextID

	entry := &timerEntry{id: id, deadline: time.Now().Add(delay), callback: cb}
	if recurring {
		entry.interval = delay
	}

	t.entries[id] = entry
	return id
}

// DeleteEvent cancels a scheduled event; deleting an unknown or
// already-fired id is a no-op.
func (t *Timer) DeleteEvent(id uint64) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	delete(t.entries, id)
}

// NextTimeoutMs returns the milliseconds remaining until the soonest
// deadline, or -1 if no event is scheduled, suitable as a
// Poller.Wait argument.
func (t *Timer) NextTimeoutMs() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if len(t.entries) == 0 {
		return -1
	}

	now := time.Now()
	var soonest time.Time
	first := true

	for _, e := range t.entries {
		if first || e.deadline.Before(soonest) {
			soonest = e.deadline
			first = false
		}
	}

	remaining := soonest.Sub(now)
	if remaining < 0 {
		return 0
	}

	return int(remaining / time.Millisecond)
}

// ProcessExpired invokes every callback whose deadline has passed.
// Recurring events are rescheduled to max(now, prev+interval) so a
// main loop that was delayed does not tight-loop re-firing.
func (t *Timer) ProcessExpired() {
	now := time.Now()

	t.mtx.Lock()
	var expired []*timerEntry
	for _, e := range t.entries {
		if !e.deadline.After(now) {
			expired = append(expired, e)
		}
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].deadline.Before(expired[j].deadline) })

	for _, e := range expired {
		if e.interval > 0 {
			next := e.deadline.Add(e.interval)
			if next.Before(now) {
				next = now
			}
			e.deadline = next
		} else {
			delete(t.entries, e.id)
		}
	}
	t.mtx.Unlock()

	for _, e := range expired {
		e.callback()
	}
}
