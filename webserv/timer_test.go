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

package webserv

import (
	"testing"
	"time"
)

func TestTimerNextTimeoutMsNoEvents(t *testing.T) {
	timer := NewTimer()
	if ms := timer.NextTimeoutMs(); ms != -1 {
		t.Fatalf("expected -1 with no scheduled events, got %d", ms)
	}
}

func TestTimerFiresOnceAfterDelay(t *testing.T) {
	timer := NewTimer()
	fired := 0
	timer.AddEvent(time.Millisecond, func() { fired++ }, false)

	time.Sleep(5 * time.Millisecond)
	timer.ProcessExpired()

	if fired != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired)
	}

	time.Sleep(5 * time.Millisecond)
	timer.ProcessExpired()

	if fired != 1 {
		t.Fatalf("expected a one-shot event not to refire, got %d", fired)
	}
}

func TestTimerRecurringReschedules(t *testing.T) {
	timer := NewTimer()
	fired := 0
	timer.AddEvent(time.Millisecond, func() { fired++ }, true)

	time.Sleep(5 * time.Millisecond)
	timer.ProcessExpired()
	if fired == 0 {
		t.Fatal("expected the recurring event to have fired at least once")
	}

	if ms := timer.NextTimeoutMs(); ms < 0 {
		t.Fatal("expected the recurring event to still be scheduled")
	}
}

func TestTimerDeleteEventCancelsFutureFire(t *testing.T) {
	timer := NewTimer()
	fired := false
	id := timer.AddEvent(time.Millisecond, func() { fired = true }, false)
	timer.DeleteEvent(id)

	time.Sleep(5 * time.Millisecond)
	timer.ProcessExpired()

	if fired {
		t.Fatal("expected a deleted event not to fire")
	}
}

func TestTimerNextTimeoutMsReflectsSoonestDeadline(t *testing.T) {
	timer := NewTimer()
	timer.AddEvent(time.Hour, func() {}, false)
	timer.AddEvent(10*time.Millisecond, func() {}, false)

	ms := timer.NextTimeoutMs()
	if ms < 0 || ms > 100 {
		t.Fatalf("expected the soonest deadline to govern NextTimeoutMs, got %d", ms)
	}
}
