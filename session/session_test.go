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

package session

import (
	"testing"
	"time"
)

func TestGenerateIDLength(t *testing.T) {
	id, err := generateID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(id) != IDLength {
		t.Fatalf("generateID() length = %d, want %d", len(id), IDLength)
	}
}

func TestGenerateIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[id] {
			t.Fatalf("generateID() produced a duplicate: %s", id)
		}
		seen[id] = true
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{LastAccess: now.Add(-MaxAge - 1)}
	if !s.Expired(now) {
		t.Fatal("expected session older than MaxAge to be expired")
	}

	fresh := Session{LastAccess: now}
	if fresh.Expired(now) {
		t.Fatal("expected a just-touched session to not be expired")
	}
}
