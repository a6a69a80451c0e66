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
	"net"
	"strconv"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/nabbar/webserv/config"
)

func TestListenAcceptsConnection(t *testing.T) {
	rule := &config.HttpRule{}

	s, err := NewServer(rule, nil, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.Cleanup()

	if err := s.Listen(0); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	var listenFd int
	for fdnum := range s.ports {
		listenFd = fdnum
	}

	sa, err := unix.Getsockname(listenFd)
	if err != nil {
		t.Fatalf("Getsockname: %v", err)
	}
	addr, ok := sa.(*unix.SockaddrInet4)
	if !ok || addr.Port == 0 {
		t.Fatalf("expected an ephemeral IPv4 port, got %#v", sa)
	}
	port := addr.Port

	conn, err := net.DialTimeout("tcp", "127.0.0.1:"+strconv.Itoa(port), time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		connFd, _, _, ok := acceptOne(listenFd)
		if ok {
			return
		}
		time.Sleep(time.Millisecond)
		_ = connFd
	}

	t.Fatal("acceptOne never observed the pending connection")
}

func TestIpv4String(t *testing.T) {
	if got := ipv4String([4]byte{127, 0, 0, 1}); got != "127.0.0.1" {
		t.Fatalf("unexpected ipv4String result: %q", got)
	}
}
