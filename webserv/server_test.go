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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/nabbar/webserv/config"
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/poller"
)

// connectedSocketPair stands in for an accepted connection without
// opening a real network port: fd1 is wired into the server exactly
// as acceptLoop would wire a client, fd2 is the simulated peer.
func connectedSocketPair(t *testing.T) (clientFd int, peerFd int) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair: %v", err)
	}
	if err := fd.SetNonBlocking(fds[0]); err != nil {
		t.Fatalf("SetNonBlocking: %v", err)
	}
	if err := fd.SetNonBlocking(fds[1]); err != nil {
		t.Fatalf("SetNonBlocking: %v", err)
	}

	t.Cleanup(func() { _ = unix.Close(fds[1]) })

	return fds[0], fds[1]
}

func singleLocationRule(t *testing.T, port uint16) *config.HttpRule {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello server"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loc := &config.LocationRule{Prefix: "/", Root: dir}
	srv := &config.ServerConfig{
		Port:      port,
		IsDefault: true,
		Locations: []*config.LocationRule{loc},
		Default:   loc,
	}

	return &config.HttpRule{Servers: []*config.ServerConfig{srv}}
}

func drainPeer(t *testing.T, s *Server, peerFd int, want string, maxIterations int) string {
	t.Helper()

	var out []byte
	buf := make([]byte, 4096)

	for i := 0; i < maxIterations; i++ {
		if err := s.RunOnce(); err != nil {
			t.Fatalf("RunOnce: %v", err)
		}

		n, err := unix.Read(peerFd, buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil && err != unix.EAGAIN && err != unix.EWOULDBLOCK {
			break
		}
		if strings.Contains(string(out), want) {
			break
		}
	}

	return string(out)
}

func TestServerServesStaticFileOverSocketPair(t *testing.T) {
	rule := singleLocationRule(t, 9090)

	s, err := NewServer(rule, nil, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.Cleanup()

	clientFd, peerFd := connectedSocketPair(t)

	sock := fd.NewSocket(clientFd, 0, "127.0.0.1", 0)
	client := NewClient(sock, nil)
	s.clients[clientFd] = client
	s.ports[clientFd] = 9090
	if err := s.poll.Add(clientFd, poller.Readable); err != nil {
		t.Fatalf("poll.Add: %v", err)
	}

	req := "GET /hello.txt HTTP/1.1\r\nHost: example.com\r\n\r\n"
	if _, err := unix.Write(peerFd, []byte(req)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := drainPeer(t, s, peerFd, "0\r\n\r\n", 200)

	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("unexpected response: %q", out)
	}
	if !strings.Contains(out, "hello server") {
		t.Fatalf("expected the file contents to be relayed, got %q", out)
	}
}

func TestServerReturns404ForMissingFile(t *testing.T) {
	rule := singleLocationRule(t, 9091)

	s, err := NewServer(rule, nil, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.Cleanup()

	clientFd, peerFd := connectedSocketPair(t)

	sock := fd.NewSocket(clientFd, 0, "127.0.0.1", 0)
	client := NewClient(sock, nil)
	s.clients[clientFd] = client
	s.ports[clientFd] = 9091
	if err := s.poll.Add(clientFd, poller.Readable); err != nil {
		t.Fatalf("poll.Add: %v", err)
	}

	req := "GET /missing.txt HTTP/1.1\r\nHost: example.com\r\n\r\n"
	if _, err := unix.Write(peerFd, []byte(req)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := drainPeer(t, s, peerFd, "404", 200)

	if !strings.HasPrefix(out, "HTTP/1.1 404 Not Found\r\n") {
		t.Fatalf("unexpected response: %q", out)
	}
}

func TestLoadRequestConfigFallsBackToDefaultServer(t *testing.T) {
	rule := singleLocationRule(t, 9092)

	s, err := NewServer(rule, nil, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.Cleanup()

	s.ports[42] = 9092

	got := s.LoadRequestConfig(42, "unknown-host")
	if got == nil || got.Port != 9092 {
		t.Fatalf("expected the default server on port 9092, got %+v", got)
	}
}
