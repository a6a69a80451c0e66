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
	"sync/atomic"
	"time"

	"github.com/nabbar/webserv/config"
	liberr "github.com/nabbar/webserv/errors"
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/logger"
	"github.com/nabbar/webserv/poller"
	"github.com/nabbar/webserv/session"
)

const (
	ErrListen = liberr.MinPkgWebserv + iota
	ErrAccept
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgWebserv, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrListen:
		return "webserv: listen failed"
	case ErrAccept:
		return "webserv: accept failed"
	}
	return liberr.NullMessage
}

// hangCheckInterval bounds how long run_once ever blocks even with no
// timer armed, so check_hanging_connections always gets a chance to
// run.
const hangCheckInterval = time.Second

// ReadableCallback and WritableCallback let CGI and other streaming
// subsystems dispatch poller events for descriptors that are not a
// client socket, without Server knowing their concrete type.
type ReadableCallback func(mask poller.Mask)
type WritableCallback func(mask poller.Mask)

// Server is the top-level orchestrator: it owns the poller, the
// timer, the listening sockets, the client table, the auxiliary
// callback maps CGI uses, and the session store.
type Server struct {
	poll     poller.Poller
	timer    *Timer
	rule     atomic.Pointer[config.HttpRule]
	sessions *session.Store
	log      logger.Logger

	listeners map[int]*fd.Socket // fd -> listening socket
	ports     map[int]uint16     // listening fd -> port

	clients map[int]*Client

	readableCB map[int]ReadableCallback
	writableCB map[int]WritableCallback

	quit bool
}

func NewServer(rule *config.HttpRule, sessions *session.Store, log logger.Logger) (*Server, error) {
	p, err := poller.New()
	if err != nil {
		return nil, err
	}

	s := &Server{
		poll:       p,
		timer:      NewTimer(),
		sessions:   sessions,
		log:        log,
		listeners:  make(map[int]*fd.Socket),
		ports:      make(map[int]uint16),
		clients:    make(map[int]*Client),
		readableCB: make(map[int]ReadableCallback),
		writableCB: make(map[int]WritableCallback),
	}
	s.rule.Store(rule)

	return s, nil
}

// SwapRule atomically replaces the live configuration, used by the
// configuration-file watcher once a reload has parsed and validated
// cleanly. Listening sockets are never touched by a swap.
func (s *Server) SwapRule(rule *config.HttpRule) {
	s.rule.Store(rule)
}

// RegisterReadable lets CGI and other streaming subsystems attach a
// callback for a non-client descriptor's Readable events.
func (s *Server) RegisterReadable(fdnum int, mask poller.Mask, cb ReadableCallback) error {
	s.readableCB[fdnum] = cb
	return s.poll.Add(fdnum, mask)
}

// RegisterWritable is RegisterReadable's Writable-events sibling.
func (s *Server) RegisterWritable(fdnum int, mask poller.Mask, cb WritableCallback) error {
	s.writableCB[fdnum] = cb
	return s.poll.Add(fdnum, mask)
}

// UntrackCallbackFd removes fdnum from the poller and from whichever
// auxiliary map it was registered under.
func (s *Server) UntrackCallbackFd(fdnum int) {
	_ = s.poll.Remove(fdnum)
	delete(s.readableCB, fdnum)
	delete(s.writableCB, fdnum)
}

// RequestQuit causes the next run_once to be the last (SIGINT,
// SIGTERM, SIGQUIT per the base spec's signal contract).
func (s *Server) RequestQuit() { s.quit = true }

func (s *Server) Stopped() bool { return s.quit }

// Cleanup disconnects every client and releases every listening
// socket, called once after the event loop exits.
func (s *Server) Cleanup() {
	for fdnum := range s.clients {
		s.untrackClient(fdnum)
	}
	for fdnum, l := range s.listeners {
		_ = s.poll.Remove(fdnum)
		_ = l.Close()
	}
	_ = s.poll.Close()
}

// LoadRequestConfig implements load_request_config: select the
// ServerConfig bound to listeningFd's port whose server_name matches
// the request's Host header, else the default-flagged one, else the
// first in listen order.
func (s *Server) LoadRequestConfig(listeningFd int, host string) *config.ServerConfig {
	port := s.ports[listeningFd]
	return s.rule.Load().SelectServer(port, host)
}

// RunOnce is one iteration of the event loop: compute the next
// timeout, wait on the poller, dispatch every ready event, process
// expired timers, then sweep hanging connections.
func (s *Server) RunOnce() error {
	timeout := hangCheckInterval
	if ms := s.timer.NextTimeoutMs(); ms >= 0 && time.Duration(ms)*time.Millisecond < timeout {
		timeout = time.Duration(ms) * time.Millisecond
	}

	events, err := s.poll.Wait(timeout)
	if err != nil {
		return err
	}

	for _, ev := range events {
		s.dispatchEvent(ev)
	}

	s.timer.ProcessExpired()
	s.checkHangingConnections()

	return nil
}

func (s *Server) dispatchEvent(ev poller.Event) {
	if _, ok := s.listeners[ev.Fd]; ok {
		s.acceptLoop(ev.Fd)
		return
	}

	if c, ok := s.clients[ev.Fd]; ok {
		s.handleClientEvent(c, ev.Mask)
		return
	}

	if cb, ok := s.readableCB[ev.Fd]; ok && ev.Mask.Has(poller.Readable) {
		cb(ev.Mask)
	}
	if cb, ok := s.writableCB[ev.Fd]; ok && ev.Mask.Has(poller.Writable) {
		cb(ev.Mask)
	}

	if ev.Mask.Has(poller.Hangup) || ev.Mask.Has(poller.Error) {
		if _, ok := s.clients[ev.Fd]; ok {
			s.untrackClient(ev.Fd)
		}
	}
}

func (s *Server) acceptLoop(listenFd int) {
	for {
		connFd, peerIP, peerPort, ok := acceptOne(listenFd)
		if !ok {
			return
		}

		_ = fd.SetNonBlocking(connFd)

		sock := fd.NewSocket(connFd, 0, peerIP, peerPort)
		client := NewClient(sock, s.sessions)

		s.clients[connFd] = client
		s.ports[connFd] = s.ports[listenFd]

		_ = s.poll.Add(connFd, poller.Readable)
	}
}

func (s *Server) handleClientEvent(c *Client, mask poller.Mask) {
	if mask.Has(poller.Hangup) || mask.Has(poller.Error) {
		s.untrackClient(c.Socket.Fd())
		return
	}

	if mask.Has(poller.Readable) {
		s.handleClientReadable(c)
	}
	if c.Socket.State() != fd.Closed && mask.Has(poller.Writable) {
		s.handleClientWritable(c)
	}

	if c.Socket.State() == fd.Closed {
		s.untrackClient(c.Socket.Fd())
	}
}

func (s *Server) untrackClient(fdnum int) {
	c, ok := s.clients[fdnum]
	if !ok {
		return
	}

	if c.Response != nil {
		c.Response.Terminate()
	}

	_ = s.poll.Remove(fdnum)
	_ = c.Socket.Close()
	delete(s.clients, fdnum)
	delete(s.ports, fdnum)
}

// checkHangingConnections enforces the phase-dependent deadline for
// every client: header-read timeout in WaitingForHeaders, body-read
// timeout in ReadingBody, keep-alive idle timeout in Idle.
func (s *Server) checkHangingConnections() {
	now := time.Now()
	var dead []int

	for fdnum, c := range s.clients {
		var limit time.Duration

		switch c.State {
		case WaitingForHeaders:
			limit = s.headerTimeout(c)
		case ReadingBody:
			limit = s.bodyTimeout(c)
		case Idle:
			limit = s.keepaliveTimeout(c)
		default:
			continue
		}

		if limit <= 0 {
			continue
		}

		if now.Sub(c.Socket.LastSeen()) > limit {
			dead = append(dead, fdnum)
		}
	}

	for _, fdnum := range dead {
		s.untrackClient(fdnum)
	}

	if s.sessions != nil {
		s.sessions.Sweep()
	}
}

func (s *Server) headerTimeout(c *Client) time.Duration {
	if c.Server != nil {
		return c.Server.ClientHeaderTimeout.Time()
	}
	return 0
}

func (s *Server) bodyTimeout(c *Client) time.Duration {
	if c.Location != nil {
		return c.Location.ClientBodyTimeout.Time()
	}
	if c.Server != nil {
		return c.Server.ClientBodyTimeout.Time()
	}
	return 0
}

func (s *Server) keepaliveTimeout(c *Client) time.Duration {
	if c.Server != nil {
		return c.Server.KeepaliveTimeout.Time()
	}
	return 0
}
