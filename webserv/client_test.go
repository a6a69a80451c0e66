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
	"testing"

	"golang.org/x/sys/unix"

	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/httpmsg"
	"github.com/nabbar/webserv/response"
	"github.com/nabbar/webserv/session"
)

// newTestClient wires a Client around one end of a socketpair, so
// tests needing the socket to behave as a genuine duplex fd (reads
// feeding BodyBytes, not just writes) can drive the other end.
func newTestClient(t *testing.T) (*Client, *os.File) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("Socketpair: %v", err)
	}
	if err := fd.SetNonBlocking(fds[0]); err != nil {
		t.Fatalf("SetNonBlocking: %v", err)
	}
	t.Cleanup(func() { _ = unix.Close(fds[1]) })

	peer := os.NewFile(uintptr(fds[1]), "test-peer")

	sock := fd.NewSocket(fds[0], 0, "127.0.0.1", 0)
	return NewClient(sock, nil), peer
}

func TestNewClientStartsWaitingForHeaders(t *testing.T) {
	c, _ := newTestClient(t)
	if c.State != WaitingForHeaders {
		t.Fatalf("expected WaitingForHeaders, got %v", c.State)
	}
}

func TestFullBodyReceivedNotSetIsImmediatelyComplete(t *testing.T) {
	c, _ := newTestClient(t)
	c.Request = &httpmsg.Request{BodyMode: httpmsg.NotSet}

	if !c.fullBodyReceived() {
		t.Fatal("expected a bodyless request to be immediately complete")
	}
}

func TestFullBodyReceivedContentLengthMode(t *testing.T) {
	c, peer := newTestClient(t)
	c.Request = &httpmsg.Request{
		BodyMode:         httpmsg.ContentLengthMode,
		ContentLength:    5,
		HeaderPartLength: 0,
	}

	if _, err := peer.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if c.Socket.Read() <= 0 {
		t.Fatal("expected to read the buffered bytes")
	}
	if c.fullBodyReceived() {
		t.Fatal("expected an incomplete body to report false")
	}

	if _, err := peer.Write([]byte("de")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if c.Socket.Read() <= 0 {
		t.Fatal("expected to read the remaining bytes")
	}
	if !c.fullBodyReceived() {
		t.Fatal("expected a fully received body to report true")
	}
}

func TestBindSessionCreatesOneWhenNoCookiePresent(t *testing.T) {
	dir := t.TempDir()
	store, err := session.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	c, _ := newTestClient(t)
	c.Sessions = store
	c.Request = &httpmsg.Request{Cookies: map[string]string{}}

	c.bindSession()

	if c.Request.SessionID == "" {
		t.Fatal("expected bindSession to mint a session id")
	}
	if c.newSessionCookie != c.Request.SessionID {
		t.Fatal("expected newSessionCookie to match the minted session")
	}
}

func TestBindSessionReusesExistingCookie(t *testing.T) {
	dir := t.TempDir()
	store, err := session.NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	sess, err := store.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	c, _ := newTestClient(t)
	c.Sessions = store
	c.Request = &httpmsg.Request{Cookies: map[string]string{session.CookieName: sess.ID}}

	c.bindSession()

	if c.Request.SessionID != sess.ID {
		t.Fatalf("expected the existing session to be reused, got %q", c.Request.SessionID)
	}
	if c.newSessionCookie != "" {
		t.Fatal("did not expect a new Set-Cookie for a reused session")
	}
}

func TestAttachSessionCookieAddsSetCookieHeader(t *testing.T) {
	c, _ := newTestClient(t)
	c.newSessionCookie = "abc123"

	resp := response.NewStaticResponse(200, []byte("ok"), false, false)
	c.attachSessionCookie(resp)

	v, ok := resp.Headers().GetEnum(httpmsg.SetCookie)
	if !ok {
		t.Fatal("expected a Set-Cookie header to be added")
	}
	if v == "" {
		t.Fatal("expected a non-empty Set-Cookie value")
	}
}

func TestSwitchToErrorUsesDefaultBodyWhenNoErrorPage(t *testing.T) {
	c, _ := newTestClient(t)
	c.Request = &httpmsg.Request{Line: &httpmsg.RequestLine{Method: httpmsg.GET}}

	c.switchToError(404)

	if c.State != SendingResponse {
		t.Fatalf("expected SendingResponse, got %v", c.State)
	}
	if !c.closeAfterSend {
		t.Fatal("expected an error response to close the connection")
	}
	if c.Response == nil {
		t.Fatal("expected a response to be set")
	}
}

func TestResetClearsPerRequestState(t *testing.T) {
	c, _ := newTestClient(t)
	c.Request = &httpmsg.Request{Line: &httpmsg.RequestLine{Method: httpmsg.GET}}
	c.Response = response.NewStaticResponse(200, []byte("ok"), false, false)
	c.newSessionCookie = "abc"

	c.Reset()

	if c.State != Idle {
		t.Fatalf("expected Idle, got %v", c.State)
	}
	if c.Request != nil || c.Response != nil || c.Location != nil {
		t.Fatal("expected per-request fields to be cleared")
	}
	if c.newSessionCookie != "" {
		t.Fatal("expected cookie state to be cleared")
	}
}
