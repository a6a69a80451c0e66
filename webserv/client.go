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
	"strconv"

	"github.com/nabbar/webserv/config"
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/httpmsg"
	"github.com/nabbar/webserv/response"
	"github.com/nabbar/webserv/session"
)

// ClientState is one of the four states a connection moves through.
type ClientState uint8

const (
	WaitingForHeaders ClientState = iota
	ReadingBody
	SendingResponse
	Idle
)

func (s ClientState) String() string {
	switch s {
	case WaitingForHeaders:
		return "waiting_for_headers"
	case ReadingBody:
		return "reading_body"
	case SendingResponse:
		return "sending_response"
	case Idle:
		return "idle"
	}
	return "unknown"
}

// Client is one accepted connection's full state: the socket, its
// current phase, the matched location (valid from ReadingBody
// onward), the in-flight request and the owned response variant.
type Client struct {
	Socket   *fd.Socket
	State    ClientState
	Server   *config.ServerConfig
	Location *config.LocationRule
	Request  *httpmsg.Request
	Response response.Response

	Sessions *session.Store

	headerTimerID    uint64
	bodyTimerID      uint64
	keepaliveTimer   uint64
	closeAfterSend   bool
	newSessionCookie string
}

// NewClient wraps an accepted socket, starting in WaitingForHeaders.
func NewClient(sock *fd.Socket, sessions *session.Store) *Client {
	return &Client{Socket: sock, State: WaitingForHeaders, Sessions: sessions}
}

// bindSession implements the lazy session-creation contract: reuse the
// cookie's session if present and unexpired, else mint one and
// remember to emit Set-Cookie on the response about to be built.
func (c *Client) bindSession() {
	if c.Sessions == nil || c.Request == nil {
		return
	}

	if cookie, ok := c.Request.Cookies[session.CookieName]; ok {
		if sess, found := c.Sessions.Get(cookie); found {
			c.Request.SessionID = sess.ID
			return
		}
	}

	sess, err := c.Sessions.Create()
	if err != nil {
		return
	}

	c.Request.SessionID = sess.ID
	c.newSessionCookie = sess.ID
}

// attachSessionCookie sets Set-Cookie on resp's headers when bindSession
// minted a new session for this request. Only StaticResponse and
// FileResponse expose headers at dispatch time; a CGI response still
// receives the session through HTTP_SESSION_FILE regardless.
func (c *Client) attachSessionCookie(resp response.Response) {
	if c.newSessionCookie == "" {
		return
	}

	type headerer interface{ Headers() *httpmsg.Headers }
	if h, ok := resp.(headerer); ok {
		h.Headers().Add(httpmsg.SetCookie.String(), sessionCookieValue(c.newSessionCookie))
	}
}

func sessionCookieValue(id string) string {
	return session.CookieName + "=" + id + "; Max-Age=" + strconv.Itoa(int(session.MaxAge.Seconds())) + "; Path=/"
}

// fullBodyReceived implements the base spec's full-body detection:
// ContentLength mode compares the socket's cumulative byte counter
// (which includes the header block) minus HeaderPartLength against
// ContentLength, Chunked mode defers to the socket's chunk scanner,
// NotSet is immediately complete.
func (c *Client) fullBodyReceived() bool {
	switch c.Request.BodyMode {
	case httpmsg.ContentLengthMode:
		return c.Socket.BodyBytes()-int64(c.Request.HeaderPartLength) >= c.Request.ContentLength
	case httpmsg.Chunked:
		return c.Socket.ChunkStatus() == fd.Complete
	default:
		return true
	}
}

// switchToError destroys the current response and replaces it with
// an error response for status, using the location's configured
// error_pages entry when present, else the default inline body. The
// connection is marked Connection: close and Writable interest is
// implied by response.ShouldDirectlySendResponse.
func (c *Client) switchToError(status int) {
	if c.Response != nil {
		c.Response.Terminate()
	}

	isHead := c.Request != nil && c.Request.Line != nil && c.Request.Line.Method == httpmsg.HEAD

	if c.Location != nil {
		if path, ok := c.Location.ErrorPages[status]; ok {
			if f := openErrorPageFile(path); f != nil {
				c.Response = response.NewFileResponse(status, f, "text/html", true)
				c.State = SendingResponse
				c.closeAfterSend = true
				return
			}
		}
	}

	body := []byte(response.DefaultErrorBody(status))
	c.Response = response.NewStaticResponse(status, body, isHead, true)
	c.State = SendingResponse
	c.closeAfterSend = true
}

// Reset clears per-request state after a fully-sent keep-alive
// response, returning the client to Idle.
func (c *Client) Reset() {
	if c.Response != nil {
		c.Response.Terminate()
	}
	c.Response = nil
	c.Request = nil
	c.Location = nil
	c.newSessionCookie = ""
	c.State = Idle
}
