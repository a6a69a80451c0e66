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
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/httpmsg"
	"github.com/nabbar/webserv/poller"
)

// handleClientReadable drives WaitingForHeaders -> ReadingBody and
// ReadingBody's own body-accumulation transitions, plus re-arming
// Idle -> WaitingForHeaders for a pipelined keep-alive request.
func (s *Server) handleClientReadable(c *Client) {
	n := c.Socket.Read()
	if n == 0 && c.Socket.State() == fd.Closed {
		return
	}

	switch c.State {
	case Idle:
		if c.Socket.Len() > 0 {
			c.State = WaitingForHeaders
			s.handleClientReadable(c)
		}

	case WaitingForHeaders:
		s.tryParseHeaders(c)

	case ReadingBody:
		s.pumpRequestBody(c)
	}
}

func (s *Server) tryParseHeaders(c *Client) {
	head := c.Socket.ExtractHeaders()
	if head == nil {
		if c.Socket.Len() >= fd.MaxReadBuffer {
			s.untrackClient(c.Socket.Fd())
		}
		return
	}

	req, err := httpmsg.ParseHeaders(head)
	if err != nil {
		c.Request = &httpmsg.Request{}
		c.switchToError(400)
		s.armWritable(c)
		return
	}

	c.Request = req
	c.Server = s.LoadRequestConfig(c.Socket.Fd(), headerHost(req))

	if c.Server == nil || req.Line.Method == httpmsg.UnknownMethod {
		c.switchToError(400)
		s.armWritable(c)
		return
	}

	c.Location = c.Server.MatchLocation(req.Line.Path)
	if c.Location == nil {
		c.Location = c.Server.Default
	}

	c.bindSession()
	c.Response = c.createResponseFromRequest()
	c.attachSessionCookie(c.Response)
	c.State = ReadingBody

	if c.Response.ShouldDirectlySendResponse() {
		c.State = SendingResponse
		s.armWritable(c)
		return
	}

	// Headers and the start of the body can arrive in the same read(2);
	// the socket will not necessarily signal Readable again once that
	// data is already sitting in our own buffer, so drain what's here
	// before waiting on the poller.
	if c.Socket.Len() > 0 {
		s.pumpRequestBody(c)
	}
}

func (s *Server) pumpRequestBody(c *Client) {
	if c.Request.BodyMode == httpmsg.Chunked {
		switch c.Socket.ChunkStatus() {
		case fd.ChunkError:
			c.switchToError(400)
			s.armWritable(c)
			return
		case fd.TooLarge:
			c.switchToError(413)
			s.armWritable(c)
			return
		}
	}

	bodyBytes := c.Socket.BodyBytes() - int64(c.Request.HeaderPartLength)
	if c.Location != nil && c.Location.MaxBodySize > 0 && bodyBytes > c.Location.MaxBodySize {
		c.switchToError(413)
		s.armWritable(c)
		return
	}

	c.Response.HandleRequestBody(c.Socket)

	if cgiResp, ok := c.Response.(interface {
		CloseStdinIfDone(bool, *fd.Socket)
	}); ok {
		cgiResp.CloseStdinIfDone(c.fullBodyReceived(), c.Socket)
	}

	if c.fullBodyReceived() {
		c.State = SendingResponse
		s.armWritable(c)
	}
}

func (s *Server) armWritable(c *Client) {
	_ = s.poll.Modify(c.Socket.Fd(), poller.Readable|poller.Writable)
}

func (s *Server) handleClientWritable(c *Client) {
	if c.State != SendingResponse {
		return
	}

	c.Response.HandleSocketWriteTick(c.Socket)

	if c.Response.IsFullResponseSent() {
		if c.closeAfterSend {
			s.untrackClient(c.Socket.Fd())
			return
		}

		c.Reset()
		_ = s.poll.Modify(c.Socket.Fd(), poller.Readable)
	}
}

func headerHost(req *httpmsg.Request) string {
	if req.Headers == nil {
		return ""
	}
	h, _ := req.Headers.GetEnum(httpmsg.Host)
	return h
}
