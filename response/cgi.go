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

package response

import (
	"strconv"
	"strings"

	"github.com/nabbar/webserv/cgi"
	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/httpmsg"
)

// CGIResponse pumps a client body into a forked script's stdin and
// the script's stdout back to the client, never buffering either
// side entirely.
type CGIResponse struct {
	proc *cgi.Process

	reqMode     httpmsg.BodyMode
	stdinClosed bool
	stdinWriter fd.BodyWriter
	chunkPend   []byte

	prepared    bool
	transfer    cgi.TransferMode
	status      int
	headers     *httpmsg.Headers
	fullLength  int64

	headersOut  []byte
	headOffset  int
	stdoutWrite fd.BodyWriter
	finalOffset int
	finalSent   bool
	bodyWritten int64

	timedOut bool
}

// NewCGIResponse wraps an already-started cgi.Process for one client,
// reqMode is the request's own body framing so HandleRequestBody
// knows how to drain it into the child's stdin.
func NewCGIResponse(proc *cgi.Process, reqMode httpmsg.BodyMode) *CGIResponse {
	return &CGIResponse{proc: proc, reqMode: reqMode}
}

func (c *CGIResponse) ShouldDirectlySendResponse() bool { return false }

func (c *CGIResponse) StatusCode() int {
	if c.status == 0 {
		return 200
	}
	return c.status
}

// HandleRequestBody relays buffered request body into the child's
// stdin, one tick of progress at a time, and closes stdin once the
// body is exhausted or the pipe hangs up.
func (c *CGIResponse) HandleRequestBody(socket *fd.Socket) TickResult {
	if c.stdinClosed {
		socket.ExtractAll()
		return TickResult{}
	}

	if len(c.chunkPend) > 0 {
		n := c.proc.Stdin.WriteAsString(c.chunkPend)
		c.chunkPend = c.chunkPend[n:]
		return TickResult{}
	}

	if !c.stdinWriter.IsEmpty() {
		c.stdinWriter.Tick(c.proc.Stdin)
		return TickResult{}
	}

	switch c.reqMode {
	case httpmsg.Chunked:
		data, _, ok := socket.ExtractHTTPChunk()
		if ok && len(data) > 0 {
			n := c.proc.Stdin.WriteAsString(data)
			if n < len(data) {
				c.chunkPend = append(c.chunkPend, data[n:]...)
			}
		}
	default:
		c.stdinWriter.SendBodyAsString(socket.Readable, c.proc.Stdin)
	}

	return TickResult{}
}

// CloseStdinIfDone closes the write-pipe once the full request body
// has been received and the socket's read buffer is drained.
func (c *CGIResponse) CloseStdinIfDone(bodyComplete bool, socket *fd.Socket) {
	if c.stdinClosed {
		return
	}
	if bodyComplete && socket.Len() == 0 && c.stdinWriter.IsEmpty() {
		_ = c.proc.CloseStdin()
		c.stdinClosed = true
	}
}

// pumpStdout reads as much of the child's stdout as is ready, bounded
// by the Readable's own cap.
func (c *CGIResponse) pumpStdout() {
	if c.proc.Stdout.State() == fd.Closed {
		return
	}
	c.proc.Stdout.Read()
}

func (c *CGIResponse) prepare() {
	if c.prepared {
		return
	}

	head := c.proc.Stdout.ExtractHeaders()
	if head == nil {
		if c.proc.Stdout.State() != fd.Closed {
			return
		}
		c.status = 500
		c.headers = baseHeaders(true)
		c.headersOut = renderHeaderBlock(c.status, c.headers)
		c.prepared = true
		return
	}

	h := httpmsg.ParseHeaderBlock(head)

	status := 200
	if s, ok := h.GetEnum(httpmsg.Status); ok {
		fields := strings.SplitN(strings.TrimSpace(s), " ", 2)
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 100 || n > 599 {
			status = 500
		} else {
			status = n
		}
	}
	h.Del(httpmsg.Status.String())

	out := baseHeaders(false)
	for _, k := range h.Keys() {
		for _, v := range h.All(k) {
			out.Add(k, v)
		}
	}

	if cl, ok := out.GetEnum(httpmsg.ContentLength); ok {
		if _, teOK := out.GetEnum(httpmsg.TransferEncoding); !teOK {
			if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
				c.transfer = cgi.FullBuffer
				c.fullLength = n
			}
		}
	}

	if c.transfer == cgi.Unknown {
		out.Del(httpmsg.ContentLength.String())
		out.Set(httpmsg.TransferEncoding.String(), "chunked")
		c.transfer = cgi.Chunked
	}

	c.status = status
	c.headers = out
	c.headersOut = renderHeaderBlock(status, out)
	c.prepared = true
}

func (c *CGIResponse) HandleSocketWriteTick(socket *fd.Socket) TickResult {
	c.pumpStdout()

	if !c.prepared {
		c.prepare()
		if !c.prepared {
			return TickResult{}
		}
	}

	if c.transfer == cgi.Unknown {
		return TickResult{}
	}

	if c.headOffset < len(c.headersOut) {
		n := socket.WriteAsString(c.headersOut[c.headOffset:])
		c.headOffset += n
		return TickResult{}
	}

	switch c.transfer {
	case cgi.Chunked:
		if c.proc.Stdout.State() == fd.Closed && c.proc.Stdout.Len() == 0 && c.stdoutWrite.IsEmpty() {
			if c.finalOffset < len(finalChunk) {
				n := socket.WriteAsString(finalChunk[c.finalOffset:])
				c.finalOffset += n
				if c.finalOffset >= len(finalChunk) {
					c.finalSent = true
				}
			}
			return TickResult{}
		}
		c.stdoutWrite.SendBodyAsHTTPChunk(c.proc.Stdout, socket)

	case cgi.FullBuffer:
		n := c.stdoutWrite.SendBodyAsString(c.proc.Stdout, socket)
		c.bodyWritten += int64(n)
	}

	return TickResult{}
}

func (c *CGIResponse) IsFullResponseSent() bool {
	if !c.prepared || c.transfer == cgi.Unknown {
		return false
	}
	if c.headOffset < len(c.headersOut) {
		return false
	}

	switch c.transfer {
	case cgi.Chunked:
		return c.finalSent
	case cgi.FullBuffer:
		return c.bodyWritten >= c.fullLength && c.stdoutWrite.IsEmpty()
	}

	return false
}

// Timeout marks this response as having exceeded its cgi_timeout;
// the caller is expected to switch the client to an error response
// immediately afterward.
func (c *CGIResponse) Timeout() { c.timedOut = true }

func (c *CGIResponse) Terminate() {
	c.proc.Kill()
}
