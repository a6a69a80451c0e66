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
	"os"

	"github.com/nabbar/webserv/fd"
	"github.com/nabbar/webserv/httpmsg"
)

// FileResponse streams a file's contents as the response body, always
// via Transfer-Encoding: chunked since the length is not known up
// front in a way cheap enough to trust across concurrent writers.
type FileResponse struct {
	status      int
	headers     *httpmsg.Headers
	reader      *fd.Readable
	file        *os.File
	headOffset    int
	headersSent   []byte
	bw            fd.BodyWriter
	finalOffset   int
	finalSent     bool
	closeConn     bool
}

var finalChunk = []byte("0\r\n\r\n")

// NewFileResponse takes ownership of f (already opened O_NONBLOCK)
// and serves status with contentType.
func NewFileResponse(status int, f *os.File, contentType string, closeConn bool) *FileResponse {
	h := baseHeaders(closeConn)
	h.Set(httpmsg.TransferEncoding.String(), "chunked")
	if contentType != "" {
		h.Set(httpmsg.ContentType.String(), contentType)
	}

	return &FileResponse{
		status:    status,
		headers:   h,
		reader:    fd.NewReadable(int(f.Fd()), 0),
		file:      f,
		closeConn: closeConn,
	}
}

func (f *FileResponse) Headers() *httpmsg.Headers { return f.headers }

func (f *FileResponse) StatusCode() int { return f.status }

func (f *FileResponse) ShouldDirectlySendResponse() bool { return true }

func (f *FileResponse) HandleRequestBody(socket *fd.Socket) TickResult {
	socket.ExtractAll()
	return TickResult{}
}

func (f *FileResponse) HandleSocketWriteTick(socket *fd.Socket) TickResult {
	if f.headersSent == nil {
		f.headersSent = renderHeaderBlock(f.status, f.headers)
	}

	if f.headOffset < len(f.headersSent) {
		n := socket.WriteAsString(f.headersSent[f.headOffset:])
		f.headOffset += n
		return TickResult{}
	}

	if f.reader.State() != fd.Closed {
		f.reader.Read()
	}

	if f.reader.State() == fd.Closed && f.reader.Len() == 0 && f.bw.IsEmpty() {
		if f.finalOffset < len(finalChunk) {
			n := socket.WriteAsString(finalChunk[f.finalOffset:])
			f.finalOffset += n
			if f.finalOffset >= len(finalChunk) {
				f.finalSent = true
			}
		}
		return TickResult{}
	}

	f.bw.SendBodyAsHTTPChunk(f.reader, socket)
	return TickResult{}
}

func (f *FileResponse) IsFullResponseSent() bool {
	return f.headOffset >= len(f.headersSent) &&
		f.reader.State() == fd.Closed &&
		f.reader.Len() == 0 &&
		f.bw.IsEmpty() &&
		f.finalSent
}

func (f *FileResponse) Terminate() {
	if f.file != nil {
		_ = f.file.Close()
	}
}
