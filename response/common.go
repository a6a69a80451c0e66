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
	"fmt"
	"strings"
	"time"

	"github.com/nabbar/webserv/httpmsg"
)

var statusText = map[int]string{
	200: "OK", 201: "Created", 204: "No Content",
	301: "Moved Permanently", 302: "Found", 303: "See Other", 307: "Temporary Redirect",
	400: "Bad Request", 403: "Forbidden", 404: "Not Found", 405: "Method Not Allowed",
	408: "Request Timeout", 413: "Payload Too Large", 500: "Internal Server Error",
	502: "Bad Gateway", 504: "Gateway Timeout",
}

// StatusText returns the reason phrase for code, or "Unknown" for an
// unrecognized one.
func StatusText(code int) string {
	if t, ok := statusText[code]; ok {
		return t
	}
	return "Unknown"
}

// IsRedirect reports whether code belongs to the 3xx redirect class.
func IsRedirect(code int) bool { return code >= 300 && code < 400 }

// baseHeaders builds the headers every variant sets by default: Date
// in RFC-1123 UTC, a no-cache Cache-Control, and Retry-After: 0.
func baseHeaders(closeConn bool) *httpmsg.Headers {
	h := httpmsg.NewHeaders()
	h.Set(httpmsg.Date.String(), time.Now().UTC().Format(time.RFC1123))
	h.Set(httpmsg.CacheControl.String(), "no-cache, no-store, must-revalidate")
	h.Set(httpmsg.RetryAfter.String(), "0")

	if closeConn {
		h.Set(httpmsg.Connection.String(), "close")
	}

	return h
}

// renderStatusLine writes "HTTP/1.1 NNN Reason\r\n".
func renderStatusLine(code int) string {
	return fmt.Sprintf("HTTP/1.1 %d %s\r\n", code, StatusText(code))
}

// renderHeaderBlock renders h plus the status line into a single
// byte slice terminated by the blank line that separates headers
// from body.
func renderHeaderBlock(code int, h *httpmsg.Headers) []byte {
	var b strings.Builder
	b.WriteString(renderStatusLine(code))

	for _, k := range h.Keys() {
		for _, v := range h.All(k) {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(v)
			b.WriteString("\r\n")
		}
	}

	b.WriteString("\r\n")
	return []byte(b.String())
}

// DefaultErrorBody returns the engine's inline fallback body for
// status, used when the location has no error_pages entry for it or
// the configured error page fails to open.
func DefaultErrorBody(status int) string {
	return fmt.Sprintf("<html>\r\n<head><title>%d %s</title></head>\r\n"+
		"<body>\r\n<center><h1>%d %s</h1></center>\r\n</body>\r\n</html>\r\n",
		status, StatusText(status), status, StatusText(status))
}
