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

package httpmsg

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errMalformedEscape = errors.New("httpmsg: malformed percent-escape")
	errMalformedLine   = errors.New("httpmsg: malformed request line")
	errUnknownMethod   = errors.New("httpmsg: unknown method")
)

// Method is the closed set of request methods the engine recognizes.
type Method uint8

const (
	UnknownMethod Method = iota
	GET
	POST
	DELETE
	PUT
	HEAD
	OPTIONS
)

var methodNames = map[string]Method{
	"GET": GET, "POST": POST, "DELETE": DELETE,
	"PUT": PUT, "HEAD": HEAD, "OPTIONS": OPTIONS,
}

func (m Method) String() string {
	for s, v := range methodNames {
		if v == m {
			return s
		}
	}
	return "UNKNOWN"
}

// BodyMode distinguishes how a request's body length is framed.
type BodyMode uint8

const (
	NotSet BodyMode = iota
	Chunked
	ContentLengthMode
)

// RequestLine is the parsed "METHOD SP RAW_URL SP HTTP_VERSION".
type RequestLine struct {
	Method  Method
	RawURL  string
	Path    string
	Query   string
	Version string
}

// ParseRequestLine parses the first line of an HTTP/1.1 request.
// UnknownMethod is returned (not an error) for an unrecognized verb;
// the caller rejects it as 400.
func ParseRequestLine(line string) (*RequestLine, error) {
	line = strings.TrimRight(line, "\r\n")

	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return nil, errMalformedLine
	}

	method, ok := methodNames[parts[0]]
	if !ok {
		method = UnknownMethod
	}

	decoded, err := DecodeURL(parts[1])
	if err != nil {
		return nil, err
	}

	path, query := SplitPathQuery(decoded)

	return &RequestLine{
		Method:  method,
		RawURL:  parts[1],
		Path:    path,
		Query:   query,
		Version: parts[2],
	}, nil
}

// Request is the fully-parsed inbound message the Client state
// machine and response variants operate on.
type Request struct {
	Line             *RequestLine
	Headers          *Headers
	ContentLength    int64
	HeaderPartLength int
	ResolvedPath     string
	IsDirectory      bool
	BodyMode         BodyMode
	Cookies          map[string]string
	SessionID        string
}

// ParseHeaders builds a Request from the raw bytes returned by
// Readable.ExtractHeaders (the request line plus header lines, no
// trailing blank line).
func ParseHeaders(block []byte) (*Request, error) {
	text := string(block)
	nl := strings.Index(text, "\r\n")

	var headerText string
	var lineText string

	if nl < 0 {
		lineText = text
	} else {
		lineText = text[:nl]
		headerText = text[nl+2:]
	}

	rl, err := ParseRequestLine(lineText)
	if err != nil {
		return nil, err
	}

	h := ParseHeaderBlock([]byte(headerText))

	req := &Request{
		Line:             rl,
		Headers:          h,
		HeaderPartLength: len(block) + 4,
		Cookies:          parseCookies(h),
	}

	if te, ok := h.GetEnum(TransferEncoding); ok && strings.EqualFold(strings.TrimSpace(te), "chunked") {
		req.BodyMode = Chunked
	} else if cl, ok := h.GetEnum(ContentLength); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64); err == nil && n > 0 {
			req.ContentLength = n
			req.BodyMode = ContentLengthMode
		} else {
			req.BodyMode = NotSet
		}
	} else {
		req.BodyMode = NotSet
	}

	return req, nil
}

func parseCookies(h *Headers) map[string]string {
	out := make(map[string]string)

	raw, ok := h.GetEnum(Cookie)
	if !ok {
		return out
	}

	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		idx := strings.IndexByte(pair, '=')
		if idx < 0 {
			continue
		}

		out[pair[:idx]] = pair[idx+1:]
	}

	return out
}
