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

// Package httpmsg implements the request-line/header/chunked-encoding
// framing the engine needs: just enough of RFC 7230/7231 to drive the
// client state machine, deliberately not the full net/http stack.
package httpmsg

import "strings"

// HeaderKey enumerates the headers the engine branches on by name;
// string lookups elsewhere use the raw key as received.
type HeaderKey uint8

const (
	ContentType HeaderKey = iota
	ContentLength
	Host
	TransferEncoding
	Connection
	Cookie
	SetCookie
	Location
	Date
	RetryAfter
	CacheControl
	Status
)

var headerNames = map[HeaderKey]string{
	ContentType:      "Content-Type",
	ContentLength:    "Content-Length",
	Host:             "Host",
	TransferEncoding: "Transfer-Encoding",
	Connection:       "Connection",
	Cookie:           "Cookie",
	SetCookie:        "Set-Cookie",
	Location:         "Location",
	Date:             "Date",
	RetryAfter:       "Retry-After",
	CacheControl:     "Cache-Control",
	Status:           "Status",
}

func (k HeaderKey) String() string { return headerNames[k] }

// Headers is a case-sensitive multimap preserving insertion order,
// needed for repeated headers such as Set-Cookie.
type Headers struct {
	keys   []string
	values map[string][]string
}

func NewHeaders() *Headers {
	return &Headers{values: make(map[string][]string)}
}

// Add appends value under key, preserving any prior values.
func (h *Headers) Add(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}

	h.values[key] = append(h.values[key], value)
}

// Set replaces any existing values for key.
func (h *Headers) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}

	h.values[key] = []string{value}
}

// Del removes key entirely.
func (h *Headers) Del(key string) {
	delete(h.values, key)

	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

// Get returns the first value stored for key, case-insensitively.
func (h *Headers) Get(key string) (string, bool) {
	for k, v := range h.values {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0], true
		}
	}

	return "", false
}

// GetEnum is the HeaderKey-typed sibling of Get.
func (h *Headers) GetEnum(k HeaderKey) (string, bool) {
	return h.Get(k.String())
}

// All returns every value stored for key, case-insensitively.
func (h *Headers) All(key string) []string {
	for k, v := range h.values {
		if strings.EqualFold(k, key) {
			return v
		}
	}

	return nil
}

// Keys returns header names in first-insertion order.
func (h *Headers) Keys() []string {
	return h.keys
}

// ParseHeaderBlock parses CRLF-separated "Key: Value" lines (no
// trailing blank line expected — callers pass the block already
// stripped of the terminating "\r\n\r\n" by Readable.ExtractHeaders).
func ParseHeaderBlock(block []byte) *Headers {
	h := NewHeaders()

	lines := strings.Split(string(block), "\r\n")
	for _, line := range lines {
		if line == "" {
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])

		h.Add(key, val)
	}

	return h
}
