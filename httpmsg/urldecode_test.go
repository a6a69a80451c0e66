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

package httpmsg_test

import (
	"testing"

	. "github.com/nabbar/webserv/httpmsg"
)

func TestDecodeURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/a+b", "/a b"},
		{"/hello%20world", "/hello world"},
		{"/%2Fetc%2Fpasswd", "//etc/passwd"},
		{"/no-escapes", "/no-escapes"},
	}

	for _, c := range cases {
		got, err := DecodeURL(c.in)
		if err != nil {
			t.Fatalf("DecodeURL(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("DecodeURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeURLMalformed(t *testing.T) {
	cases := []string{"/%", "/%2", "/%zz"}
	for _, in := range cases {
		if _, err := DecodeURL(in); err == nil {
			t.Fatalf("DecodeURL(%q) expected an error", in)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{"/a/b/c", "/space here", "/query?x=1&y=2", "/ünïcödé-ish"}

	for _, in := range cases {
		encoded := EncodeURL(in)
		got, err := DecodeURL(encoded)
		if err != nil {
			t.Fatalf("round trip of %q failed to decode: %v", in, err)
		}
		if got != in {
			t.Fatalf("round trip of %q produced %q via %q", in, got, encoded)
		}
	}
}

func TestSplitPathQuery(t *testing.T) {
	path, query := SplitPathQuery("/a/b?x=1")
	if path != "/a/b" || query != "x=1" {
		t.Fatalf("SplitPathQuery = (%q, %q)", path, query)
	}

	path, query = SplitPathQuery("/no/query")
	if path != "/no/query" || query != "" {
		t.Fatalf("SplitPathQuery = (%q, %q)", path, query)
	}
}
