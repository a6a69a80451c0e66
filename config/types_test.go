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

package config

import "testing"

func TestLocationRuleMatchesBoundary(t *testing.T) {
	cases := []struct {
		prefix, path string
		want         bool
	}{
		{"/api", "/api", true},
		{"/api", "/api/v1", true},
		{"/api", "/apiextra", false},
		{"/api", "/api?x=1", true},
		{"/", "/anything", true},
		{"/images/", "/images/cat.png", true},
		{"/images", "/images2", false},
	}

	for _, c := range cases {
		l := &LocationRule{Prefix: c.prefix}
		if got := l.Matches(c.path); got != c.want {
			t.Errorf("LocationRule{Prefix:%q}.Matches(%q) = %v, want %v", c.prefix, c.path, got, c.want)
		}
	}
}

func TestServerConfigMatchLocationPrefersLongestPrefix(t *testing.T) {
	s := &ServerConfig{
		Locations: []*LocationRule{
			{Prefix: "/"},
			{Prefix: "/api"},
			{Prefix: "/api/v1"},
		},
		Default: &LocationRule{Prefix: "/"},
	}

	got := s.MatchLocation("/api/v1/users")
	if got.Prefix != "/api/v1" {
		t.Fatalf("expected the longest matching prefix, got %q", got.Prefix)
	}
}

func TestServerConfigMatchLocationFallsBackToDefault(t *testing.T) {
	s := &ServerConfig{
		Locations: []*LocationRule{{Prefix: "/api"}},
		Default:   &LocationRule{Prefix: "/"},
	}

	got := s.MatchLocation("/unmatched")
	if got != s.Default {
		t.Fatal("expected the synthesized default location when nothing else matches")
	}
}

func TestHttpRuleSelectServerByHostHeader(t *testing.T) {
	a := &ServerConfig{Port: 80, ServerName: []string{"a.example.com"}}
	b := &ServerConfig{Port: 80, ServerName: []string{"b.example.com"}, IsDefault: true}
	h := &HttpRule{Servers: []*ServerConfig{a, b}}

	if got := h.SelectServer(80, "a.example.com"); got != a {
		t.Fatal("expected the server whose server_name matches the Host header")
	}
	if got := h.SelectServer(80, "unknown.example.com"); got != b {
		t.Fatal("expected the default_server when no server_name matches")
	}
}

func TestHttpRuleSelectServerNoCandidates(t *testing.T) {
	h := &HttpRule{}
	if got := h.SelectServer(80, "anything"); got != nil {
		t.Fatalf("expected nil for a port with no listeners, got %+v", got)
	}
}

func TestHttpRuleSelectServerFirstInListenOrder(t *testing.T) {
	a := &ServerConfig{Port: 80}
	b := &ServerConfig{Port: 80}
	h := &HttpRule{Servers: []*ServerConfig{a, b}}

	if got := h.SelectServer(80, "unmatched"); got != a {
		t.Fatal("expected the first server in listen order when no server_name or default matches")
	}
}
