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

import "github.com/nabbar/webserv/duration"

// ReturnRule is a configured "return CODE TARGET;" directive.
type ReturnRule struct {
	Status int
	Target string
}

// LocationRule is the bound form of one "location PREFIX { ... }"
// block: a path prefix plus the per-path policy matched against it.
type LocationRule struct {
	Prefix            string `validate:"required"`
	AllowedMethods    []string
	Root              string
	Alias             string
	Index             []string
	Autoindex         bool
	Return            *ReturnRule
	UploadStore       string
	ErrorPages        map[int]string
	MaxBodySize       int64
	CGI               bool
	CGIExtension      []string
	CGITimeout        duration.Duration
	ClientBodyTimeout duration.Duration
}

// Matches reports whether reqPath is served by l, applying the
// longest-prefix boundary rule: the character following the matched
// prefix must be end-of-string, '/', or '?', or the prefix itself
// must already end in '/'.
func (l *LocationRule) Matches(reqPath string) bool {
	p := l.Prefix

	if len(reqPath) < len(p) || reqPath[:len(p)] != p {
		return false
	}

	if len(p) > 0 && p[len(p)-1] == '/' {
		return true
	}

	if len(reqPath) == len(p) {
		return true
	}

	switch reqPath[len(p)] {
	case '/', '?':
		return true
	}

	return false
}

// ServerConfig is one "server { ... }" block: a listening port, the
// server_name used for Host-header selection, and its locations.
type ServerConfig struct {
	Port                uint16 `validate:"required"`
	ServerName          []string
	IsDefault           bool
	ClientMaxBodySize   int64
	ClientHeaderTimeout duration.Duration
	ClientBodyTimeout   duration.Duration
	KeepaliveTimeout    duration.Duration
	ErrorPages          map[int]string
	Locations           []*LocationRule
	Default             *LocationRule
}

// MatchLocation returns the longest-prefix location matching reqPath,
// falling back to the server's synthesized default location.
func (s *ServerConfig) MatchLocation(reqPath string) *LocationRule {
	var best *LocationRule

	for _, l := range s.Locations {
		if !l.Matches(reqPath) {
			continue
		}
		if best == nil || len(l.Prefix) > len(best.Prefix) {
			best = l
		}
	}

	if best == nil {
		return s.Default
	}

	return best
}

// HttpRule is the top-level bound configuration: every server block,
// grouped implicitly by listening port at bind time.
type HttpRule struct {
	Servers []*ServerConfig
}

// ServersOnPort returns every ServerConfig listening on port.
func (h *HttpRule) ServersOnPort(port uint16) []*ServerConfig {
	var out []*ServerConfig
	for _, s := range h.Servers {
		if s.Port == port {
			out = append(out, s)
		}
	}
	return out
}

// SelectServer implements load_request_config's selection policy:
// match by Host header against server_name, else the server flagged
// default, else the first in listen order.
func (h *HttpRule) SelectServer(port uint16, host string) *ServerConfig {
	candidates := h.ServersOnPort(port)
	if len(candidates) == 0 {
		return nil
	}

	for _, s := range candidates {
		for _, name := range s.ServerName {
			if name == host {
				return s
			}
		}
	}

	for _, s := range candidates {
		if s.IsDefault {
			return s
		}
	}

	return candidates[0]
}
