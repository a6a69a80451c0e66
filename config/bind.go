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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nabbar/webserv/duration"
	liberr "github.com/nabbar/webserv/errors"
	"github.com/nabbar/webserv/errors/pool"
)

const (
	ErrBind = liberr.MinPkgConfig + iota
	ErrValidate
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgConfig, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrBind:
		return "configuration binding failed"
	case ErrValidate:
		return "configuration validation failed"
	}
	return liberr.NullMessage
}

var validate = validator.New()

// Bind walks a parsed configuration tree into a typed HttpRule,
// collecting every directive error in an errors/pool.Pool instead of
// stopping at the first one, then running struct validation over
// every bound server and location.
func Bind(root *Block) (*HttpRule, error) {
	errs := pool.New()

	h := &HttpRule{}

	serverBlocks := root.Children("server")
	for _, httpBlk := range root.Children("http") {
		serverBlocks = append(serverBlocks, httpBlk.Children("server")...)
	}

	for _, sb := range serverBlocks {
		s, serrs := bindServer(sb)
		for _, e := range serrs {
			errs.Add(e)
		}
		if s != nil {
			h.Servers = append(h.Servers, s)

			if err := validate.Struct(s); err != nil {
				errs.Add(liberr.New(uint16(ErrValidate), message(ErrValidate), err))
			}

			for _, l := range s.Locations {
				if err := validate.Struct(l); err != nil {
					errs.Add(liberr.New(uint16(ErrValidate), message(ErrValidate), err))
				}
			}
		}
	}

	if errs.Len() > 0 {
		return nil, liberr.New(uint16(ErrBind), message(ErrBind), errs.Error())
	}

	return h, nil
}

func bindServer(b *Block) (*ServerConfig, []error) {
	var errs []error

	s := &ServerConfig{ErrorPages: make(map[int]string)}

	if d := b.Get("listen"); d != nil && len(d.Args) > 0 {
		if p, err := strconv.ParseUint(d.Args[0], 10, 16); err != nil {
			errs = append(errs, directiveErr(d, "invalid listen port: "+err.Error()))
		} else {
			s.Port = uint16(p)
		}
	} else {
		errs = append(errs, &ParseError{b.Line, b.Col, "server block missing 'listen'"})
	}

	for _, d := range b.All("server_name") {
		s.ServerName = append(s.ServerName, d.Args...)
	}

	if b.Get("default_server") != nil {
		s.IsDefault = true
	}

	if d := b.Get("client_max_body_size"); d != nil && len(d.Args) > 0 {
		n, err := strconv.ParseInt(d.Args[0], 10, 64)
		if err != nil {
			errs = append(errs, directiveErr(d, "invalid client_max_body_size: "+err.Error()))
		}
		s.ClientMaxBodySize = n
	}

	if d := b.Get("client_header_timeout"); d != nil && len(d.Args) > 0 {
		s.ClientHeaderTimeout = parseDurationDirective(d, &errs)
	}

	if d := b.Get("client_body_timeout"); d != nil && len(d.Args) > 0 {
		s.ClientBodyTimeout = parseDurationDirective(d, &errs)
	}

	if d := b.Get("keepalive_timeout"); d != nil && len(d.Args) > 0 {
		s.KeepaliveTimeout = parseDurationDirective(d, &errs)
	}

	for _, d := range b.All("error_page") {
		bindErrorPage(d, s.ErrorPages, &errs)
	}

	serverDefaults := serverLevelDirectives(b)

	for _, lb := range b.Children("location") {
		loc, lerrs := bindLocation(lb, serverDefaults)
		errs = append(errs, lerrs...)
		if loc != nil {
			s.Locations = append(s.Locations, loc)
		}
	}

	s.Default = &LocationRule{
		Prefix:      "/",
		Root:        serverDefaults.root,
		Index:       serverDefaults.index,
		Autoindex:   serverDefaults.autoindex,
		ErrorPages:  s.ErrorPages,
		MaxBodySize: s.ClientMaxBodySize,
	}

	return s, errs
}

// serverDefaults carries server-block-level directives that seed the
// synthesized default location and are inherited by every location
// block that does not override them.
type serverDefaults struct {
	root      string
	index     []string
	autoindex bool
}

func serverLevelDirectives(b *Block) serverDefaults {
	sd := serverDefaults{}

	if d := b.Get("root"); d != nil && len(d.Args) > 0 {
		sd.root = d.Args[0]
	}
	if d := b.Get("index"); d != nil {
		sd.index = d.Args
	}
	if d := b.Get("autoindex"); d != nil && len(d.Args) > 0 {
		sd.autoindex = d.Args[0] == "on"
	}

	return sd
}

func bindLocation(b *Block, inherited serverDefaults) (*LocationRule, []error) {
	var errs []error

	if len(b.Args) == 0 {
		return nil, []error{&ParseError{b.Line, b.Col, "location block missing path prefix"}}
	}

	l := &LocationRule{
		Prefix:     b.Args[0],
		Root:       inherited.root,
		Index:      inherited.index,
		Autoindex:  inherited.autoindex,
		ErrorPages: make(map[int]string),
	}

	if d := b.Get("allowed_methods"); d != nil {
		l.AllowedMethods = d.Args
	}
	if d := b.Get("root"); d != nil && len(d.Args) > 0 {
		l.Root = d.Args[0]
	}
	if d := b.Get("alias"); d != nil && len(d.Args) > 0 {
		l.Alias = d.Args[0]
	}
	if d := b.Get("index"); d != nil {
		l.Index = d.Args
	}
	if d := b.Get("autoindex"); d != nil && len(d.Args) > 0 {
		l.Autoindex = d.Args[0] == "on"
	}
	if d := b.Get("upload_store"); d != nil && len(d.Args) > 0 {
		l.UploadStore = d.Args[0]
	}
	if d := b.Get("cgi"); d != nil && len(d.Args) > 0 {
		l.CGI = d.Args[0] == "on"
	}
	if d := b.Get("cgi_extension"); d != nil {
		l.CGIExtension = d.Args
	}
	if d := b.Get("cgi_timeout"); d != nil && len(d.Args) > 0 {
		l.CGITimeout = parseDurationDirective(d, &errs)
	}
	if d := b.Get("client_body_timeout"); d != nil && len(d.Args) > 0 {
		l.ClientBodyTimeout = parseDurationDirective(d, &errs)
	}
	if d := b.Get("client_max_body_size"); d != nil && len(d.Args) > 0 {
		n, err := strconv.ParseInt(d.Args[0], 10, 64)
		if err != nil {
			errs = append(errs, directiveErr(d, "invalid client_max_body_size: "+err.Error()))
		}
		l.MaxBodySize = n
	}

	if d := b.Get("return"); d != nil && len(d.Args) >= 2 {
		code, err := strconv.Atoi(d.Args[0])
		if err != nil {
			errs = append(errs, directiveErr(d, "invalid return status: "+err.Error()))
		} else {
			l.Return = &ReturnRule{Status: code, Target: d.Args[1]}
		}
	}

	for _, d := range b.All("error_page") {
		bindErrorPage(d, l.ErrorPages, &errs)
	}

	return l, errs
}

func bindErrorPage(d *Directive, into map[int]string, errs *[]error) {
	if len(d.Args) < 2 {
		*errs = append(*errs, directiveErr(d, "error_page requires a status and a path"))
		return
	}

	file := d.Args[len(d.Args)-1]
	for _, s := range d.Args[:len(d.Args)-1] {
		code, err := strconv.Atoi(s)
		if err != nil {
			*errs = append(*errs, directiveErr(d, "invalid error_page status: "+err.Error()))
			continue
		}
		into[code] = file
	}
}

func parseDurationDirective(d *Directive, errs *[]error) duration.Duration {
	v, err := duration.Parse(strings.TrimSpace(d.Args[0]))
	if err != nil {
		*errs = append(*errs, directiveErr(d, "invalid duration: "+err.Error()))
		return 0
	}
	return v
}

func directiveErr(d *Directive, msg string) error {
	return &ParseError{d.Line, d.Col, fmt.Sprintf("%s: %s", d.Name, msg)}
}
