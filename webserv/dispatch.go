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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nabbar/webserv/cgi"
	"github.com/nabbar/webserv/config"
	"github.com/nabbar/webserv/httpmsg"
	"github.com/nabbar/webserv/response"
)

func methodAllowed(loc *config.LocationRule, m httpmsg.Method) bool {
	if len(loc.AllowedMethods) == 0 {
		return m == httpmsg.GET || m == httpmsg.HEAD
	}
	for _, a := range loc.AllowedMethods {
		if strings.EqualFold(a, m.String()) {
			return true
		}
	}
	return false
}

func isCGICandidate(loc *config.LocationRule, resolved ResolvedPath) bool {
	if loc.CGI {
		return true
	}
	if resolved.IsDirectory {
		return false
	}
	ext := filepath.Ext(resolved.Path)
	for _, e := range loc.CGIExtension {
		if ext == e {
			return true
		}
	}
	return false
}

// createResponseFromRequest implements the binding decision order
// from the base request-routing table, in the exact priority order
// specified: body size, CGI eligibility, method, return rule, root
// presence, path validity, directory listing, method-vs-GET, file
// open.
func (c *Client) createResponseFromRequest() response.Response {
	req := c.Request
	loc := c.Location

	if req.ContentLength > loc.MaxBodySize && loc.MaxBodySize > 0 {
		return c.buildError(413)
	}

	resolved := ResolvePath(req.Line.Path, loc)

	if isCGICandidate(loc, resolved) {
		return c.buildCGIResponse(resolved)
	}

	if !methodAllowed(loc, req.Line.Method) {
		return c.buildError(405)
	}

	if loc.Return != nil {
		body := []byte(loc.Return.Target)
		isHead := req.Line.Method == httpmsg.HEAD
		sr := response.NewStaticResponse(loc.Return.Status, body, isHead, false)
		if response.IsRedirect(loc.Return.Status) {
			sr.Headers().Set(httpmsg.Location.String(), loc.Return.Target)
		}
		return sr
	}

	if loc.Root == "" && loc.Alias == "" {
		return c.buildError(404)
	}

	if !resolved.Valid {
		return c.buildError(400)
	}

	if resolved.IsDirectory {
		if !loc.Autoindex {
			return c.buildError(403)
		}
		return c.buildDirectoryListing(resolved.Path, req.Line.Path)
	}

	if req.Line.Method != httpmsg.GET {
		return c.buildError(400)
	}

	f := openErrorPageFile(resolved.Path)
	if f == nil {
		return c.buildError(404)
	}

	return response.NewFileResponse(200, f, contentTypeFor(resolved.Path), false)
}

func (c *Client) buildError(status int) response.Response {
	body := []byte(response.DefaultErrorBody(status))
	isHead := c.Request != nil && c.Request.Line != nil && c.Request.Line.Method == httpmsg.HEAD
	return response.NewStaticResponse(status, body, isHead, true)
}

func (c *Client) buildDirectoryListing(path, urlPath string) response.Response {
	entries, err := listDirectory(path, urlPath)
	if err != nil {
		return c.buildError(403)
	}

	isHead := c.Request.Line.Method == httpmsg.HEAD
	sr := response.NewStaticResponse(200, []byte(entries), isHead, false)
	sr.Headers().Set(httpmsg.ContentType.String(), "text/html")
	return sr
}

func (c *Client) buildCGIResponse(resolved ResolvedPath) response.Response {
	scriptPath, pathInfo, found := findCGIScript(resolved.Path, c.Location)
	if !found {
		return c.buildError(404)
	}

	sessionFile := ""
	if c.Sessions != nil && c.Request.SessionID != "" {
		sessionFile = c.Sessions.Path(c.Request.SessionID)
	}

	env := cgi.Environment(cgi.ScriptRequest{
		Method:         c.Request.Line.Method.String(),
		ScriptFilename: scriptPath,
		ScriptName:     c.Location.Prefix,
		PathInfo:       pathInfo,
		PathTranslated: scriptPath + pathInfo,
		Query:          c.Request.Line.Query,
		ServerName:     firstOr(c.Server.ServerName, "_"),
		ServerPort:     int(c.Server.Port),
		RemoteAddr:     c.Socket.PeerIP(),
		RemotePort:     c.Socket.PeerPort(),
		ServerAddr:     c.Socket.PeerIP(),
		Headers:        c.Request.Headers,
		ContentType:    headerOrEmpty(c.Request.Headers, httpmsg.ContentType),
		ContentLength:  contentLengthString(c.Request),
		UploadStore:    c.Location.UploadStore,
		SessionFile:    sessionFile,
	})

	proc, err := cgi.Start(scriptPath, env, 1<<20)
	if err != nil {
		return c.buildError(500)
	}

	return response.NewCGIResponse(proc, c.Request.BodyMode)
}

func firstOr(list []string, def string) string {
	if len(list) == 0 {
		return def
	}
	return list[0]
}

func headerOrEmpty(h *httpmsg.Headers, k httpmsg.HeaderKey) string {
	v, _ := h.GetEnum(k)
	return v
}

func contentLengthString(r *httpmsg.Request) string {
	if r.BodyMode != httpmsg.ContentLengthMode {
		return ""
	}
	return strconv.FormatInt(r.ContentLength, 10)
}
