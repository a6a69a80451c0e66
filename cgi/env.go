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

// Package cgi runs CGI/1.1 scripts as subprocesses whose stdin/stdout
// are pumped through the same poller as every other descriptor, so a
// slow script never blocks the event loop.
package cgi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nabbar/webserv/httpmsg"
)

// ScriptRequest carries everything Environment needs to build the
// CGI/1.1 meta-variable set for one invocation.
type ScriptRequest struct {
	Method         string
	ScriptFilename string
	ScriptName     string
	PathInfo       string
	PathTranslated string
	Query          string
	ServerName     string
	ServerPort     int
	RemoteAddr     string
	RemotePort     int
	ServerAddr     string
	Headers        *httpmsg.Headers
	ContentType    string
	ContentLength  string
	UploadStore    string
	SessionFile    string
}

// Environment builds the CGI/1.1 meta-variable environment (as
// "KEY=VALUE" strings suitable for exec.Cmd.Env) for req.
func Environment(req ScriptRequest) []string {
	env := []string{
		"SERVER_SOFTWARE=webserv/1.0",
		"SERVER_NAME=" + req.ServerName,
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_PROTOCOL=HTTP/1.1",
		"SERVER_PORT=" + strconv.Itoa(req.ServerPort),
		"REQUEST_METHOD=" + req.Method,
		"PATH_INFO=" + req.PathInfo,
		"PATH_TRANSLATED=" + req.PathTranslated,
		"SCRIPT_FILENAME=" + req.ScriptFilename,
		"SCRIPT_NAME=" + req.ScriptName,
		"QUERY_STRING=" + req.Query,
		"REMOTE_ADDR=" + req.RemoteAddr,
		"REMOTE_PORT=" + strconv.Itoa(req.RemotePort),
		"SERVER_ADDR=" + req.ServerAddr,
		"REDIRECT_STATUS=200",
	}

	if req.ContentType != "" {
		env = append(env, "CONTENT_TYPE="+req.ContentType)
	}
	if req.ContentLength != "" {
		env = append(env, "CONTENT_LENGTH="+req.ContentLength)
	}
	if req.UploadStore != "" {
		env = append(env, "WEBSERV_UPLOAD_STORE="+req.UploadStore)
	}
	if req.SessionFile != "" {
		env = append(env, "HTTP_SESSION_FILE="+req.SessionFile)
	}

	if req.Headers != nil {
		for _, k := range req.Headers.Keys() {
			v, ok := req.Headers.Get(k)
			if !ok {
				continue
			}
			env = append(env, fmt.Sprintf("HTTP_%s=%s", headerEnvName(k), v))
		}
	}

	return env
}

// headerEnvName converts "X-Forwarded-For" into "X_FORWARDED_FOR".
func headerEnvName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
