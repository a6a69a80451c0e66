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

package cgi_test

import (
	"testing"

	. "github.com/nabbar/webserv/cgi"
	"github.com/nabbar/webserv/httpmsg"
)

func contains(env []string, kv string) bool {
	for _, e := range env {
		if e == kv {
			return true
		}
	}
	return false
}

func TestEnvironmentCoreVariables(t *testing.T) {
	env := Environment(ScriptRequest{
		Method:         "GET",
		ScriptFilename: "/srv/cgi-bin/report.cgi",
		ScriptName:     "/cgi-bin/report.cgi",
		PathInfo:       "/extra",
		Query:          "x=1",
		ServerName:     "example.com",
		ServerPort:     8080,
		RemoteAddr:     "10.0.0.5",
		RemotePort:     54321,
	})

	want := []string{
		"REQUEST_METHOD=GET",
		"SCRIPT_FILENAME=/srv/cgi-bin/report.cgi",
		"SCRIPT_NAME=/cgi-bin/report.cgi",
		"PATH_INFO=/extra",
		"QUERY_STRING=x=1",
		"SERVER_NAME=example.com",
		"SERVER_PORT=8080",
		"REMOTE_ADDR=10.0.0.5",
		"REMOTE_PORT=54321",
		"GATEWAY_INTERFACE=CGI/1.1",
	}

	for _, kv := range want {
		if !contains(env, kv) {
			t.Errorf("Environment() missing %q in %v", kv, env)
		}
	}
}

func TestEnvironmentOptionalVariablesOmittedWhenEmpty(t *testing.T) {
	env := Environment(ScriptRequest{})

	for _, kv := range env {
		for _, prefix := range []string{"CONTENT_TYPE=", "CONTENT_LENGTH=", "WEBSERV_UPLOAD_STORE=", "HTTP_SESSION_FILE="} {
			if len(kv) >= len(prefix) && kv[:len(prefix)] == prefix {
				t.Errorf("did not expect %q to be set when the field is empty", kv)
			}
		}
	}
}

func TestEnvironmentSessionFileAndHeaders(t *testing.T) {
	h := httpmsg.NewHeaders()
	h.Add("X-Forwarded-For", "203.0.113.1")

	env := Environment(ScriptRequest{
		SessionFile: "/var/sessions/abc123.json",
		ContentType: "application/x-www-form-urlencoded",
		Headers:     h,
	})

	if !contains(env, "HTTP_SESSION_FILE=/var/sessions/abc123.json") {
		t.Errorf("expected HTTP_SESSION_FILE to be set, got %v", env)
	}
	if !contains(env, "CONTENT_TYPE=application/x-www-form-urlencoded") {
		t.Errorf("expected CONTENT_TYPE to be set, got %v", env)
	}
	if !contains(env, "HTTP_X_FORWARDED_FOR=203.0.113.1") {
		t.Errorf("expected a translated HTTP_ header, got %v", env)
	}
}
