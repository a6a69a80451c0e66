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

package response_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/nabbar/webserv/response"
)

func openTempFile(t *testing.T, content string) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "body.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func TestFileResponseStreamsBodyAsChunks(t *testing.T) {
	f := openTempFile(t, "hello from disk")

	sock, r := pipeSocket(t)
	resp := NewFileResponse(200, f, "text/plain", false)

	for i := 0; i < 1000 && !resp.IsFullResponseSent(); i++ {
		resp.HandleSocketWriteTick(sock)
	}
	if !resp.IsFullResponseSent() {
		t.Fatal("response never completed")
	}

	_ = sock.Close()
	resp.Terminate()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if !strings.HasPrefix(string(out), "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("unexpected headers: %q", out)
	}
	if !strings.Contains(string(out), "Transfer-Encoding: chunked\r\n") {
		t.Fatalf("expected chunked transfer encoding, got %q", out)
	}
	if !strings.Contains(string(out), "hello from disk") {
		t.Fatalf("expected the file contents to appear, got %q", out)
	}
	if !strings.HasSuffix(string(out), "0\r\n\r\n") {
		t.Fatalf("expected a final zero chunk, got %q", out)
	}
}

func TestFileResponseEmptyFile(t *testing.T) {
	f := openTempFile(t, "")

	sock, r := pipeSocket(t)
	resp := NewFileResponse(204, f, "", false)

	for i := 0; i < 1000 && !resp.IsFullResponseSent(); i++ {
		resp.HandleSocketWriteTick(sock)
	}
	if !resp.IsFullResponseSent() {
		t.Fatal("response never completed for an empty file")
	}

	_ = sock.Close()
	resp.Terminate()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !strings.HasSuffix(string(out), "0\r\n\r\n") {
		t.Fatalf("expected just the final chunk for an empty body, got %q", out)
	}
}
