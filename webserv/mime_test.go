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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"index.html":  "text/html",
		"style.CSS":   "text/css",
		"app.js":      "application/javascript",
		"photo.JPG":   "image/jpeg",
		"archive.bin": "application/octet-stream",
		"noextension": "application/octet-stream",
	}

	for path, want := range cases {
		if got := contentTypeFor(path); got != want {
			t.Errorf("contentTypeFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestListDirectorySortedAndEscaped(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	body, err := listDirectory(dir, "/assets/")
	if err != nil {
		t.Fatalf("listDirectory: %v", err)
	}

	aIdx := strings.Index(body, "a.txt")
	bIdx := strings.Index(body, "b.txt")
	subIdx := strings.Index(body, "sub/")

	if aIdx < 0 || bIdx < 0 || subIdx < 0 {
		t.Fatalf("expected every entry to be listed, got:\n%s", body)
	}
	if !(aIdx < bIdx) {
		t.Fatalf("expected alphabetical ordering, a.txt at %d, b.txt at %d", aIdx, bIdx)
	}
}

func TestListDirectoryMissingPath(t *testing.T) {
	if _, err := listDirectory(filepath.Join(t.TempDir(), "missing"), "/"); err == nil {
		t.Fatal("expected an error for a non-existent directory")
	}
}
