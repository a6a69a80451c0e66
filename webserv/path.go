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

	"github.com/nabbar/webserv/config"
	"github.com/nabbar/webserv/fd"
)

// ResolvedPath is the outcome of resolving a request path against a
// matched location: the final on-disk path, whether it names a
// directory, and whether the resolution is valid at all.
type ResolvedPath struct {
	Path        string
	IsDirectory bool
	Valid       bool
}

// ResolvePath implements Path::from_url on a path whose query string
// the caller has already split off: substitute alias or prepend root, reject any path that normalises
// outside of the resolved root, and pick an index file for a
// directory result when one is configured.
func ResolvePath(urlPath string, loc *config.LocationRule) ResolvedPath {
	rest := strings.TrimPrefix(urlPath, loc.Prefix)

	var base, joined string
	if loc.Alias != "" {
		base = loc.Alias
		joined = filepath.Join(base, rest)
	} else {
		base = loc.Root
		joined = filepath.Join(base, urlPath)
	}

	cleanBase := filepath.Clean(base)
	cleanJoined := filepath.Clean(joined)

	if !strings.HasPrefix(cleanJoined, cleanBase) {
		return ResolvedPath{Valid: false}
	}

	info, err := os.Stat(cleanJoined)
	if err != nil {
		return ResolvedPath{Path: cleanJoined, Valid: true, IsDirectory: strings.HasSuffix(urlPath, "/")}
	}

	if !info.IsDir() {
		return ResolvedPath{Path: cleanJoined, Valid: true, IsDirectory: false}
	}

	for _, idx := range loc.Index {
		candidate := filepath.Join(cleanJoined, idx)
		if fi, ferr := os.Stat(candidate); ferr == nil && fi.Mode().IsRegular() {
			return ResolvedPath{Path: candidate, Valid: true, IsDirectory: false}
		}
	}

	return ResolvedPath{Path: cleanJoined, Valid: true, IsDirectory: true}
}

// openErrorPageFile opens path non-blocking for use by a FileResponse,
// returning nil (falling back to the default inline body) on failure.
func openErrorPageFile(path string) *os.File {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil
	}

	if err := fd.SetNonBlocking(int(f.Fd())); err != nil {
		_ = f.Close()
		return nil
	}

	return f
}
