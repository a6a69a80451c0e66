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
	"strings"

	"github.com/nabbar/webserv/config"
)

// findCGIScript descends resolvedPath component by component looking
// for the first path prefix that exists as a regular file; everything
// after it becomes PATH_INFO. A directory with a configured index
// tries each index file in turn before descending further.
func findCGIScript(resolvedPath string, loc *config.LocationRule) (script, pathInfo string, found bool) {
	remaining := strings.TrimSuffix(resolvedPath, "/")
	tail := ""

	for remaining != "" && remaining != "." && remaining != "/" {
		info, err := os.Stat(remaining)
		if err == nil {
			if info.Mode().IsRegular() {
				return remaining, tail, true
			}

			if info.IsDir() {
				for _, idx := range loc.Index {
					candidate := remaining + "/" + idx
					if fi, ferr := os.Stat(candidate); ferr == nil && fi.Mode().IsRegular() {
						return candidate, tail, true
					}
				}
			}
		}

		idx := strings.LastIndexByte(remaining, '/')
		if idx < 0 {
			break
		}

		tail = remaining[idx:] + tail
		remaining = remaining[:idx]
	}

	return "", "", false
}
