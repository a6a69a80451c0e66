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

// Package session implements the cookie-bound, disk-persisted session
// store: a client is identified by a random 32-character id carried in
// the webservSessionId cookie, and a session's only durable artifact
// is the absolute path CGI scripts receive as HTTP_SESSION_FILE.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie the client carries its session id in.
const CookieName = "webservSessionId"

// IDLength is the length of a generated session id.
const IDLength = 32

// MaxAge bounds both the Set-Cookie Max-Age and how long a session
// may go unused before a sweep reclaims it.
const MaxAge = 24 * time.Hour

// Session is one client's server-side state: its id, the absolute
// path of its on-disk storage file, and the last time it was touched.
type Session struct {
	ID         string    `json:"id"`
	FilePath   string    `json:"file_path"`
	LastAccess time.Time `json:"last_access"`
}

// Expired reports whether the session has gone unused longer than
// MaxAge as of now.
func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.LastAccess) > MaxAge
}

// generateID produces an IDLength-character alphanumeric id: a
// version-4 UUID with its hyphens stripped, satisfying the base
// spec's "32-character alphanumeric" generator contract without a
// hand-rolled random-string routine.
func generateID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	id := strings.ReplaceAll(u.String(), "-", "")
	if len(id) != IDLength {
		id = id[:IDLength]
	}

	return id, nil
}
