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

package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	liberr "github.com/nabbar/webserv/errors"
)

const (
	ErrGenerate = liberr.MinPkgSession + iota
	ErrPersist
	ErrRecover
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgSession, message)
}

func message(code liberr.CodeError) string {
	switch code {
	case ErrGenerate:
		return "session: id generation failed"
	case ErrPersist:
		return "session: persist failed"
	case ErrRecover:
		return "session: recovery load failed"
	}
	return liberr.NullMessage
}

// recoveryFile is the on-restart recovery file named by the base spec,
// holding (session_id, last_access_time) pairs so a sweep run right
// after restart behaves as if the process had never stopped.
const recoveryFile = "session_manager.sm"

// Store is the in-memory session table backing the whole process; it
// is read and written only from the single request-handling thread,
// so it carries no internal locking need beyond guarding against a
// concurrent Sweep triggered from a timer callback on the same
// goroutine - the mutex exists for defensive symmetry with the rest
// of the ambient stack, not because two goroutines actually race here.
type Store struct {
	mtx      sync.Mutex
	dir      string
	sessions map[string]*Session
}

// NewStore creates a session store persisting under dir, creating it
// if necessary.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, liberr.New(uint16(ErrPersist), message(ErrPersist), err)
	}

	return &Store{dir: dir, sessions: make(map[string]*Session)}, nil
}

// Load repopulates LastAccess times from the recovery file dropped at
// the storage directory's root, so a Sweep immediately after restart
// does not evict everything that was alive before the process died.
func (s *Store) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return liberr.New(uint16(ErrRecover), message(ErrRecover), err)
	}

	var entries []Session
	if err := json.Unmarshal(raw, &entries); err != nil {
		return liberr.New(uint16(ErrRecover), message(ErrRecover), err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i := range entries {
		e := entries[i]
		s.sessions[e.ID] = &e
	}

	return nil
}

// persist rewrites the recovery file with the current session table,
// best-effort: a failure here does not fail the request that
// triggered it.
func (s *Store) persist() {
	entries := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		entries = append(entries, *sess)
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	_ = os.WriteFile(filepath.Join(s.dir, recoveryFile), raw, 0o600)
}

// Get looks up cookie as a session id, returning ok=false if unknown
// or expired. A hit touches the session's LastAccess time.
func (s *Store) Get(cookie string) (Session, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	sess, ok := s.sessions[cookie]
	if !ok {
		return Session{}, false
	}

	if sess.Expired(time.Now()) {
		delete(s.sessions, cookie)
		return Session{}, false
	}

	sess.LastAccess = time.Now()
	return *sess, true
}

// Create allocates a fresh session with a unique id and a backing
// file under the store's directory, lazily created on first request
// per the base spec.
func (s *Store) Create() (Session, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var id string
	for attempts := 0; attempts < 100; attempts++ {
		candidate, err := generateID()
		if err != nil {
			return Session{}, liberr.New(uint16(ErrGenerate), message(ErrGenerate), err)
		}
		if _, taken := s.sessions[candidate]; !taken {
			id = candidate
			break
		}
	}

	if id == "" {
		return Session{}, liberr.New(uint16(ErrGenerate), message(ErrGenerate), nil)
	}

	sess := &Session{
		ID:         id,
		FilePath:   filepath.Join(s.dir, id+".json"),
		LastAccess: time.Now(),
	}

	s.sessions[id] = sess
	s.persist()

	return *sess, nil
}

// Touch refreshes id's LastAccess time if it still exists.
func (s *Store) Touch(id string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.LastAccess = time.Now()
	}
}

// Path returns id's absolute storage file path, or "" if unknown.
func (s *Store) Path(id string) string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.FilePath
	}
	return ""
}

// Sweep evicts every session whose LastAccess exceeds MaxAge,
// piggy-backed on check_hanging_connections rather than owning a
// goroutine of its own.
func (s *Store) Sweep() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := time.Now()
	dirty := false

	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			_ = os.Remove(sess.FilePath)
			dirty = true
		}
	}

	if dirty {
		s.persist()
	}
}
