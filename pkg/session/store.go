package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/limphasa/schemectl/pkg/scheme"
)

// ErrNoSession is returned when a credential is requested and nobody is
// logged in.
var ErrNoSession = errors.New("no active session")

// Session is the unit of persisted identity: token pair plus user record.
// Both parts are always present together; a session missing either is not
// a session.
type Session struct {
	Token *oauth2.Token `json:"token"`
	User  *scheme.User  `json:"user"`
}

// Valid reports whether the session carries both a credential and a user
func (s *Session) Valid() bool {
	return s != nil && s.Token != nil && s.Token.AccessToken != "" && s.User != nil
}

// Store holds the current session in memory and mirrors it to a single
// JSON file. All methods are safe for concurrent use.
type Store struct {
	path string

	mu      sync.RWMutex
	current *Session
	nextSub int
	subs    map[int]func(*Session)
}

// NewStore creates a store backed by the given file path and restores
// any session persisted there. A missing, unreadable, or malformed file
// restores to logged out.
func NewStore(path string) *Store {
	s := &Store{
		path: path,
		subs: make(map[int]func(*Session)),
	}
	s.current = readSession(path)
	return s
}

// readSession loads a session from disk, failing open to nil
func readSession(path string) *Session {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil
	}
	if !sess.Valid() {
		return nil
	}
	return &sess
}

// Current returns the active session, or nil when logged out
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// User returns the logged-in user record, or nil when logged out
func (s *Store) User() *scheme.User {
	if sess := s.Current(); sess != nil {
		return sess.User
	}
	return nil
}

// Token implements oauth2.TokenSource. It returns ErrNoSession when
// logged out so callers fail fast instead of sending an anonymous
// request.
func (s *Store) Token() (*oauth2.Token, error) {
	sess := s.Current()
	if !sess.Valid() {
		return nil, ErrNoSession
	}
	return sess.Token, nil
}

// Login stores the token pair and user record as one atomic unit,
// replacing any previous session, and notifies subscribers.
func (s *Store) Login(token *oauth2.Token, user *scheme.User) error {
	sess := &Session{Token: token, User: user}
	if !sess.Valid() {
		return fmt.Errorf("refusing to store partial session")
	}
	if err := s.persist(sess); err != nil {
		return err
	}
	s.set(sess)
	return nil
}

// Logout clears the session unconditionally. Calling it when already
// logged out succeeds silently.
func (s *Store) Logout() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	s.set(nil)
	return nil
}

// Subscribe registers fn to run after every session change, including
// logout (fn receives nil). The returned function unsubscribes.
func (s *Store) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Reload re-reads the session file, picking up changes made by another
// process. Subscribers are only notified when the session actually
// changed.
func (s *Store) Reload() {
	fresh := readSession(s.path)

	s.mu.RLock()
	same := sameSession(s.current, fresh)
	s.mu.RUnlock()
	if same {
		return
	}
	s.set(fresh)
}

// set swaps the in-memory session and notifies subscribers. The swap
// happens before any subscriber runs so a subscriber re-reading the
// store always observes the new state.
func (s *Store) set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	fns := make([]func(*Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// persist writes the session as one record via temp file + rename so a
// crash mid-write cannot leave a torn session on disk.
func (s *Store) persist(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func sameSession(a, b *Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Token.AccessToken != b.Token.AccessToken || a.Token.RefreshToken != b.Token.RefreshToken {
		return false
	}
	return a.User.ID == b.User.ID && a.User.Role == b.User.Role &&
		a.User.Block == b.User.Block && a.User.Section == b.User.Section &&
		a.User.IsApproved == b.User.IsApproved
}
