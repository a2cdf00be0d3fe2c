package session

import (
	"sync"

	"github.com/amaumene/kioskarr/internal/models"
)

// Session holds the bearer token and the current user of one kiosk session.
// The transport reads it on every call; only the auth gate and ExpireToken write it.
type Session struct {
	mu       sync.RWMutex
	token    string
	user     *models.User
	onExpire []func(user *models.User)
}

// New creates an empty, unauthenticated session
func New() *Session {
	return &Session{}
}

// Token returns the current bearer token, or "" when none is installed
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil when not loaded
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Snapshot returns the token and a copy of its user, read together
func (s *Session) Snapshot() (string, *models.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return s.token, nil
	}
	u := *s.user
	return s.token, &u
}

// SetToken installs a token without a user, as done during session restore
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = nil
}

// SetUser stores the user loaded for the current token
func (s *Session) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

// Set installs a token together with its user
func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = nil
	if user != nil {
		u := *user
		s.user = &u
	}
}

// Clear drops the token and user
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
}

// IsAuthenticated reports whether a token is present and its user is loaded
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the loaded user is an admin
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

// OnExpire registers a listener called after the session has been expired.
// It receives the user the expired token belonged to, nil if none was loaded yet.
func (s *Session) OnExpire(fn func(user *models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = append(s.onExpire, fn)
}

// ExpireToken clears the session if token is still the current one and notifies listeners.
// A rejected call made with an older token does not log out a newer session.
// It reports whether the session was expired.
func (s *Session) ExpireToken(token string) bool {
	s.mu.Lock()
	if token == "" || token != s.token {
		s.mu.Unlock()
		return false
	}
	user := s.user
	s.token = ""
	s.user = nil
	listeners := make([]func(*models.User), len(s.onExpire))
	copy(listeners, s.onExpire)
	s.mu.Unlock()

	for _, fn := range listeners {
		var u *models.User
		if user != nil {
			c := *user
			u = &c
		}
		fn(u)
	}
	return true
}
