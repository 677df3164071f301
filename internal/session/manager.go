package session

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FlashMessage is a one-time notification carried on the session.
type FlashMessage struct {
	Kind    string
	Message string
}

// Manager maps browser cookies to per-client session state held in an
// in-process registry. Sessions do not survive a restart: every run of the
// frontend starts unauthenticated.
type Manager struct {
	mu         sync.Mutex
	entries    map[string]*entry
	backend    Backend
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

type entry struct {
	mu        sync.Mutex
	store     *Store
	values    map[string]string
	flashes   []FlashMessage
	expiresAt time.Time
}

// Session is a per-request handle onto one client's state.
type Session struct {
	ID        string
	entry     *entry
	manager   *Manager
	isNew     bool
	destroyed bool
}

// NewManager constructs a Manager. Each new browser session gets its own
// Store backed by the given API.
func NewManager(backend Backend, cookieName string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		entries:    make(map[string]*entry),
		backend:    backend,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		now:        time.Now,
	}
}

// Load resolves the request cookie to an existing session or creates a new
// one. Expired entries are discarded on access.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return m.newSession()
	}

	m.mu.Lock()
	e, ok := m.entries[cookie.Value]
	if ok && m.now().After(e.expiresAt) {
		delete(m.entries, cookie.Value)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		sess := m.newSession()
		return sess
	}
	e.mu.Lock()
	e.expiresAt = m.now().Add(m.ttl)
	e.mu.Unlock()
	return &Session{ID: cookie.Value, entry: e, manager: m}
}

// Commit registers a new session and writes cookie headers as needed. It
// must run before the response body is written.
func (m *Manager) Commit(w http.ResponseWriter, sess *Session) {
	if sess == nil {
		return
	}

	if sess.destroyed {
		m.mu.Lock()
		delete(m.entries, sess.ID)
		m.mu.Unlock()
		http.SetCookie(w, &http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteStrictMode,
		})
		return
	}

	if sess.isNew {
		m.mu.Lock()
		m.entries[sess.ID] = sess.entry
		m.mu.Unlock()
		sess.isNew = false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  m.now().Add(m.ttl),
	})
}

// Destroy marks the session for deletion on commit.
func (m *Manager) Destroy(sess *Session) {
	if sess == nil {
		return
	}
	sess.destroyed = true
}

// Sweep drops expired entries and returns how many were removed. Intended to
// run from a periodic janitor goroutine.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// CookieName returns the cookie identifier used for sessions.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// TTL exposes the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) newSession() *Session {
	return &Session{
		ID: generateSessionID(),
		entry: &entry{
			store:     NewStore(m.backend),
			values:    make(map[string]string),
			expiresAt: m.now().Add(m.ttl),
		},
		manager: m,
		isNew:   true,
	}
}

func generateSessionID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Store returns the session store holding this client's auth state.
func (s *Session) Store() *Store {
	return s.entry.store
}

// User is shorthand for Store().User().
func (s *Session) User() *User {
	return s.entry.store.User()
}

// Set stores a key-value pair on the session.
func (s *Session) Set(key, value string) {
	s.entry.mu.Lock()
	s.entry.values[key] = value
	s.entry.mu.Unlock()
}

// Get retrieves a value.
func (s *Session) Get(key string) string {
	s.entry.mu.Lock()
	defer s.entry.mu.Unlock()
	return s.entry.values[key]
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	s.entry.mu.Lock()
	delete(s.entry.values, key)
	s.entry.mu.Unlock()
}

// AddFlash queues a flash message.
func (s *Session) AddFlash(msg FlashMessage) {
	s.entry.mu.Lock()
	s.entry.flashes = append(s.entry.flashes, msg)
	s.entry.mu.Unlock()
}

// PopFlash retrieves and clears the oldest flash message.
func (s *Session) PopFlash() *FlashMessage {
	s.entry.mu.Lock()
	defer s.entry.mu.Unlock()
	if len(s.entry.flashes) == 0 {
		return nil
	}
	msg := s.entry.flashes[0]
	s.entry.flashes = s.entry.flashes[1:]
	return &msg
}
