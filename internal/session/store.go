// Package session owns the client-side authentication state: who is signed
// in, the login/signup/logout operations that change that, and the route
// guard deciding which views a session may reach.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
)

// Generic messages shown when the backend call failed without a usable error
// body, or could not complete at all.
const (
	loginFailedMessage  = "Login failed"
	loginRetryMessage   = "Login failed. Please try again."
	signupFailedMessage = "Signup failed"
	signupRetryMessage  = "Signup failed. Please try again."
)

// Result is the structured outcome of a session operation. Failures are
// always reported this way, never as a panic.
type Result struct {
	Success bool
	Error   string
}

// Backend is the slice of the FinCoach API the store depends on.
type Backend interface {
	Login(ctx context.Context, email, password string) (fincoach.LoginResponse, error)
	Signup(ctx context.Context, req fincoach.SignupRequest) error
}

// Store is the single authoritative holder of one client's authentication
// state. A user is present exactly when the most recent Login or Signup
// succeeded and Logout has not since been called. Views read User and
// Loading; only the three operations below mutate state.
type Store struct {
	mu      sync.Mutex
	backend Backend
	user    *User
	loading bool
}

// NewStore returns an unauthenticated store.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// User returns the current user, or nil when unauthenticated. Callers must
// treat the record as read-only.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether a login or signup call is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Login exchanges credentials for a session. On success the user record is
// built from the backend response: the backend-issued id when present
// (PlaceholderUserID otherwise), the display name from the email local part,
// and the returned profile or an empty default.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return failure(err, loginFailedMessage, loginRetryMessage)
	}

	profile := Profile(resp.Profile)
	if profile == nil {
		profile = DefaultProfile()
	}
	id := resp.UserID
	if id == 0 {
		id = PlaceholderUserID
	}

	s.mu.Lock()
	s.user = &User{
		ID:      id,
		Email:   resp.Email,
		Name:    DisplayName(resp.Email),
		Profile: profile,
	}
	s.mu.Unlock()
	return Result{Success: true}
}

// Signup registers a new account and signs the client in. The backend
// returns no user record, so one is synthesized locally from the submitted
// payload with optional fields normalized to empty defaults.
func (s *Store) Signup(ctx context.Context, req fincoach.SignupRequest) Result {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.backend.Signup(ctx, req); err != nil {
		return failure(err, signupFailedMessage, signupRetryMessage)
	}

	s.mu.Lock()
	s.user = &User{
		ID:      PlaceholderUserID,
		Email:   req.Email,
		Name:    DisplayName(req.Email),
		Profile: profileFromSignup(req),
	}
	s.mu.Unlock()
	return Result{Success: true}
}

// Logout clears the user. No network call; calling it on an already empty
// store is a no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// failure maps the two error kinds of the session operations: a backend
// rejection surfaces its literal error string, anything transport-shaped
// gets the generic retry message. The session is left untouched either way.
func failure(err error, fallback, retry string) Result {
	var apiErr *fincoach.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return Result{Error: msg}
	}
	return Result{Error: retry}
}

func profileFromSignup(req fincoach.SignupRequest) Profile {
	return Profile{
		ProfileSalary:          req.Salary,
		ProfileSavings:         []any{},
		ProfileExpenditure:     []any{},
		ProfileSavingsAccounts: orEmptyDocs(req.SavingsAccounts),
		ProfileCurrentAccounts: orEmptyDocs(req.CurrentAccounts),
		ProfileFixedDeposits:   req.FixedDeposits,
		ProfileProvidentFund:   req.ProvidentFund,
		ProfileLoans:           orEmptyDocs(req.Loans),
		ProfileAssets:          orEmptyDocs(req.Assets),
		ProfileInvestments:     orEmptyDocs(req.Investments),
		ProfileJobDetails:      orEmptyDoc(req.JobDetails),
	}
}

func orEmptyDocs(docs []fincoach.Document) []fincoach.Document {
	if docs == nil {
		return []fincoach.Document{}
	}
	return docs
}

func orEmptyDoc(doc fincoach.Document) fincoach.Document {
	if doc == nil {
		return fincoach.Document{}
	}
	return doc
}
