package playbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	_ "github.com/rasika1205/FinCoachAI/internal/testing/guard"
	"github.com/rasika1205/FinCoachAI/internal/view"
)

type stubService struct {
	advice    string
	err       error
	lastQuery string
}

func (s *stubService) Playbook(ctx context.Context, email, query string) (fincoach.PlaybookResponse, error) {
	s.lastQuery = query
	if s.err != nil {
		return fincoach.PlaybookResponse{}, s.err
	}
	return fincoach.PlaybookResponse{Advice: s.advice}, nil
}

type stubBackend struct{}

func (stubBackend) Login(ctx context.Context, email, password string) (fincoach.LoginResponse, error) {
	return fincoach.LoginResponse{Email: email, UserID: 1}, nil
}

func (stubBackend) Signup(ctx context.Context, req fincoach.SignupRequest) error { return nil }

func newPlaybookRouter(t *testing.T, service Service) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	guard := session.Guard{LoginPath: "/login", DefaultPath: "/home"}
	handler := NewHandler(nil, templates, shared.NewCSRFManager("csrfsecret"), guard, service)

	m := session.NewManager(stubBackend{}, "test_session", time.Hour, false)
	sess := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	if result := sess.Store().Login(context.Background(), "a@b.com", "pw"); !result.Success {
		t.Fatalf("login failed: %q", result.Error)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWith(req.Context(), sess)))
		})
	})
	handler.MountRoutes(r)
	return r
}

func postQuery(query string) *http.Request {
	form := url.Values{}
	form.Set("query", query)
	req := httptest.NewRequest(http.MethodPost, "/playbook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestShowPlaybookRendersSuggestionChips(t *testing.T) {
	router := newPlaybookRouter(t, &stubService{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/playbook", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	for _, chip := range suggestions {
		if !strings.Contains(res.Body.String(), chip) {
			t.Fatalf("expected suggestion %q in body", chip)
		}
	}
}

func TestQueryRendersAdvice(t *testing.T) {
	service := &stubService{advice: "Increase your SIP by 10% and clear the car loan first."}
	router := newPlaybookRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, postQuery("How do I retire early?"))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if service.lastQuery != "How do I retire early?" {
		t.Fatalf("unexpected query %q", service.lastQuery)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Increase your SIP") {
		t.Fatal("expected advice in body")
	}
	if !strings.Contains(body, "How do I retire early?") {
		t.Fatal("expected echoed question in body")
	}
}

func TestEmptyQueryRejected(t *testing.T) {
	service := &stubService{}
	router := newPlaybookRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, postQuery("   "))

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if service.lastQuery != "" {
		t.Fatal("blank query must not reach the backend")
	}
}

func TestAdvisorFailureShowsError(t *testing.T) {
	service := &stubService{err: &fincoach.APIError{Status: 503, Message: "Advisor model warming up"}}
	router := newPlaybookRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, postQuery("Anything"))

	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Advisor model warming up") {
		t.Fatal("expected backend message in body")
	}
}
