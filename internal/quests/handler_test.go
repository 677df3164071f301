package quests

import (
	"context"
	"net/http"
	"net/http/httptest"
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
	board       fincoach.QuestsResponse
	boardErr    error
	claimResp   fincoach.ClaimResponse
	claimErr    error
	checkResp   fincoach.SectionCheckResponse
	checkErr    error
	lastQuestID int
	lastSection string
}

func (s *stubService) Quests(ctx context.Context, email string) (fincoach.QuestsResponse, error) {
	return s.board, s.boardErr
}

func (s *stubService) Leaderboard(ctx context.Context) ([]fincoach.LeaderboardEntry, error) {
	return []fincoach.LeaderboardEntry{{Rank: 1, Name: "a", Points: 900, Level: 2}}, nil
}

func (s *stubService) ClaimQuest(ctx context.Context, email string, questID int) (fincoach.ClaimResponse, error) {
	s.lastQuestID = questID
	return s.claimResp, s.claimErr
}

func (s *stubService) CheckQuestSection(ctx context.Context, email, section string) (fincoach.SectionCheckResponse, error) {
	s.lastSection = section
	return s.checkResp, s.checkErr
}

type stubBackend struct{}

func (stubBackend) Login(ctx context.Context, email, password string) (fincoach.LoginResponse, error) {
	return fincoach.LoginResponse{Email: email, UserID: 1}, nil
}

func (stubBackend) Signup(ctx context.Context, req fincoach.SignupRequest) error { return nil }

func newQuestRouter(t *testing.T, service Service) (http.Handler, *session.Session) {
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
	return r, sess
}

func TestShowBoardRendersQuestsAndLeaderboard(t *testing.T) {
	service := &stubService{board: fincoach.QuestsResponse{
		UserPoints: 750,
		UserLevel:  2,
		UserBadges: []fincoach.Badge{{Name: "Saver", Description: "Saved 3 months in a row"}},
		AvailableQuests: []fincoach.Quest{
			{ID: 4, Title: "Add an investment", Points: 100, MaxProgress: 1},
		},
	}}
	router, _ := newQuestRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/quests", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	for _, want := range []string{"750 points", "Saver", "Add an investment", "Leaderboard"} {
		if !containsFold(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestClaimRedirectsWithFlash(t *testing.T) {
	service := &stubService{claimResp: fincoach.ClaimResponse{Points: 850}}
	router, sess := newQuestRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/quests/5/claim", nil))

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if service.lastQuestID != 5 {
		t.Fatalf("expected claim for quest 5, got %d", service.lastQuestID)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "success" {
		t.Fatalf("expected success flash, got %+v", flash)
	}
}

func TestClaimFailureFlashesBackendMessage(t *testing.T) {
	service := &stubService{claimErr: &fincoach.APIError{Status: 400, Message: "Quest not complete"}}
	router, sess := newQuestRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/quests/9/claim", nil))

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	flash := sess.PopFlash()
	if flash == nil || flash.Kind != "error" || flash.Message != "Quest not complete" {
		t.Fatalf("expected backend message flash, got %+v", flash)
	}
}

func TestSectionCheckValidatesSectionName(t *testing.T) {
	service := &stubService{checkResp: fincoach.SectionCheckResponse{Message: "Badge earned!", PointsAwarded: 50}}
	router, sess := newQuestRouter(t, service)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/quests/check/savings", nil))
	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if service.lastSection != "savings" {
		t.Fatalf("expected savings section, got %q", service.lastSection)
	}
	if flash := sess.PopFlash(); flash == nil || flash.Kind != "success" {
		t.Fatalf("expected success flash, got %+v", flash)
	}

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/quests/check/bogus", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown section, got %d", res.Code)
	}
}

func TestLevelForPoints(t *testing.T) {
	cases := map[int]int{0: 1, 499: 1, 500: 2, 1250: 3}
	for points, want := range cases {
		if got := levelForPoints(points); got != want {
			t.Fatalf("levelForPoints(%d) = %d, want %d", points, got, want)
		}
	}
}

func TestCheckMessageComposition(t *testing.T) {
	msg := checkMessage(fincoach.SectionCheckResponse{
		Message:       "Section complete.",
		PointsAwarded: 50,
		Badge:         &fincoach.Badge{Name: "Investor"},
	})
	for _, want := range []string{"Section complete.", "+50 points", "Investor"} {
		if !containsFold(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
	if got := checkMessage(fincoach.SectionCheckResponse{}); got != "Section checked." {
		t.Fatalf("unexpected default message %q", got)
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
