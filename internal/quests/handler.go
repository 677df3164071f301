// Package quests serves the gamification board: points, level, badges,
// available and completed quests, per-section reward checks and the global
// leaderboard.
package quests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/view"
)

// Sections lists the quest sections the backend can evaluate for rewards.
var Sections = []string{"accounts", "investments", "assets", "savings", "credit", "tracking"}

// Service is the slice of the backend API the quest board needs.
type Service interface {
	Quests(ctx context.Context, email string) (fincoach.QuestsResponse, error)
	Leaderboard(ctx context.Context) ([]fincoach.LeaderboardEntry, error)
	ClaimQuest(ctx context.Context, email string, questID int) (fincoach.ClaimResponse, error)
	CheckQuestSection(ctx context.Context, email, section string) (fincoach.SectionCheckResponse, error)
}

// Handler serves the quest board.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     session.Guard
	service   Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager, guard session.Guard, service Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		templates: templates,
		csrf:      csrf,
		guard:     guard,
		service:   service,
	}
}

// MountRoutes registers quest routes behind the auth guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/quests", h.showBoard)
		r.Post("/quests/{questID}/claim", h.handleClaim)
		r.Post("/quests/check/{section}", h.handleSectionCheck)
	})
}

type pageData struct {
	Points      int
	Level       int
	Badges      []fincoach.Badge
	Sections    []string
	Available   []fincoach.Quest
	Completed   []fincoach.CompletedQuest
	Leaderboard []fincoach.LeaderboardEntry
}

func (h *Handler) showBoard(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := sess.User()

	board, err := h.service.Quests(r.Context(), user.Email)
	if err != nil {
		h.logger.Error("load quest board", slog.String("email", user.Email), slog.Any("error", err))
		http.Error(w, "Unable to load quests right now.", http.StatusBadGateway)
		return
	}

	data := pageData{
		Points:    board.UserPoints,
		Level:     board.UserLevel,
		Badges:    board.UserBadges,
		Sections:  Sections,
		Available: board.AvailableQuests,
		Completed: board.CompletedQuests,
	}
	if data.Level == 0 {
		data.Level = levelForPoints(board.UserPoints)
	}

	leaderboard, err := h.service.Leaderboard(r.Context())
	if err != nil {
		h.logger.Warn("load leaderboard", slog.Any("error", err))
	} else {
		data.Leaderboard = leaderboard
	}

	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Quests",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/quests.html", viewData); err != nil {
		h.logger.Error("render quest board", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := sess.User()

	questID, err := strconv.Atoi(chi.URLParam(r, "questID"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	resp, err := h.service.ClaimQuest(r.Context(), user.Email, questID)
	if err != nil {
		h.logger.Error("claim quest", slog.Int("quest_id", questID), slog.Any("error", err))
		sess.AddFlash(session.FlashMessage{Kind: "error", Message: backendMessage(err, "Could not claim this quest.")})
	} else {
		sess.AddFlash(session.FlashMessage{Kind: "success", Message: fmt.Sprintf("Quest claimed! You now have %d points.", resp.Points)})
	}
	http.Redirect(w, r, "/quests", http.StatusSeeOther)
}

func (h *Handler) handleSectionCheck(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := sess.User()
	section := chi.URLParam(r, "section")

	if !validSection(section) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	resp, err := h.service.CheckQuestSection(r.Context(), user.Email, section)
	if err != nil {
		h.logger.Error("check quest section", slog.String("section", section), slog.Any("error", err))
		sess.AddFlash(session.FlashMessage{Kind: "error", Message: backendMessage(err, "Could not check this section.")})
	} else {
		sess.AddFlash(session.FlashMessage{Kind: "success", Message: checkMessage(resp)})
	}
	http.Redirect(w, r, "/quests", http.StatusSeeOther)
}

// levelForPoints maps total points to a level, one level per 500 points.
func levelForPoints(points int) int {
	return points/500 + 1
}

func validSection(section string) bool {
	for _, s := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

func checkMessage(resp fincoach.SectionCheckResponse) string {
	msg := resp.Message
	if msg == "" {
		msg = "Section checked."
	}
	if resp.PointsAwarded > 0 {
		msg = fmt.Sprintf("%s +%d points", msg, resp.PointsAwarded)
	}
	if resp.Badge != nil {
		msg = fmt.Sprintf("%s New badge: %s", msg, resp.Badge.Name)
	}
	return msg
}

func backendMessage(err error, fallback string) string {
	var apiErr *fincoach.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
