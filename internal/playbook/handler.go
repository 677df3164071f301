// Package playbook serves the financial advisor page: a free-form question
// box with suggestion chips, answered by the backend's advice engine.
package playbook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/view"
)

// suggestions are the canned prompts shown as one-click chips.
var suggestions = []string{
	"How can I improve my savings?",
	"Should I pay off my loans early?",
	"How do I build an emergency fund?",
	"Is my investment mix balanced?",
}

// Service is the slice of the backend API the playbook needs.
type Service interface {
	Playbook(ctx context.Context, email, query string) (fincoach.PlaybookResponse, error)
}

// Handler serves the playbook page.
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

// MountRoutes registers playbook routes behind the auth guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/playbook", h.showPlaybook)
		r.Post("/playbook", h.handleQuery)
	})
}

type pageData struct {
	Query       string
	Advice      string
	Suggestions []string
	Errors      map[string]string
}

func (h *Handler) showPlaybook(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageData{Suggestions: suggestions, Errors: map[string]string{}})
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	query := strings.TrimSpace(r.PostFormValue("query"))
	data := pageData{Query: query, Suggestions: suggestions, Errors: map[string]string{}}

	if query == "" {
		data.Errors["general"] = "Please enter a question"
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	sess := session.FromContext(r.Context())
	user := sess.User()
	resp, err := h.service.Playbook(r.Context(), user.Email, query)
	if err != nil {
		h.logger.Error("playbook query", slog.String("email", user.Email), slog.Any("error", err))
		data.Errors["general"] = backendMessage(err, "The advisor is unavailable right now. Please try again.")
		h.render(w, r, http.StatusBadGateway, data)
		return
	}

	data.Advice = resp.Advice
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	sess := session.FromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Financial Playbook",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        sess.User(),
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/playbook.html", viewData); err != nil {
		h.logger.Error("render playbook", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func backendMessage(err error, fallback string) string {
	var apiErr *fincoach.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
