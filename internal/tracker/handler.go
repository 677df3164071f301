// Package tracker serves the monthly savings/expenditure tracker: the entry
// form, insight figures derived from recent months, and the recent-entry
// table.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/view"
)

// Service is the slice of the backend API the tracker needs.
type Service interface {
	TrackerUpdate(ctx context.Context, email string, savings, expenditure float64) (fincoach.TrackerUpdateResponse, error)
	TrackerRecent(ctx context.Context, email string) ([]fincoach.TrackerEntry, error)
}

// Handler serves the tracker page.
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

// MountRoutes registers tracker routes behind the auth guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/tracker", h.showTracker)
		r.Post("/tracker", h.handleSubmit)
	})
}

type entryForm struct {
	Savings     string
	Expenditure string
}

type insights struct {
	SavingsRate       float64
	SavingsChange     float64
	ExpenditureChange float64
	Trend             string
}

type pageData struct {
	Form     entryForm
	Errors   map[string]string
	Insights *insights
	Recent   []fincoach.TrackerEntry
}

func (h *Handler) showTracker(w http.ResponseWriter, r *http.Request) {
	h.renderTracker(w, r, http.StatusOK, pageData{Errors: map[string]string{}})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := entryForm{
		Savings:     r.PostFormValue("savings"),
		Expenditure: r.PostFormValue("expenditure"),
	}
	errs := map[string]string{}

	savings, err := strconv.ParseFloat(form.Savings, 64)
	if err != nil || savings < 0 {
		errs["Savings"] = "Enter a non-negative amount"
	}
	expenditure, err := strconv.ParseFloat(form.Expenditure, 64)
	if err != nil || expenditure < 0 {
		errs["Expenditure"] = "Enter a non-negative amount"
	}

	if len(errs) > 0 {
		h.renderTracker(w, r, http.StatusBadRequest, pageData{Form: form, Errors: errs})
		return
	}

	sess := session.FromContext(r.Context())
	user := sess.User()
	if _, err := h.service.TrackerUpdate(r.Context(), user.Email, savings, expenditure); err != nil {
		h.logger.Error("tracker update", slog.String("email", user.Email), slog.Any("error", err))
		errs["general"] = backendMessage(err, "Could not save this month's entry. Please try again.")
		h.renderTracker(w, r, http.StatusBadRequest, pageData{Form: form, Errors: errs})
		return
	}

	sess.AddFlash(session.FlashMessage{Kind: "success", Message: "Entry saved."})
	http.Redirect(w, r, "/tracker", http.StatusSeeOther)
}

func (h *Handler) renderTracker(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	sess := session.FromContext(r.Context())
	user := sess.User()

	recent, err := h.service.TrackerRecent(r.Context(), user.Email)
	if err != nil {
		h.logger.Warn("load recent entries", slog.String("email", user.Email), slog.Any("error", err))
	} else {
		data.Recent = recent
		data.Insights = computeInsights(recent)
	}

	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Monthly Tracker",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, "pages/tracker.html", viewData); err != nil {
		h.logger.Error("render tracker", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// computeInsights derives month-over-month figures from the recent entries,
// which arrive oldest first. At least two months are needed for the change
// figures; the savings rate only needs the latest month.
func computeInsights(entries []fincoach.TrackerEntry) *insights {
	if len(entries) == 0 {
		return nil
	}
	latest := entries[len(entries)-1]

	out := &insights{}
	if latest.Expenditure != 0 {
		out.SavingsRate = latest.Savings / latest.Expenditure * 100
	}
	if len(entries) >= 2 {
		previous := entries[len(entries)-2]
		out.SavingsChange = latest.Savings - previous.Savings
		out.ExpenditureChange = latest.Expenditure - previous.Expenditure
	}
	if out.SavingsChange >= 0 {
		out.Trend = "increasing"
	} else {
		out.Trend = "decreasing"
	}
	return out
}

func backendMessage(err error, fallback string) string {
	var apiErr *fincoach.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
