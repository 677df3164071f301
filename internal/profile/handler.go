// Package profile serves the /update pages: the current profile document
// broken into editable sections, each saved independently against the
// backend's section update endpoint.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/view"
)

// Sections the backend accepts on its update endpoint.
const (
	SectionAccounts    = "accounts"
	SectionInvestments = "investments"
	SectionAssets      = "assets"
	SectionJob         = "job"
)

// Service is the slice of the backend API the profile editor needs.
type Service interface {
	UserProfile(ctx context.Context, email string) (fincoach.UserDocument, error)
	UpdateProfile(ctx context.Context, section string, data fincoach.Document) (fincoach.UpdateResponse, error)
}

// Handler serves the profile update pages.
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

// MountRoutes registers profile routes behind the auth guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/update", h.showProfile)
		r.Post("/update/{section}", h.handleSectionUpdate)
	})
}

type pageData struct {
	Doc fincoach.UserDocument
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := sess.User()

	doc, err := h.service.UserProfile(r.Context(), user.Email)
	if err != nil {
		h.logger.Error("load profile", slog.String("email", user.Email), slog.Any("error", err))
		http.Error(w, "Unable to load your profile right now.", http.StatusBadGateway)
		return
	}

	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Update Profile",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        pageData{Doc: doc},
	}
	if err := h.templates.Render(w, "pages/update.html", viewData); err != nil {
		h.logger.Error("render profile", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) handleSectionUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	section := chi.URLParam(r, "section")
	data, ok := sectionPayload(section, r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	sess := session.FromContext(r.Context())
	_ = sess.User()
	if _, err := h.service.UpdateProfile(r.Context(), section, data); err != nil {
		h.logger.Error("update profile section", slog.String("section", section), slog.Any("error", err))
		sess.AddFlash(session.FlashMessage{Kind: "error", Message: backendMessage(err, "Could not save this section. Please try again.")})
	} else {
		sess.AddFlash(session.FlashMessage{Kind: "success", Message: "Profile updated."})
	}
	http.Redirect(w, r, "/update", http.StatusSeeOther)
}

// sectionPayload builds the replacement document for one profile section
// from the submitted form. Unknown sections are rejected.
func sectionPayload(section string, r *http.Request) (fincoach.Document, bool) {
	switch section {
	case SectionAccounts:
		return fincoach.Document{
			"savings_accounts": shared.AccountRows(r.PostForm, "savings_account_bank", "savings_account_balance"),
			"current_accounts": shared.AccountRows(r.PostForm, "current_account_bank", "current_account_balance"),
			"fds":              shared.ParseFloat(r.PostFormValue("fds")),
			"pf":               shared.ParseFloat(r.PostFormValue("pf")),
		}, true
	case SectionInvestments:
		return fincoach.Document{
			"investments": shared.InvestmentRows(r.PostForm),
		}, true
	case SectionAssets:
		return fincoach.Document{
			"assets": shared.AssetRows(r.PostForm),
			"loans":  shared.LoanRows(r.PostForm),
		}, true
	case SectionJob:
		return fincoach.Document{
			"company":          r.PostFormValue("job_company"),
			"designation":      r.PostFormValue("job_designation"),
			"salary":           shared.ParseFloat(r.PostFormValue("job_salary")),
			"years_experience": int(shared.ParseFloat(r.PostFormValue("job_years_experience"))),
		}, true
	default:
		return nil, false
	}
}

func backendMessage(err error, fallback string) string {
	var apiErr *fincoach.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
