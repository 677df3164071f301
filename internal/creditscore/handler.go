// Package creditscore serves the model-predicted credit score view. Scoring
// is expensive on the backend, so results are cached for a day per user;
// the page carries a refresh control that forces a fresh prediction.
package creditscore

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/svg"
	"github.com/rasika1205/FinCoachAI/internal/view"
	"github.com/rasika1205/FinCoachAI/internal/viewcache"
)

// Service is the slice of the backend API the credit score view needs.
type Service interface {
	CreditScore(ctx context.Context, email string) (fincoach.CreditScoreResponse, error)
}

// Handler serves the credit score page.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     session.Guard
	service   Service
	cache     *viewcache.Cache
	cacheTTL  time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, csrf *shared.CSRFManager, guard session.Guard, service Service, cache *viewcache.Cache, cacheTTL time.Duration) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		templates: templates,
		csrf:      csrf,
		guard:     guard,
		service:   service,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// MountRoutes registers the credit score route behind the auth guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/creditscore", h.showScore)
	})
}

type pageData struct {
	Score           int
	Range           string
	Confidence      int
	FromCache       bool
	TrendChart      template.HTML
	Positive        []fincoach.Factor
	Negative        []fincoach.Factor
	Breakdown       []fincoach.BreakdownItem
	Recommendations []fincoach.Recommendation
}

func (h *Handler) showScore(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := sess.User()
	key := cacheKey(user.Email)

	if r.URL.Query().Get("refresh") == "1" {
		if err := h.cache.Invalidate(r.Context(), key); err != nil {
			h.logger.Warn("invalidate cached score", slog.Any("error", err))
		}
	}

	var resp fincoach.CreditScoreResponse
	fetched := false
	err := h.cache.FetchJSON(r.Context(), key, h.cacheTTL, &resp, func(ctx context.Context) (any, error) {
		fetched = true
		return h.service.CreditScore(ctx, user.Email)
	})
	if err != nil {
		h.logger.Error("load credit score", slog.String("email", user.Email), slog.Any("error", err))
		http.Error(w, "Unable to load your credit score right now.", http.StatusBadGateway)
		return
	}

	data := pageData{
		Score:           int(resp.PredictedScore),
		Range:           resp.ScoreRange,
		Confidence:      resp.Confidence,
		FromCache:       !fetched,
		Positive:        resp.Factors.Positive,
		Negative:        resp.Factors.Negative,
		Breakdown:       resp.ScoreBreakdown,
		Recommendations: resp.Recommendations,
	}

	chart, chartErr := renderTrend(resp.HistoricalTrend)
	if chartErr != nil {
		h.logger.Warn("render score trend", slog.Any("error", chartErr))
	} else {
		data.TrendChart = chart
	}

	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Credit Score",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/creditscore.html", viewData); err != nil {
		h.logger.Error("render credit score", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func cacheKey(email string) string {
	return "creditscore:" + email
}

func renderTrend(points []fincoach.TrendPoint) (template.HTML, error) {
	if len(points) == 0 {
		return "", nil
	}
	series := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		series[i] = p.Score
		labels[i] = p.Month
	}
	return svg.Line(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.LineOpts{
		Title:       "Credit Score History",
		Description: "Predicted credit score by month",
		ShowDots:    true,
	})
}
