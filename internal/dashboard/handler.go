// Package dashboard renders the /home overview: headline financial metrics,
// the recent savings trend and a savings-vs-expenditure chart built from the
// user's full profile document.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"math"
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

// Service is the slice of the backend API the dashboard needs.
type Service interface {
	Home(ctx context.Context, email string) (fincoach.UserDocument, error)
}

// Handler serves the dashboard page.
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

// MountRoutes registers the dashboard route behind the auth guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireUser)
		r.Get("/home", h.showDashboard)
	})
}

type trendData struct {
	Direction string
	Delta     float64
	Percent   float64
}

type allocationRow struct {
	Label string
	Value float64
}

type pageData struct {
	Name             string
	QuestPoints      int
	BadgeCount       int
	Salary           float64
	TotalBalance     float64
	TotalInvestments float64
	TotalLoans       float64
	Trend            *trendData
	Chart            template.HTML
	Allocation       []allocationRow
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	user := sess.User()

	var doc fincoach.UserDocument
	key := cacheKey(user.Email)
	err := h.cache.FetchJSON(r.Context(), key, h.cacheTTL, &doc, func(ctx context.Context) (any, error) {
		return h.service.Home(ctx, user.Email)
	})
	if err != nil {
		h.logger.Error("load dashboard", slog.String("email", user.Email), slog.Any("error", err))
		http.Error(w, "Unable to load your dashboard right now.", http.StatusBadGateway)
		return
	}

	data := buildPage(user.Name, doc)

	chart, chartErr := renderChart(doc)
	if chartErr != nil {
		h.logger.Warn("render savings chart", slog.Any("error", chartErr))
	} else {
		data.Chart = chart
	}

	csrfToken, _ := h.csrf.EnsureToken(sess)
	viewData := view.TemplateData{
		Title:       "Dashboard",
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		User:        user,
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/home.html", viewData); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func cacheKey(email string) string {
	return "dashboard:" + email
}

func buildPage(name string, doc fincoach.UserDocument) pageData {
	data := pageData{
		Name:        name,
		QuestPoints: doc.Quests.Points,
		BadgeCount:  len(doc.Quests.Badges),
		Salary:      float64(doc.Job.Salary),
	}

	for _, acc := range doc.SavingsAccounts {
		data.TotalBalance += float64(acc.Balance)
	}
	for _, acc := range doc.CurrentAccounts {
		data.TotalBalance += float64(acc.Balance)
	}
	for _, inv := range doc.Investments {
		data.TotalInvestments += float64(inv.Value)
	}
	for _, loan := range doc.Loans {
		data.TotalLoans += float64(loan.Amount)
	}

	data.Trend = savingsTrend(doc.Savings)
	data.Allocation = allocation(doc, data)
	return data
}

// savingsTrend compares the oldest and newest of the last three recorded
// months. Fewer than two entries gives no trend.
func savingsTrend(savings []float64) *trendData {
	if len(savings) < 2 {
		return nil
	}
	recent := savings
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	first := recent[0]
	last := recent[len(recent)-1]
	delta := last - first

	trend := &trendData{Delta: math.Abs(delta)}
	if delta >= 0 {
		trend.Direction = "up"
	} else {
		trend.Direction = "down"
	}
	if first != 0 {
		trend.Percent = math.Abs(delta / first * 100)
	}
	return trend
}

func allocation(doc fincoach.UserDocument, data pageData) []allocationRow {
	var assets float64
	for _, a := range doc.Assets {
		assets += float64(a.Value)
	}
	return []allocationRow{
		{Label: "Bank balances", Value: data.TotalBalance},
		{Label: "Investments", Value: data.TotalInvestments},
		{Label: "Assets", Value: assets},
	}
}

func renderChart(doc fincoach.UserDocument) (template.HTML, error) {
	if len(doc.Savings) == 0 && len(doc.Expenditure) == 0 {
		return "", nil
	}
	months := maxLen(len(doc.Savings), len(doc.Expenditure))
	labels := monthLabels(months)
	return svg.Bars(svg.DefaultWidth, svg.DefaultHeight, padSeries(doc.Savings, months), padSeries(doc.Expenditure, months), labels, svg.BarOpts{
		Title:        "Savings vs Expenditure",
		Description:  "Monthly savings and expenditure in rupees",
		SeriesALabel: "Savings",
		SeriesBLabel: "Expenditure",
	})
}

func monthLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("M%d", i+1)
	}
	return labels
}

// padSeries extends a series with zeros so both chart series cover the same
// months.
func padSeries(series []float64, n int) []float64 {
	if len(series) >= n {
		return series
	}
	padded := make([]float64, n)
	copy(padded, series)
	return padded
}

func maxLen(a, b int) int {
	if a > b {
		return a
	}
	return b
}
