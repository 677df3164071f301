package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rasika1205/FinCoachAI/internal/auth"
	"github.com/rasika1205/FinCoachAI/internal/creditscore"
	"github.com/rasika1205/FinCoachAI/internal/dashboard"
	"github.com/rasika1205/FinCoachAI/internal/observability"
	"github.com/rasika1205/FinCoachAI/internal/playbook"
	"github.com/rasika1205/FinCoachAI/internal/profile"
	"github.com/rasika1205/FinCoachAI/internal/quests"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/tracker"
	"github.com/rasika1205/FinCoachAI/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *session.Manager
	CSRFManager    *shared.CSRFManager
	Guard          session.Guard

	AuthHandler        *auth.Handler
	DashboardHandler   *dashboard.Handler
	TrackerHandler     *tracker.Handler
	QuestsHandler      *quests.Handler
	PlaybookHandler    *playbook.Handler
	CreditScoreHandler *creditscore.Handler
	ProfileHandler     *profile.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with the full route table. Every view
// is registered here; there is no dynamic route discovery.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The root path carries no view of its own: it forwards on user
	// presence alone, as does any unmatched path.
	r.Get("/", params.Guard.Fallback())
	r.NotFound(params.Guard.Fallback())

	params.AuthHandler.MountRoutes(r)
	params.DashboardHandler.MountRoutes(r)
	params.TrackerHandler.MountRoutes(r)
	params.QuestsHandler.MountRoutes(r)
	params.PlaybookHandler.MountRoutes(r)
	params.CreditScoreHandler.MountRoutes(r)
	params.ProfileHandler.MountRoutes(r)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with a one hour Cache-Control
// header for browsers and CDNs.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
