// Package auth presents the login and signup forms and drives the session
// store operations behind them.
package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
	"github.com/rasika1205/FinCoachAI/internal/session"
	"github.com/rasika1205/FinCoachAI/internal/shared"
	"github.com/rasika1205/FinCoachAI/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	templates      *view.Engine
	sessionManager *session.Manager
	csrfManager    *shared.CSRFManager
	guard          session.Guard
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, templates *view.Engine, sessions *session.Manager, csrf *shared.CSRFManager, guard session.Guard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		guard:          guard,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. The login and
// signup forms are reverse-gated: a signed-in session never reaches them.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RedirectAuthenticated)
		r.Get("/login", h.showLogin)
		r.Post("/login", h.handleLogin)
		r.Get("/signup", h.showSignup)
		r.Post("/signup", h.handleSignup)
	})
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

type signupForm struct {
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=6"`
	Salary         string `validate:"required"`
	FixedDeposits  string
	ProvidentFund  string
	JobCompany     string
	JobDesignation string
	JobYears       string
}

type signupPageData struct {
	Form   signupForm
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, loginPageData{})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	errs := make(map[string]string)
	if form.Email == "" || form.Password == "" {
		errs["general"] = "Please fill in all fields"
	} else if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs[fieldErr.Field()] = fieldMessage(fieldErr)
		}
	}

	if len(errs) == 0 {
		sess := session.FromContext(r.Context())
		if sess == nil {
			h.logger.Error("session missing during login")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		result := sess.Store().Login(r.Context(), form.Email, form.Password)
		if result.Success {
			sess.AddFlash(session.FlashMessage{Kind: "success", Message: "Login successful!"})
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		errs["general"] = result.Error
	}

	h.renderLogin(w, r, http.StatusBadRequest, loginPageData{Form: form, Errors: errs})
}

func (h *Handler) showSignup(w http.ResponseWriter, r *http.Request) {
	h.renderSignup(w, r, http.StatusOK, signupPageData{})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := signupForm{
		Email:          r.PostFormValue("email"),
		Password:       r.PostFormValue("password"),
		Salary:         r.PostFormValue("salary"),
		FixedDeposits:  r.PostFormValue("fds"),
		ProvidentFund:  r.PostFormValue("pf"),
		JobCompany:     r.PostFormValue("job_company"),
		JobDesignation: r.PostFormValue("job_designation"),
		JobYears:       r.PostFormValue("job_years_experience"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errs[fieldErr.Field()] = fieldMessage(fieldErr)
		}
	}
	salary, salaryErr := strconv.ParseFloat(form.Salary, 64)
	if salaryErr != nil && errs["Salary"] == "" {
		errs["Salary"] = "Salary must be a number"
	}

	if len(errs) == 0 {
		sess := session.FromContext(r.Context())
		if sess == nil {
			h.logger.Error("session missing during signup")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		req := buildSignupRequest(r, form, salary)
		result := sess.Store().Signup(r.Context(), req)
		if result.Success {
			sess.AddFlash(session.FlashMessage{Kind: "success", Message: "Account created successfully!"})
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		errs["general"] = result.Error
	}

	h.renderSignup(w, r, http.StatusBadRequest, signupPageData{Form: form, Errors: errs})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if sess != nil {
		sess.Store().Logout()
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// buildSignupRequest assembles the registration payload. Row collections are
// read from parallel form fields via the shared parsers.
func buildSignupRequest(r *http.Request, form signupForm, salary float64) fincoach.SignupRequest {
	return fincoach.SignupRequest{
		Email:           form.Email,
		Password:        form.Password,
		Salary:          salary,
		Savings:         []float64{},
		Expenditure:     []float64{},
		SavingsAccounts: shared.AccountRows(r.PostForm, "savings_account_bank", "savings_account_balance"),
		CurrentAccounts: shared.AccountRows(r.PostForm, "current_account_bank", "current_account_balance"),
		FixedDeposits:   shared.ParseFloat(form.FixedDeposits),
		ProvidentFund:   shared.ParseFloat(form.ProvidentFund),
		Loans:           shared.LoanRows(r.PostForm),
		Assets:          shared.AssetRows(r.PostForm),
		Investments:     shared.InvestmentRows(r.PostForm),
		JobDetails: fincoach.Document{
			"company":          form.JobCompany,
			"designation":      form.JobDesignation,
			"years_experience": int(shared.ParseFloat(form.JobYears)),
		},
	}
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return "Too short"
	default:
		return "Invalid value"
	}
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPageData) {
	h.renderAuthPage(w, r, status, "pages/login.html", "Sign In", data)
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, status int, data signupPageData) {
	h.renderAuthPage(w, r, status, "pages/signup.html", "Sign Up", data)
}

func (h *Handler) renderAuthPage(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	sess := session.FromContext(r.Context())
	csrfToken := ""
	var flash *session.FlashMessage
	if sess != nil {
		csrfToken, _ = h.csrfManager.EnsureToken(sess)
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render auth page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
