package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/domain"
	"github.com/shahyash1136/budgetAPI/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth       *service.AuthService
	Reset      *service.PasswordResetService
	Users      *service.UsersService
	Categories *service.CategoriesService
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &api{
		logger:        logger,
		isProd:        opts.IsProd,
		dbPing:        opts.DBPing,
		authSvc:       opts.Auth,
		resetSvc:      opts.Reset,
		usersSvc:      opts.Users,
		categoriesSvc: opts.Categories,
		loginLimiter:  newLoginLimiter(),
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /healthz", a.handleHealthz)

	if a.authSvc == nil {
		apiMux.HandleFunc("/api/v1/users/", handleNotImplemented)
	} else {
		apiMux.HandleFunc("POST /api/v1/users/signup", a.handleSignup)
		apiMux.HandleFunc("POST /api/v1/users/login", a.handleLogin)
		apiMux.HandleFunc("POST /api/v1/users/forgotpassword", a.handleForgotPassword)
		apiMux.HandleFunc("PATCH /api/v1/users/reset-password", a.handleResetPassword)
		apiMux.HandleFunc("PATCH /api/v1/users/updateMyPassword", a.requireAuth(a.handleUpdatePassword))
		apiMux.HandleFunc("GET /api/v1/users/me", a.requireAuth(a.handleUsersMe))
		apiMux.HandleFunc("PATCH /api/v1/users/me", a.requireAuth(a.handleUsersMeUpdate))
	}

	if a.authSvc != nil && a.categoriesSvc != nil {
		apiMux.HandleFunc("GET /api/v1/categories", a.requireAuth(a.handleCategoriesList))
		apiMux.HandleFunc("GET /api/v1/categories/{id}", a.requireAuth(a.handleCategoriesGet))
		apiMux.HandleFunc("POST /api/v1/categories", a.requireAuth(a.restrictTo(a.handleCategoriesCreate, domain.RoleAdmin)))
		apiMux.HandleFunc("PATCH /api/v1/categories/{id}", a.requireAuth(a.restrictTo(a.handleCategoriesUpdate, domain.RoleAdmin)))
		apiMux.HandleFunc("DELETE /api/v1/categories/{id}", a.requireAuth(a.restrictTo(a.handleCategoriesDelete, domain.RoleAdmin)))
	}

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := apiMux.Handler(r)
		if pattern == "" {
			handleAPINotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc       *service.AuthService
	resetSvc      *service.PasswordResetService
	usersSvc      *service.UsersService
	categoriesSvc *service.CategoriesService

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
