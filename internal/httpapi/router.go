// Package httpapi is the HTTP transport: a chi router, the bearer-token
// middleware and thin handlers over the service layer. The cookie-based
// compatibility endpoints in compat_handlers.go share the same token service
// as the primary API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"taskhub/internal/auth"
	"taskhub/internal/repository"
	"taskhub/internal/service"
	"taskhub/internal/store"
)

// API bundles the dependencies the handlers need.
type API struct {
	tokens   *auth.TokenService
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	authSvc  *service.AuthService
	taskSvc  *service.TaskService
	csrf     store.TokenStore

	cookieName   string
	cookieSecure bool
	corsOrigins  []string
}

type Options struct {
	Tokens       *auth.TokenService
	Users        *repository.UserRepository
	Sessions     *repository.SessionRepository
	Auth         *service.AuthService
	Tasks        *service.TaskService
	CSRFStore    store.TokenStore
	CookieName   string
	CookieSecure bool
	CORSOrigins  []string
}

func New(opts Options) *API {
	if opts.CookieName == "" {
		opts.CookieName = "taskhub"
	}
	if opts.CSRFStore == nil {
		opts.CSRFStore = store.NewMemoryStore()
	}
	return &API{
		tokens:       opts.Tokens,
		users:        opts.Users,
		sessions:     opts.Sessions,
		authSvc:      opts.Auth,
		taskSvc:      opts.Tasks,
		csrf:         opts.CSRFStore,
		cookieName:   opts.CookieName,
		cookieSecure: opts.CookieSecure,
		corsOrigins:  opts.CORSOrigins,
	}
}

// Router builds the full route tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(SecurityHeaders)

	registerLimiter := newIPRateLimiter(5)
	loginLimiter := newIPRateLimiter(10)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to taskhub API"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// Primary auth endpoints.
	r.With(registerLimiter.Middleware).Post("/api/auth/register", a.handleRegister)
	r.With(loginLimiter.Middleware).Post("/api/auth/login", a.handleLogin)

	// Compatibility endpoints: cookie transport over the same token service.
	r.Get("/api/auth/csrf", a.handleCSRF)
	r.Post("/api/auth/csrf", a.handleCSRF)
	r.Post("/api/auth/sign-up/email", a.handleCompatSignUp)
	r.Post("/api/auth/sign-in/email", a.handleCompatSignIn)
	r.Post("/api/auth/sign-out", a.handleCompatSignOut)
	r.Get("/api/auth/session", a.handleCompatSession)

	// Tasks, all owner-scoped.
	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(a.RequireAuth)
		r.Get("/", a.handleListTasks)
		r.Post("/", a.handleCreateTask)
		r.Get("/{id}", a.handleGetTask)
		r.Put("/{id}", a.handleUpdateTask)
		r.Delete("/{id}", a.handleDeleteTask)
		r.Patch("/{id}/toggle", a.handleToggleTask)
	})

	return r
}
