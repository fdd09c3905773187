package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/middleware/metrics"
	"github.com/Roger0222/dandelion/internal/setup"
	"github.com/Roger0222/dandelion/web"
)

// New mounts every page, the JSON API and the operational endpoints under the
// configured base path.
// IMPORTANT! the auth limiter is shared, so login and register POSTs draw from one bucket per IP.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeadersWithCSP(deps.Public.SecureCookies, middleware.FrontendCSP))

	base := deps.Routes.Base()
	if base == "/" {
		mount(r, deps)
	} else {
		r.Route(base, func(r chi.Router) { mount(r, deps) })
	}
	return r
}

func mount(r chi.Router, deps *setup.Dependencies) {
	h := deps.Handler
	authMw := deps.AuthMiddleware
	limitAuth := middleware.RateLimit(deps.AuthLimiter, middleware.GetIP)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix(deps.Routes.Static()+"/", http.FileServer(http.FS(web.Static()))))

	// Browser pages: form posts carry the double-submit CSRF token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.GenerateCSRFToken(middleware.CSRFConfig{
			SecureCookies: deps.Public.SecureCookies,
			Path:          deps.Routes.Base(),
		}))
		r.Use(middleware.ValidateCSRFToken())

		r.With(authMw.RedirectIfSession(deps.Routes.App())).Get("/", h.LoginGetHandler)
		r.With(limitAuth).Post("/", h.LoginPostHandler)

		r.Get("/register", h.RegisterGetHandler)
		r.With(limitAuth).Post("/register", h.RegisterPostHandler)
		r.Post("/register/confirm", h.RegisterConfirmHandler)
		r.Post("/register/cancel", h.RegisterCancelHandler)

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedSession())
			r.Get("/app", h.AppHandler)
			r.Get("/app/*", h.AppHandler)
			r.Post("/app/logout", h.LogoutHandler)
		})
	})

	// JSON API for the mobile shell: bearer tokens, no cookies, so no CSRF.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.Public.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))

		r.With(limitAuth).Post("/auth/login", h.APILogin)
		r.With(authMw.NeedSessionAPI()).Post("/auth/logout", h.APILogout)

		r.With(limitAuth).Post("/register", h.APIRegister)
		r.Post("/register/{id}", h.APIResubmit)
		r.Post("/register/{id}/confirm", h.APIRegisterConfirm)
		r.Post("/register/{id}/cancel", h.APIRegisterCancel)
	})
}
