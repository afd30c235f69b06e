package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	// `chi` is a lightweight, idiomatic and composable router for building HTTP services in Go.
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	// `chi/cors` provides CORS (Cross-Origin Resource Sharing) middleware.
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/agency-go/apperror"
	"github.com/user/agency-go/auth"
	"github.com/user/agency-go/config"
	"github.com/user/agency-go/dashboard"
	_ "github.com/user/agency-go/docs" // Registers the Swagger document
	"github.com/user/agency-go/metrics"
	"github.com/user/agency-go/users"
	"github.com/user/agency-go/validation"
)

// routerDeps are the long-lived collaborators the HTTP layer is built from.
type routerDeps struct {
	Config  *config.AppConfig
	Store   auth.CredentialStore
	Counter dashboard.UserCounter
	Metrics *metrics.Metrics
}

// newRouter builds services and handlers and mounts them on a chi router.
// Services are instantiated here and their dependencies injected by hand,
// where Nest.js would use its DI container.
func newRouter(d routerDeps) (http.Handler, error) {
	secret, err := auth.NewSecret(d.Config.Auth.JWTSecret)
	if err != nil {
		return nil, apperror.NewConfigError("invalid signing secret", err)
	}
	tokens := auth.NewTokenManager(secret, *d.Config.Auth)
	hasher := auth.NewBcryptHasher(d.Config.Auth.BcryptCost)
	v := validation.New()

	authHandlers := auth.NewHandlers(
		auth.NewAuthService(d.Store, hasher, tokens, v, d.Metrics),
		auth.NewCookieManager(*d.Config.Cookie),
		d.Metrics,
	)
	userHandlers := users.NewUserHandlers(users.NewUserService(d.Store, v))
	dashboardHandlers := dashboard.NewHandlers(dashboard.NewService(d.Counter))

	r := chi.NewRouter()

	// IMPORTANT: Chi requires all middleware to be registered before any routes
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(recoverJSON)
	if d.Config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.Config.Server.RequestTimeout))
	}
	r.Use(d.Metrics.Middleware)

	// The SPA sends the refresh cookie cross-origin, so credentials must be allowed
	// and the origins must be listed explicitly.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Backend is live"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	// Public session endpoints.
	r.Post("/register", authHandlers.HandleRegister())
	r.Post("/login", authHandlers.HandleLogin())
	r.Post("/refresh-token", authHandlers.HandleRefreshToken())
	r.Post("/logout", authHandlers.HandleLogout())

	// Protected endpoints: the JWT middleware plays the role of a Nest.js AuthGuard.
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(tokens, d.Metrics))

		r.Get("/profile", userHandlers.HandleGetProfile())
		r.Put("/profile", userHandlers.HandleUpdateProfile())
		r.Post("/change-password", authHandlers.HandleChangePassword())
		r.Get("/dashboard", dashboardHandlers.HandleGetDashboard())
	})

	return r, nil
}

// recoverJSON turns a handler panic into a 500 in the usual JSON error shape.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				slog.ErrorContext(r.Context(), "panic recovered",
					"panic", rvr,
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				apperror.WriteJSON(w, http.StatusInternalServerError,
					apperror.NewInternalError("internal server error", nil).ToResponse())
			}
		}()
		next.ServeHTTP(w, r)
	})
}
