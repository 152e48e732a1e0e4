package api

import (
	"net/http"
	"time"

	"counsel_hub/internal/api/handler"
	"counsel_hub/internal/api/middleware"
	"counsel_hub/internal/app/service"
	"counsel_hub/internal/common"
	"counsel_hub/internal/common/security"
	"counsel_hub/internal/platform/ratelimit"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterDeps struct {
	AuthService        *service.AuthService
	BlogService        *service.BlogService
	AppointmentService *service.AppointmentService

	Tokens       *security.TokenManager
	DB           handler.Pinger
	APILimiter   ratelimit.Limiter
	LoginLimiter ratelimit.Limiter

	SecureCookie bool
	Log          *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Bearer token from the Authorization header, verified once per request.
	r.Use(middleware.Verifier(d.Tokens))

	r.Get("/health", handler.Health(d.DB))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.RateLimit(d.APILimiter, d.Log))

		authHandler := handler.NewAuthHandler(d.AuthService,
			middleware.RateLimit(d.LoginLimiter, d.Log), d.SecureCookie, d.Log)
		v1.Route("/auth", authHandler.RegisterRoutes)

		blogHandler := handler.NewBlogHandler(d.BlogService, d.Log)
		v1.Route("/blogs", blogHandler.RegisterRoutes)

		appointmentHandler := handler.NewAppointmentHandler(d.AppointmentService, d.Log)
		v1.Route("/appointments", appointmentHandler.RegisterRoutes)
	})

	return r
}
