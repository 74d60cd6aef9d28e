package api

import (
	"net/http"
	"time"

	"prepsim/internal/api/handler"
	"prepsim/internal/api/middleware"
	"prepsim/internal/app/service"
	"prepsim/internal/common"
	"prepsim/internal/common/security"
	"prepsim/internal/platform/cache"
	"prepsim/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	simulatorService *service.SimulatorService,
	subjectService *service.SubjectService,
	questionService *service.QuestionService,
	attemptService *service.AttemptService,
	subscriptionService *service.SubscriptionService,
) http.Handler {
	cfg := config.AppConfig
	r := chi.NewRouter()

	// Base middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	r.Use(middleware.RateLimit(cache.RDB, "global", cfg.RateLimitMaxRequests, window))

	// Parses the Authorization header on every request; enforcement
	// happens per route group via middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", func(auth chi.Router) {
			// Login gets a tighter bucket on top of the global limit.
			loginLimiter := middleware.RateLimit(cache.RDB, "login", cfg.RateLimitMaxLogin, window)
			authHandler.RegisterRoutes(auth, loginLimiter)
			auth.Group(func(protected chi.Router) {
				protected.Use(middleware.Authenticator)
				authHandler.RegisterProtectedRoutes(protected)
			})
		})

		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)

			simulatorHandler := handler.NewSimulatorHandler(simulatorService, attemptService)
			protected.Route("/simulators", simulatorHandler.RegisterRoutes)

			subjectHandler := handler.NewSubjectHandler(subjectService, authService)
			protected.Route("/subjects", subjectHandler.RegisterRoutes)

			questionHandler := handler.NewQuestionHandler(questionService)
			protected.Route("/questions", questionHandler.RegisterRoutes)

			attemptHandler := handler.NewAttemptHandler(attemptService, subscriptionService, authService)
			protected.Route("/attempts", attemptHandler.RegisterRoutes)

			subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
			protected.Route("/subscriptions", subscriptionHandler.RegisterRoutes)
		})
	})

	return r
}
