package routers

import (
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/delivery/http/controllers"
	"heartshield-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	healthController *controllers.HealthController,
	documentController *controllers.DocumentController,
	assessmentController *controllers.AssessmentController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Get("/health", healthController.HealthCheck)

		r.Route("/documents", func(r chi.Router) {
			attachDocumentRoutes(r, middlewares, documentController)
		})

		r.Route("/assessments", func(r chi.Router) {
			attachAssessmentRoutes(r, middlewares, assessmentController)
		})
	})
}
