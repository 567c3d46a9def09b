package routers

import (
	"fmt"

	"heartshield-service/internal/app/delivery/http/controllers"
	"heartshield-service/internal/app/delivery/http/middlewares"
	"heartshield-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAssessmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, assessmentController *controllers.AssessmentController) {
	assessmentIDPath := fmt.Sprintf("/{%s}", constvars.URLParamAssessmentID)

	router.Use(middlewares.APIKeyAuth)
	router.Use(middlewares.RequireIdentity)

	router.Post("/", assessmentController.CreateAssessment)
	router.Get("/", assessmentController.FindAllAssessments)
	router.Get(assessmentIDPath, assessmentController.FindAssessmentByID)
}
