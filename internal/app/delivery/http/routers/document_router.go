package routers

import (
	"fmt"

	"heartshield-service/internal/app/delivery/http/controllers"
	"heartshield-service/internal/app/delivery/http/middlewares"
	"heartshield-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachDocumentRoutes(router chi.Router, middlewares *middlewares.Middlewares, documentController *controllers.DocumentController) {
	documentIDPath := fmt.Sprintf("/{%s}", constvars.URLParamDocumentID)

	router.Use(middlewares.APIKeyAuth)
	router.Use(middlewares.RequireIdentity)

	router.Post("/", documentController.UploadDocument)
	router.Get("/", documentController.FindAllDocuments)
	router.Get(documentIDPath, documentController.FindDocumentByID)
	router.Get(documentIDPath+"/extraction", documentController.FindExtractionByDocumentID)
	router.Post(documentIDPath+"/extraction", documentController.ReplayExtraction)
}
