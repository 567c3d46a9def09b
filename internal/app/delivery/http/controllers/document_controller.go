package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/exceptions"
	"heartshield-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DocumentController struct {
	Log             *zap.Logger
	DocumentUsecase contracts.DocumentUsecase
}

var (
	documentControllerInstance *DocumentController
	onceDocumentController     sync.Once
)

func NewDocumentController(logger *zap.Logger, documentUsecase contracts.DocumentUsecase) *DocumentController {
	onceDocumentController.Do(func() {
		instance := &DocumentController{
			Log:             logger,
			DocumentUsecase: documentUsecase,
		}
		documentControllerInstance = instance
	})
	return documentControllerInstance
}

func (ctrl *DocumentController) UploadDocument(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("DocumentController.UploadDocument requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("DocumentController.UploadDocument called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		ctrl.Log.Error("DocumentController.UploadDocument cannot parse multipart form",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	file, fileHeader, err := r.FormFile("document")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	request := &requests.UploadDocument{
		Notes:       r.FormValue("notes"),
		UploaderRef: identity.Subject,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(constvars.HeaderContentType),
	}
	utils.SanitizeUploadDocumentRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.DocumentUsecase.UploadDocument(ctx, request, file, fileHeader)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.UploadDocumentSuccessMessage, response)
}

func (ctrl *DocumentController) FindDocumentByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("DocumentController.FindDocumentByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	documentID := chi.URLParam(r, constvars.URLParamDocumentID)
	if err := utils.ValidateUrlParamID(documentID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamDocumentID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.DocumentUsecase.FindDocumentByID(ctx, &requests.FindDocumentByID{
		DocumentID:  documentID,
		UploaderRef: identity.Subject,
	})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDocumentSuccessMessage, response)
}

func (ctrl *DocumentController) FindAllDocuments(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("DocumentController.FindAllDocuments requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	pagination := utils.BuildPaginationRequest(r)
	request := &requests.FindAllDocuments{
		UploaderRef: identity.Subject,
		Pagination:  *pagination,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, paginationResponse, err := ctrl.DocumentUsecase.FindAllDocuments(ctx, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ListDocumentsSuccessMessage, paginationResponse, response)
}

func (ctrl *DocumentController) FindExtractionByDocumentID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("DocumentController.FindExtractionByDocumentID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	documentID := chi.URLParam(r, constvars.URLParamDocumentID)
	if err := utils.ValidateUrlParamID(documentID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamDocumentID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.DocumentUsecase.FindExtractionByDocumentID(ctx, &requests.FindDocumentByID{
		DocumentID:  documentID,
		UploaderRef: identity.Subject,
	})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetExtractionSuccessMessage, response)
}

func (ctrl *DocumentController) ReplayExtraction(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("DocumentController.ReplayExtraction requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	documentID := chi.URLParam(r, constvars.URLParamDocumentID)
	if err := utils.ValidateUrlParamID(documentID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamDocumentID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.DocumentUsecase.ReplayExtraction(ctx, &requests.FindDocumentByID{
		DocumentID:  documentID,
		UploaderRef: identity.Subject,
	})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.ReplayExtractionQueuedMessage, response)
}
