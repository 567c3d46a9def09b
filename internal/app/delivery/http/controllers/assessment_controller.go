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
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AssessmentController struct {
	Log               *zap.Logger
	AssessmentUsecase contracts.AssessmentUsecase
}

var (
	assessmentControllerInstance *AssessmentController
	onceAssessmentController     sync.Once
)

func NewAssessmentController(logger *zap.Logger, assessmentUsecase contracts.AssessmentUsecase) *AssessmentController {
	onceAssessmentController.Do(func() {
		instance := &AssessmentController{
			Log:               logger,
			AssessmentUsecase: assessmentUsecase,
		}
		assessmentControllerInstance = instance
	})
	return assessmentControllerInstance
}

func (ctrl *AssessmentController) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AssessmentController.CreateAssessment requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("AssessmentController.CreateAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	request := new(requests.CreateAssessment)
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		ctrl.Log.Error("AssessmentController.CreateAssessment error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	request.SubjectRef = identity.Subject
	utils.SanitizeCreateAssessmentRequest(request)

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("AssessmentController.CreateAssessment validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	response, err := ctrl.AssessmentUsecase.CreateAssessment(ctx, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateAssessmentSuccessMessage, response)
}

func (ctrl *AssessmentController) FindAssessmentByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AssessmentController.FindAssessmentByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	assessmentID := chi.URLParam(r, constvars.URLParamAssessmentID)
	if err := utils.ValidateUrlParamID(assessmentID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamAssessmentID))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.AssessmentUsecase.FindAssessmentByID(ctx, &requests.FindAssessmentByID{
		AssessmentID: assessmentID,
		SubjectRef:   identity.Subject,
	})
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAssessmentSuccessMessage, response)
}

func (ctrl *AssessmentController) FindAllAssessments(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("AssessmentController.FindAllAssessments requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	identity, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	pagination := utils.BuildPaginationRequest(r)
	request := &requests.FindAllAssessments{
		SubjectRef: identity.Subject,
		Risk:       r.URL.Query().Get(constvars.URLQueryParamRisk),
		Pagination: *pagination,
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, paginationResponse, err := ctrl.AssessmentUsecase.FindAllAssessments(ctx, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ListAssessmentsSuccessMessage, paginationResponse, response)
}
