package assessments

import (
	"context"
	"fmt"
	"sync"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/dto/responses"
	"heartshield-service/internal/pkg/exceptions"
	"heartshield-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// assessmentUsecase runs one assessment request through the collecting,
// validating and classifying stages. A run ends complete or failed; there is
// no retry inside the machine. Resubmission by the caller starts a new run.
type assessmentUsecase struct {
	AssessmentRepository    contracts.AssessmentRepository
	DocumentRepository      contracts.DocumentRepository
	ExtractionJobRepository contracts.ExtractionJobRepository
	Classifier              contracts.RiskClassifier
	InternalConfig          *config.InternalConfig
	Log                     *zap.Logger
}

var (
	assessmentUsecaseInstance contracts.AssessmentUsecase
	onceAssessmentUsecase     sync.Once
)

func NewAssessmentUsecase(
	assessmentRepository contracts.AssessmentRepository,
	documentRepository contracts.DocumentRepository,
	extractionJobRepository contracts.ExtractionJobRepository,
	riskClassifier contracts.RiskClassifier,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AssessmentUsecase {
	onceAssessmentUsecase.Do(func() {
		instance := &assessmentUsecase{
			AssessmentRepository:    assessmentRepository,
			DocumentRepository:      documentRepository,
			ExtractionJobRepository: extractionJobRepository,
			Classifier:              riskClassifier,
			InternalConfig:          internalConfig,
			Log:                     logger,
		}
		assessmentUsecaseInstance = instance
	})
	return assessmentUsecaseInstance
}

func (uc *assessmentUsecase) CreateAssessment(ctx context.Context, request *requests.CreateAssessment) (*responses.Assessment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("assessmentUsecase.CreateAssessment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingStateKey, string(models.AssessmentStateCollecting)),
		zap.Int("document_count", len(request.DocumentIDs)),
		zap.Int("manual_reading_count", len(request.Readings)),
	)

	inputs, err := uc.collectExtractedInputs(ctx, request)
	if err != nil {
		return nil, err
	}
	manualIssues := uc.applyManualOverrides(inputs, request.Readings)

	uc.Log.Info("assessmentUsecase.CreateAssessment inputs collected",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingStateKey, string(models.AssessmentStateValidating)),
		zap.Int("input_count", len(inputs)),
	)

	missing, invalid := uc.Classifier.ValidateInputs(inputs)
	invalid = append(manualIssues, invalid...)
	if len(missing) > 0 || len(invalid) > 0 {
		failure := &models.AssessmentFailure{
			Stage:   models.AssessmentStateValidating,
			Message: "required readings are missing or out of range",
			Missing: missing,
			Invalid: invalid,
		}
		uc.persistFailedAssessment(ctx, request, inputs, failure)
		uc.Log.Info("assessmentUsecase.CreateAssessment failed validation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingStateKey, string(models.AssessmentStateFailed)),
			zap.Int("missing_count", len(missing)),
			zap.Int("invalid_count", len(invalid)),
		)
		return nil, exceptions.ErrAssessmentValidation(mapFailureToResponse(failure))
	}

	uc.Log.Info("assessmentUsecase.CreateAssessment validated",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingStateKey, string(models.AssessmentStateClassifying)),
	)

	result, err := uc.Classifier.Classify(ctx, inputs)
	if err != nil {
		// Validation already ran; the classifier rejecting the inputs here is
		// an invariant violation, not a caller mistake.
		failure := &models.AssessmentFailure{
			Stage:   models.AssessmentStateClassifying,
			Message: "classifier rejected validated inputs",
		}
		uc.persistFailedAssessment(ctx, request, inputs, failure)
		return nil, err
	}

	assessment := &models.RiskAssessment{
		SubjectRef:      request.SubjectRef,
		DocumentIDs:     request.DocumentIDs,
		State:           models.AssessmentStateComplete,
		Inputs:          inputs,
		Result:          result,
		Insights:        buildInsights(inputs),
		Recommendations: buildRecommendations(result.Category, inputs),
	}
	assessment.SetCreatedAtUpdatedAt()

	assessmentID, err := uc.AssessmentRepository.CreateAssessment(ctx, assessment)
	if err != nil {
		return nil, err
	}
	assessment.ID = assessmentID

	utils.LogBusinessEvent(uc.Log, "assessment_completed", requestID,
		zap.String(constvars.LoggingAssessmentIDKey, assessmentID),
		zap.String(constvars.LoggingStateKey, string(models.AssessmentStateComplete)),
		zap.String("category", string(result.Category)),
		zap.Float64("probability", result.Probability),
	)
	return mapAssessmentToResponse(assessment), nil
}

func (uc *assessmentUsecase) FindAssessmentByID(ctx context.Context, request *requests.FindAssessmentByID) (*responses.Assessment, error) {
	assessment, err := uc.AssessmentRepository.FindByID(ctx, request.AssessmentID)
	if err != nil {
		return nil, err
	}
	// An assessment that belongs to someone else does not exist as far as
	// this caller is concerned.
	if assessment == nil || assessment.SubjectRef != request.SubjectRef {
		return nil, exceptions.ErrAssessmentNotFound(nil)
	}
	return mapAssessmentToResponse(assessment), nil
}

func (uc *assessmentUsecase) FindAllAssessments(ctx context.Context, request *requests.FindAllAssessments) ([]responses.Assessment, *responses.Pagination, error) {
	assessments, total, err := uc.AssessmentRepository.FindAllBySubjectRef(ctx, request.SubjectRef, request.Risk, request.Page, request.PageSize)
	if err != nil {
		return nil, nil, err
	}

	mapped := make([]responses.Assessment, 0, len(assessments))
	for i := range assessments {
		mapped = append(mapped, *mapAssessmentToResponse(&assessments[i]))
	}

	baseURL := fmt.Sprintf("/%s", constvars.ResourceAssessments)
	pagination := utils.BuildPaginationResponse(total, request.Page, request.PageSize, baseURL)
	return mapped, pagination, nil
}

// collectExtractedInputs seeds the FieldSet from the finished extractions of
// every referenced document. Extracted readings below the configured
// confidence floor are left out so the caller has to confirm them manually.
func (uc *assessmentUsecase) collectExtractedInputs(ctx context.Context, request *requests.CreateAssessment) (models.FieldSet, error) {
	inputs := make(models.FieldSet)
	minConfidence := uc.InternalConfig.Assessment.MinFieldConfidence

	for _, documentID := range request.DocumentIDs {
		document, err := uc.DocumentRepository.FindByID(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if document == nil || document.UploaderRef != request.SubjectRef {
			return nil, exceptions.ErrDocumentNotFound(nil)
		}

		job, err := uc.ExtractionJobRepository.FindLatestJobByDocumentID(ctx, documentID)
		if err != nil {
			return nil, err
		}
		if job == nil || !job.Status.Terminal() {
			return nil, exceptions.ErrAssessmentDocumentNotReady(nil)
		}
		// A failed extraction contributes nothing; the caller supplies the
		// readings manually instead.
		if job.Status != models.ExtractionStatusSucceeded {
			continue
		}

		for _, field := range job.Fields {
			if field.Confidence < minConfidence {
				continue
			}
			inputs.Put(field)
		}
	}
	return inputs, nil
}

// applyManualOverrides writes the caller's readings over anything extracted.
// Overrides always win and carry full confidence. Readings whose unit the
// field does not support are reported, never silently dropped.
func (uc *assessmentUsecase) applyManualOverrides(inputs models.FieldSet, readings []requests.ManualReading) []models.FieldIssue {
	var issues []models.FieldIssue
	for _, reading := range readings {
		if reading.Value == nil {
			continue
		}
		name := models.FieldName(reading.Name)
		canonical, _, ok := models.ToCanonical(name, *reading.Value, reading.Unit)
		if !ok {
			issues = append(issues, models.FieldIssue{
				Name:   name,
				Reason: fmt.Sprintf("unit %q is not supported for this reading", reading.Unit),
			})
			continue
		}
		inputs.Override(models.ExtractedField{
			Name:       name,
			Value:      canonical,
			Unit:       models.CanonicalUnit(name),
			Confidence: 1.0,
			Source:     models.FieldSourceManual,
		})
	}
	return issues
}

// persistFailedAssessment records a failed run for the subject's history.
// Persistence here is best effort; the caller gets the failure detail either
// way.
func (uc *assessmentUsecase) persistFailedAssessment(ctx context.Context, request *requests.CreateAssessment, inputs models.FieldSet, failure *models.AssessmentFailure) {
	assessment := &models.RiskAssessment{
		SubjectRef:  request.SubjectRef,
		DocumentIDs: request.DocumentIDs,
		State:       models.AssessmentStateFailed,
		Inputs:      inputs,
		Failure:     failure,
	}
	assessment.SetCreatedAtUpdatedAt()

	if _, err := uc.AssessmentRepository.CreateAssessment(ctx, assessment); err != nil {
		uc.Log.Warn("assessmentUsecase: failed-run persistence failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
	}
}
