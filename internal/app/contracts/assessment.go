package contracts

import (
	"context"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/dto/responses"
)

type AssessmentUsecase interface {
	CreateAssessment(ctx context.Context, request *requests.CreateAssessment) (*responses.Assessment, error)
	FindAssessmentByID(ctx context.Context, request *requests.FindAssessmentByID) (*responses.Assessment, error)
	FindAllAssessments(ctx context.Context, request *requests.FindAllAssessments) ([]responses.Assessment, *responses.Pagination, error)
}

type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, assessment *models.RiskAssessment) (assessmentID string, err error)
	FindByID(ctx context.Context, assessmentID string) (*models.RiskAssessment, error)
	FindAllBySubjectRef(ctx context.Context, subjectRef string, risk string, page, pageSize int) ([]models.RiskAssessment, int, error)
}
