package contracts

import (
	"context"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/dto/responses"
	"mime/multipart"
)

type DocumentUsecase interface {
	UploadDocument(ctx context.Context, request *requests.UploadDocument, file multipart.File, fileHeader *multipart.FileHeader) (*responses.UploadDocument, error)
	FindDocumentByID(ctx context.Context, request *requests.FindDocumentByID) (*responses.Document, error)
	FindAllDocuments(ctx context.Context, request *requests.FindAllDocuments) ([]responses.Document, *responses.Pagination, error)
	FindExtractionByDocumentID(ctx context.Context, request *requests.FindDocumentByID) (*responses.Extraction, error)
	ReplayExtraction(ctx context.Context, request *requests.FindDocumentByID) (*responses.UploadDocument, error)
}

type DocumentRepository interface {
	CreateDocument(ctx context.Context, document *models.MedicalDocument) (documentID string, err error)
	FindByID(ctx context.Context, documentID string) (*models.MedicalDocument, error)
	FindAllByUploaderRef(ctx context.Context, uploaderRef string, page, pageSize int) ([]models.MedicalDocument, int, error)
}
