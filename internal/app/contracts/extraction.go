package contracts

import (
	"context"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/app/services/shared/extractionqueue"
	"time"
)

// ExtractionQueue is the enqueue side of the durable job queue. The worker
// consumes through the queue service directly; usecases only publish.
type ExtractionQueue interface {
	Enqueue(ctx context.Context, in *extractionqueue.EnqueueInput) (*extractionqueue.EnqueueOutput, error)
}

// FieldExtractor turns document image bytes into a FieldSet. It never fails
// on unreadable content; such documents come back with empty fields and a
// diagnostic reason. An error return means the pipeline itself broke.
type FieldExtractor interface {
	Extract(ctx context.Context, imageData []byte) (*models.ExtractionOutcome, error)
}

// TextRecognizer is the OCR boundary, kept narrow so tests can stub it.
type TextRecognizer interface {
	Recognize(ctx context.Context, imageData []byte) (*models.RecognizedText, error)
	Close() error
}

type ExtractionJobRepository interface {
	CreateJob(ctx context.Context, job *models.ExtractionJob) (jobID string, err error)
	FindJobByID(ctx context.Context, jobID string) (*models.ExtractionJob, error)
	FindLatestJobByDocumentID(ctx context.Context, documentID string) (*models.ExtractionJob, error)
	UpdateJob(ctx context.Context, job *models.ExtractionJob) error
	FindStaleJobs(ctx context.Context, olderThan time.Time, limit int) ([]models.ExtractionJob, error)
}
