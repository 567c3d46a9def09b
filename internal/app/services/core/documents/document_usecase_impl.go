package documents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/app/services/shared/extractionqueue"
	"heartshield-service/internal/app/services/shared/ratelimiter"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/dto/responses"
	"heartshield-service/internal/pkg/exceptions"
	"heartshield-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type documentUsecase struct {
	DocumentRepository      contracts.DocumentRepository
	ExtractionJobRepository contracts.ExtractionJobRepository
	Storage                 contracts.Storage
	Queue                   contracts.ExtractionQueue
	RedisRepository         contracts.RedisRepository
	UploadQuota             *ratelimiter.UploadQuota
	InternalConfig          *config.InternalConfig
	Log                     *zap.Logger
}

var (
	documentUsecaseInstance contracts.DocumentUsecase
	onceDocumentUsecase     sync.Once
)

func NewDocumentUsecase(
	documentRepository contracts.DocumentRepository,
	extractionJobRepository contracts.ExtractionJobRepository,
	storage contracts.Storage,
	queue contracts.ExtractionQueue,
	redisRepository contracts.RedisRepository,
	uploadQuota *ratelimiter.UploadQuota,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.DocumentUsecase {
	onceDocumentUsecase.Do(func() {
		instance := &documentUsecase{
			DocumentRepository:      documentRepository,
			ExtractionJobRepository: extractionJobRepository,
			Storage:                 storage,
			Queue:                   queue,
			RedisRepository:         redisRepository,
			UploadQuota:             uploadQuota,
			InternalConfig:          internalConfig,
			Log:                     logger,
		}
		documentUsecaseInstance = instance
	})
	return documentUsecaseInstance
}

// UploadDocument stores the image in object storage, records an immutable
// MedicalDocument, and queues extraction. The response is a 202-style
// acknowledgement; the caller polls the extraction endpoint for the result.
func (uc *documentUsecase) UploadDocument(ctx context.Context, request *requests.UploadDocument, file multipart.File, fileHeader *multipart.FileHeader) (*responses.UploadDocument, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("documentUsecase.UploadDocument called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUploaderRefKey, request.UploaderRef),
		zap.Int64("file_size", fileHeader.Size),
	)

	if err := uc.validateUpload(fileHeader, request.ContentType); err != nil {
		return nil, err
	}

	quota, err := uc.UploadQuota.ApplyUploadQuota(ctx, &ratelimiter.ApplyUploadQuotaInput{
		UploaderRef:       request.UploaderRef,
		WindowDurationSec: 60,
		MaxQuota:          uc.InternalConfig.Documents.UploadsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	if !quota.Allowed {
		return nil, exceptions.ErrDocumentUploadLimitExceeded(nil)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, exceptions.ErrCannotParseMultipartForm(err)
	}
	// The header size is client-supplied; the read bytes are the truth.
	if err := utils.ValidateImageSize(data, uc.InternalConfig.Minio.DocumentMaxUploadSizeInMB); err != nil {
		return nil, exceptions.ErrDocumentFileTooLarge(err)
	}

	checksum := sha256.Sum256(data)
	objectKey := utils.GenerateFileName(
		"document",
		strings.ReplaceAll(request.UploaderRef, "/", "-"),
		strings.ToLower(filepath.Ext(fileHeader.Filename)),
	)

	bucket := uc.InternalConfig.Minio.DocumentBucketName
	if _, err := uc.Storage.UploadObject(ctx, bucket, objectKey, data, request.ContentType); err != nil {
		return nil, err
	}

	document := &models.MedicalDocument{
		UploaderRef:    request.UploaderRef,
		Filename:       fileHeader.Filename,
		ObjectKey:      objectKey,
		ContentType:    request.ContentType,
		SizeBytes:      int64(len(data)),
		ChecksumSHA256: hex.EncodeToString(checksum[:]),
		Notes:          request.Notes,
	}
	document.SetCreatedAtUpdatedAt()

	documentID, err := uc.DocumentRepository.CreateDocument(ctx, document)
	if err != nil {
		return nil, err
	}

	jobID, err := uc.enqueueExtraction(ctx, documentID, request.UploaderRef)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("documentUsecase.UploadDocument accepted",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentIDKey, documentID),
		zap.String(constvars.LoggingJobIDKey, jobID),
	)
	return &responses.UploadDocument{
		DocumentID:      documentID,
		ExtractionJobID: jobID,
		Status:          string(models.ExtractionStatusQueued),
	}, nil
}

func (uc *documentUsecase) FindDocumentByID(ctx context.Context, request *requests.FindDocumentByID) (*responses.Document, error) {
	document, err := uc.findOwnedDocument(ctx, request.DocumentID, request.UploaderRef)
	if err != nil {
		return nil, err
	}

	response := mapDocumentToResponse(document)
	expiry := time.Duration(uc.InternalConfig.Minio.MinioPreSignedUrlObjectExpiryTimeInHours) * time.Hour
	downloadURL, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, uc.InternalConfig.Minio.DocumentBucketName, document.ObjectKey, expiry)
	if err != nil {
		// The metadata is still useful without a download link.
		uc.Log.Warn("documentUsecase.FindDocumentByID presign failed",
			zap.String(constvars.LoggingDocumentIDKey, document.ID),
			zap.Error(err))
	} else {
		response.DownloadURL = downloadURL
	}
	return response, nil
}

func (uc *documentUsecase) FindAllDocuments(ctx context.Context, request *requests.FindAllDocuments) ([]responses.Document, *responses.Pagination, error) {
	documents, total, err := uc.DocumentRepository.FindAllByUploaderRef(ctx, request.UploaderRef, request.Page, request.PageSize)
	if err != nil {
		return nil, nil, err
	}

	mapped := make([]responses.Document, 0, len(documents))
	for i := range documents {
		mapped = append(mapped, *mapDocumentToResponse(&documents[i]))
	}

	baseURL := fmt.Sprintf("/%s", constvars.ResourceDocuments)
	pagination := utils.BuildPaginationResponse(total, request.Page, request.PageSize, baseURL)
	return mapped, pagination, nil
}

// FindExtractionByDocumentID serves the extraction poll. Fresh statuses come
// from the Redis mirror the worker maintains; a cache miss falls through to
// Mongo.
func (uc *documentUsecase) FindExtractionByDocumentID(ctx context.Context, request *requests.FindDocumentByID) (*responses.Extraction, error) {
	if _, err := uc.findOwnedDocument(ctx, request.DocumentID, request.UploaderRef); err != nil {
		return nil, err
	}

	if job := uc.cachedJob(ctx, request.DocumentID); job != nil {
		return mapExtractionJobToResponse(job), nil
	}

	job, err := uc.ExtractionJobRepository.FindLatestJobByDocumentID(ctx, request.DocumentID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, exceptions.ErrExtractionJobNotFound(nil)
	}
	return mapExtractionJobToResponse(job), nil
}

// ReplayExtraction queues a fresh extraction pass over an already stored
// document. Only one pass may be in flight per document.
func (uc *documentUsecase) ReplayExtraction(ctx context.Context, request *requests.FindDocumentByID) (*responses.UploadDocument, error) {
	if _, err := uc.findOwnedDocument(ctx, request.DocumentID, request.UploaderRef); err != nil {
		return nil, err
	}

	latest, err := uc.ExtractionJobRepository.FindLatestJobByDocumentID(ctx, request.DocumentID)
	if err != nil {
		return nil, err
	}
	if latest != nil && !latest.Status.Terminal() {
		return nil, exceptions.ErrExtractionNotReady(nil, string(latest.Status))
	}

	jobID, err := uc.enqueueExtraction(ctx, request.DocumentID, request.UploaderRef)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("documentUsecase.ReplayExtraction queued",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingDocumentIDKey, request.DocumentID),
		zap.String(constvars.LoggingJobIDKey, jobID),
	)
	return &responses.UploadDocument{
		DocumentID:      request.DocumentID,
		ExtractionJobID: jobID,
		Status:          string(models.ExtractionStatusQueued),
	}, nil
}

func (uc *documentUsecase) validateUpload(fileHeader *multipart.FileHeader, contentType string) error {
	maxBytes := int64(uc.InternalConfig.Minio.DocumentMaxUploadSizeInMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return exceptions.ErrDocumentFileTooLarge(nil)
	}

	switch contentType {
	case constvars.MIMEImagePNG, constvars.MIMEImageJPEG, constvars.MIMEImageTIFF, constvars.MIMEImageBMP:
	default:
		return exceptions.ErrDocumentInvalidFileType(fmt.Errorf("content type %q", contentType))
	}

	if err := utils.ValidateImage(fileHeader, int64(uc.InternalConfig.Minio.DocumentMaxUploadSizeInMB)); err != nil {
		return exceptions.ErrImageValidation(err)
	}
	return nil
}

// enqueueExtraction creates the job record first, then publishes; a job
// whose message never made it to the queue is failed as stalled by the
// sweeper and can be replayed.
func (uc *documentUsecase) enqueueExtraction(ctx context.Context, documentID, uploaderRef string) (string, error) {
	job := &models.ExtractionJob{
		DocumentID:  documentID,
		UploaderRef: uploaderRef,
		Status:      models.ExtractionStatusQueued,
	}
	job.SetCreatedAtUpdatedAt()

	jobID, err := uc.ExtractionJobRepository.CreateJob(ctx, job)
	if err != nil {
		return "", err
	}
	job.ID = jobID

	if _, err := uc.Queue.Enqueue(ctx, &extractionqueue.EnqueueInput{
		Message: extractionqueue.ExtractionQueueMessage{
			JobID:       jobID,
			DocumentID:  documentID,
			UploaderRef: uploaderRef,
		},
	}); err != nil {
		return "", err
	}

	uc.cacheJobStatus(ctx, job)
	return jobID, nil
}

func (uc *documentUsecase) findOwnedDocument(ctx context.Context, documentID, uploaderRef string) (*models.MedicalDocument, error) {
	document, err := uc.DocumentRepository.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if document == nil || document.UploaderRef != uploaderRef {
		return nil, exceptions.ErrDocumentNotFound(nil)
	}
	return document, nil
}

func (uc *documentUsecase) cachedJob(ctx context.Context, documentID string) *models.ExtractionJob {
	key := fmt.Sprintf(constvars.RedisKeyExtractionStatusFormat, documentID)
	raw, err := uc.RedisRepository.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var job models.ExtractionJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		uc.Log.Warn("documentUsecase: corrupt status cache entry",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return nil
	}
	return &job
}

func (uc *documentUsecase) cacheJobStatus(ctx context.Context, job *models.ExtractionJob) {
	ttl := time.Duration(uc.InternalConfig.Extraction.StatusCacheTTLInSeconds) * time.Second
	if ttl <= 0 {
		return
	}
	key := fmt.Sprintf(constvars.RedisKeyExtractionStatusFormat, job.DocumentID)
	if err := uc.RedisRepository.Set(ctx, key, job, ttl); err != nil {
		uc.Log.Warn("documentUsecase: status cache write failed",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
	}
}
