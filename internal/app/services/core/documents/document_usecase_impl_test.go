package documents

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/app/services/shared/extractionqueue"
	"heartshield-service/internal/app/services/shared/ratelimiter"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeFile struct{ *bytes.Reader }

func (fakeFile) Close() error { return nil }

type fakeDocumentRepo struct {
	created   []*models.MedicalDocument
	documents map[string]*models.MedicalDocument
}

func (f *fakeDocumentRepo) CreateDocument(_ context.Context, document *models.MedicalDocument) (string, error) {
	f.created = append(f.created, document)
	return fmt.Sprintf("doc-%d", len(f.created)), nil
}

func (f *fakeDocumentRepo) FindByID(_ context.Context, documentID string) (*models.MedicalDocument, error) {
	return f.documents[documentID], nil
}

func (f *fakeDocumentRepo) FindAllByUploaderRef(_ context.Context, uploaderRef string, _, _ int) ([]models.MedicalDocument, int, error) {
	var matched []models.MedicalDocument
	for _, document := range f.documents {
		if document.UploaderRef == uploaderRef {
			matched = append(matched, *document)
		}
	}
	return matched, len(matched), nil
}

type fakeJobRepo struct {
	created []*models.ExtractionJob
	latest  map[string]*models.ExtractionJob
}

func (f *fakeJobRepo) CreateJob(_ context.Context, job *models.ExtractionJob) (string, error) {
	f.created = append(f.created, job)
	return fmt.Sprintf("job-%d", len(f.created)), nil
}

func (f *fakeJobRepo) FindJobByID(_ context.Context, _ string) (*models.ExtractionJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) FindLatestJobByDocumentID(_ context.Context, documentID string) (*models.ExtractionJob, error) {
	return f.latest[documentID], nil
}

func (f *fakeJobRepo) UpdateJob(_ context.Context, _ *models.ExtractionJob) error { return nil }

func (f *fakeJobRepo) FindStaleJobs(_ context.Context, _ time.Time, _ int) ([]models.ExtractionJob, error) {
	return nil, nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func (f *fakeStorage) UploadObject(_ context.Context, _, objectName string, data []byte, _ string) (string, error) {
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[objectName] = data
	return objectName, nil
}

func (f *fakeStorage) GetObject(_ context.Context, _, objectName string) ([]byte, error) {
	return f.objects[objectName], nil
}

func (f *fakeStorage) GetObjectUrlWithExpiryTime(_ context.Context, _, objectName string, _ time.Duration) (string, error) {
	return "https://storage.local/" + objectName, nil
}

type fakeQueue struct {
	published []extractionqueue.ExtractionQueueMessage
}

func (f *fakeQueue) Enqueue(_ context.Context, in *extractionqueue.EnqueueInput) (*extractionqueue.EnqueueOutput, error) {
	f.published = append(f.published, in.Message)
	return &extractionqueue.EnqueueOutput{}, nil
}

type fakeRedis struct {
	values map[string]string
	counts map[string]int
}

func (f *fakeRedis) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = string(raw)
	return nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeRedis) IncrementWithTTL(_ context.Context, key string, _ time.Duration) (int, error) {
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRedis) TrySetNX(_ context.Context, _ string, _ interface{}, _ time.Duration) (bool, error) {
	return true, nil
}

type usecaseFixture struct {
	uc      *documentUsecase
	docs    *fakeDocumentRepo
	jobs    *fakeJobRepo
	storage *fakeStorage
	queue   *fakeQueue
	redis   *fakeRedis
}

func newFixture() *usecaseFixture {
	docs := &fakeDocumentRepo{documents: map[string]*models.MedicalDocument{}}
	jobs := &fakeJobRepo{latest: map[string]*models.ExtractionJob{}}
	storage := &fakeStorage{}
	queue := &fakeQueue{}
	redis := &fakeRedis{}
	log := zap.NewNop()

	cfg := &config.InternalConfig{
		Minio: config.AppMinio{
			DocumentBucketName:                       "documents",
			DocumentMaxUploadSizeInMB:                10,
			MinioPreSignedUrlObjectExpiryTimeInHours: 1,
		},
		Documents:  config.AppDocuments{UploadsPerMinute: 5},
		Extraction: config.AppExtraction{StatusCacheTTLInSeconds: 60},
	}

	return &usecaseFixture{
		uc: &documentUsecase{
			DocumentRepository:      docs,
			ExtractionJobRepository: jobs,
			Storage:                 storage,
			Queue:                   queue,
			RedisRepository:         redis,
			UploadQuota:             ratelimiter.NewUploadQuota(redis, log, 0),
			InternalConfig:          cfg,
			Log:                     log,
		},
		docs:    docs,
		jobs:    jobs,
		storage: storage,
		queue:   queue,
		redis:   redis,
	}
}

func uploadArgs(content []byte, filename, contentType string) (*requests.UploadDocument, multipart.File, *multipart.FileHeader) {
	request := &requests.UploadDocument{
		UploaderRef: "Patient/123",
		Filename:    filename,
		ContentType: contentType,
	}
	file := fakeFile{bytes.NewReader(content)}
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(content)),
	}
	return request, file, header
}

func TestUploadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted Upload Stores Queues And Acknowledges", func(t *testing.T) {
		fx := newFixture()
		content := []byte("fake png bytes")
		request, file, header := uploadArgs(content, "scan.png", constvars.MIMEImagePNG)

		response, err := fx.uc.UploadDocument(ctx, request, file, header)

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", response.DocumentID)
		assert.Equal(t, "job-1", response.ExtractionJobID)
		assert.Equal(t, string(models.ExtractionStatusQueued), response.Status)

		assert.Len(t, fx.docs.created, 1)
		stored := fx.docs.created[0]
		checksum := sha256.Sum256(content)
		assert.Equal(t, hex.EncodeToString(checksum[:]), stored.ChecksumSHA256)
		assert.Equal(t, "Patient/123", stored.UploaderRef)
		assert.Equal(t, int64(len(content)), stored.SizeBytes)

		assert.Len(t, fx.storage.objects, 1, "image bytes should land in object storage")
		assert.Len(t, fx.queue.published, 1, "one extraction message should be published")
		assert.Equal(t, "doc-1", fx.queue.published[0].DocumentID)
		assert.Equal(t, "job-1", fx.queue.published[0].JobID)
	})

	t.Run("Oversized File Is Rejected", func(t *testing.T) {
		fx := newFixture()
		request, file, header := uploadArgs([]byte("x"), "scan.png", constvars.MIMEImagePNG)
		header.Size = 11 * 1024 * 1024

		_, err := fx.uc.UploadDocument(ctx, request, file, header)

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 413, customErr.StatusCode)
		assert.Empty(t, fx.queue.published)
	})

	t.Run("Understated Header Size Is Caught On Read", func(t *testing.T) {
		fx := newFixture()
		request, file, header := uploadArgs(make([]byte, 11*1024*1024), "scan.png", constvars.MIMEImagePNG)
		header.Size = 100

		_, err := fx.uc.UploadDocument(ctx, request, file, header)

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 413, customErr.StatusCode)
		assert.Empty(t, fx.storage.objects, "nothing should reach object storage")
		assert.Empty(t, fx.queue.published)
	})

	t.Run("Non Image Content Type Is Rejected", func(t *testing.T) {
		fx := newFixture()
		request, file, header := uploadArgs([]byte("%PDF-1.4"), "report.pdf", "application/pdf")

		_, err := fx.uc.UploadDocument(ctx, request, file, header)

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 415, customErr.StatusCode)
	})

	t.Run("Upload Quota Is Enforced Per Uploader", func(t *testing.T) {
		fx := newFixture()

		for i := 0; i < 5; i++ {
			request, file, header := uploadArgs([]byte("fake png bytes"), "scan.png", constvars.MIMEImagePNG)
			_, err := fx.uc.UploadDocument(ctx, request, file, header)
			assert.NoError(t, err, "upload %d should be within quota", i+1)
		}

		request, file, header := uploadArgs([]byte("fake png bytes"), "scan.png", constvars.MIMEImagePNG)
		_, err := fx.uc.UploadDocument(ctx, request, file, header)

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 429, customErr.StatusCode)
	})
}

func TestFindDocumentByID(t *testing.T) {
	ctx := context.Background()

	fx := newFixture()
	fx.docs.documents["doc-1"] = &models.MedicalDocument{
		ID: "doc-1", UploaderRef: "Patient/123", Filename: "scan.png", ObjectKey: "document-scan-1.png",
	}

	t.Run("Owner Can Read", func(t *testing.T) {
		response, err := fx.uc.FindDocumentByID(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/123",
		})
		assert.NoError(t, err)
		assert.Equal(t, "doc-1", response.DocumentID)
		assert.Equal(t, "https://storage.local/document-scan-1.png", response.DownloadURL,
			"metadata should carry a presigned download link")
	})

	t.Run("Other Uploader Gets Not Found", func(t *testing.T) {
		_, err := fx.uc.FindDocumentByID(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/999",
		})
		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 404, customErr.StatusCode)
	})
}

func TestFindExtractionByDocumentID(t *testing.T) {
	ctx := context.Background()

	t.Run("Served From Status Cache When Fresh", func(t *testing.T) {
		fx := newFixture()
		fx.docs.documents["doc-1"] = &models.MedicalDocument{ID: "doc-1", UploaderRef: "Patient/123"}

		cached := &models.ExtractionJob{ID: "job-9", DocumentID: "doc-1", Status: models.ExtractionStatusRunning}
		key := fmt.Sprintf(constvars.RedisKeyExtractionStatusFormat, "doc-1")
		assert.NoError(t, fx.redis.Set(ctx, key, cached, time.Minute))

		response, err := fx.uc.FindExtractionByDocumentID(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "job-9", response.JobID)
		assert.Equal(t, string(models.ExtractionStatusRunning), response.Status)
	})

	t.Run("Cache Miss Falls Through To Store", func(t *testing.T) {
		fx := newFixture()
		fx.docs.documents["doc-1"] = &models.MedicalDocument{ID: "doc-1", UploaderRef: "Patient/123"}
		fx.jobs.latest["doc-1"] = &models.ExtractionJob{ID: "job-2", DocumentID: "doc-1", Status: models.ExtractionStatusSucceeded}

		response, err := fx.uc.FindExtractionByDocumentID(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "job-2", response.JobID)
	})

	t.Run("No Job At All Is Not Found", func(t *testing.T) {
		fx := newFixture()
		fx.docs.documents["doc-1"] = &models.MedicalDocument{ID: "doc-1", UploaderRef: "Patient/123"}

		_, err := fx.uc.FindExtractionByDocumentID(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/123",
		})

		assert.Error(t, err)
	})
}

func TestReplayExtraction(t *testing.T) {
	ctx := context.Background()

	t.Run("Terminal Job Allows Replay", func(t *testing.T) {
		fx := newFixture()
		fx.docs.documents["doc-1"] = &models.MedicalDocument{ID: "doc-1", UploaderRef: "Patient/123"}
		fx.jobs.latest["doc-1"] = &models.ExtractionJob{ID: "job-1", DocumentID: "doc-1", Status: models.ExtractionStatusFailed}

		response, err := fx.uc.ReplayExtraction(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/123",
		})

		assert.NoError(t, err)
		assert.Equal(t, string(models.ExtractionStatusQueued), response.Status)
		assert.Len(t, fx.queue.published, 1)
	})

	t.Run("In Flight Job Blocks Replay", func(t *testing.T) {
		fx := newFixture()
		fx.docs.documents["doc-1"] = &models.MedicalDocument{ID: "doc-1", UploaderRef: "Patient/123"}
		fx.jobs.latest["doc-1"] = &models.ExtractionJob{ID: "job-1", DocumentID: "doc-1", Status: models.ExtractionStatusRunning}

		_, err := fx.uc.ReplayExtraction(ctx, &requests.FindDocumentByID{
			DocumentID:  "doc-1",
			UploaderRef: "Patient/123",
		})

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 409, customErr.StatusCode)
		assert.Empty(t, fx.queue.published)
	})
}
