package extraction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/app/services/shared/extractionqueue"
	"heartshield-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

const (
	workerLockKey = "extraction:worker:lock"
	workerTick    = 5 * time.Second
	workerLockTTL = 2 * time.Minute
)

// Worker drains the extraction queue and runs the field extractor over the
// referenced documents with at-least-once semantics. One instance holds the
// lock per tick; items within a batch run concurrently.
type Worker struct {
	log       *zap.Logger
	cfg       *config.InternalConfig
	locker    contracts.LockerService
	queue     *extractionqueue.Service
	jobs      contracts.ExtractionJobRepository
	documents contracts.DocumentRepository
	storage   contracts.Storage
	redis     contracts.RedisRepository
	extractor contracts.FieldExtractor
	stop      chan struct{}
}

func NewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	lockerSvc contracts.LockerService,
	queue *extractionqueue.Service,
	jobRepo contracts.ExtractionJobRepository,
	documentRepo contracts.DocumentRepository,
	storage contracts.Storage,
	redisRepo contracts.RedisRepository,
	extractor contracts.FieldExtractor,
) *Worker {
	return &Worker{
		log:       log,
		cfg:       cfg,
		locker:    lockerSvc,
		queue:     queue,
		jobs:      jobRepo,
		documents: documentRepo,
		storage:   storage,
		redis:     redisRepo,
		extractor: extractor,
		stop:      make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
func (w *Worker) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(workerTick)
	stopped := make(chan struct{})

	w.log.Info("extraction.worker: started", zap.Duration("tick", workerTick))

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()

	return func() {
		close(w.stop)
		<-stopped
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	acquired, token, err := w.locker.TryLock(ctx, workerLockKey, workerLockTTL)
	if err != nil {
		w.log.Warn("extraction.worker: lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, workerLockKey, token); err != nil {
			w.log.Error("extraction.worker: unlock failed", zap.Error(err))
		}
	}()

	// Keep the lock alive while a batch of slow OCR jobs runs.
	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(workerLockTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(ctx, workerLockKey, token, workerLockTTL); err != nil {
					w.log.Warn("extraction.worker: lock refresh failed", zap.Error(err))
				}
			}
		}
	}()

	max := w.cfg.Extraction.WorkerCount
	if max <= 0 {
		max = 1
	}
	out, err := w.queue.FetchN(ctx, &extractionqueue.FetchNInput{Max: max})
	if err != nil {
		w.log.Error("extraction.worker: fetch failed", zap.Error(err))
		return
	}
	if len(out.Items) == 0 {
		return
	}

	w.log.Info("extraction.worker: fetched batch", zap.Int("fetched_count", len(out.Items)))

	var wg sync.WaitGroup
	for _, item := range out.Items {
		wg.Add(1)
		go func(item extractionqueue.QueuedItem) {
			defer wg.Done()
			w.processItem(ctx, item)
		}(item)
	}
	wg.Wait()
}

func (w *Worker) processItem(ctx context.Context, item extractionqueue.QueuedItem) {
	msg := item.Message

	timeout := time.Duration(w.cfg.Extraction.JobTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	job, err := w.jobs.FindJobByID(jobCtx, msg.JobID)
	if err != nil {
		w.log.Error("extraction.worker: job lookup failed",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg, nil)
		return
	}
	if job == nil {
		w.log.Warn("extraction.worker: job record missing; moving message to dead queue",
			zap.String(constvars.LoggingJobIDKey, msg.JobID))
		if _, err := w.queue.EnqueueToDeadQueue(ctx, &extractionqueue.EnqueueToDLQInput{Message: msg}); err != nil {
			w.log.Error("extraction.worker: enqueue to dead queue failed",
				zap.String(constvars.LoggingJobIDKey, msg.JobID),
				zap.Error(err))
			return
		}
		w.ack(ctx, item)
		return
	}
	if job.Status.Terminal() {
		w.log.Info("extraction.worker: duplicate delivery for terminal job; dropping",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.String(constvars.LoggingStateKey, string(job.Status)))
		w.ack(ctx, item)
		return
	}

	now := time.Now().UTC()
	job.Status = models.ExtractionStatusRunning
	job.Attempt = msg.FailedCount + 1
	job.StartedAt = &now
	if err := w.jobs.UpdateJob(jobCtx, job); err != nil {
		w.log.Error("extraction.worker: running-state update failed",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg, nil)
		return
	}
	cacheJobStatus(ctx, w.redis, w.cfg.Extraction.StatusCacheTTLInSeconds, w.log, job)

	document, err := w.documents.FindByID(jobCtx, job.DocumentID)
	if err != nil {
		w.log.Error("extraction.worker: document lookup failed",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.String(constvars.LoggingDocumentIDKey, job.DocumentID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg, job)
		return
	}
	if document == nil {
		w.failJob(ctx, job, "document record missing")
		w.ack(ctx, item)
		return
	}

	data, err := w.storage.GetObject(jobCtx, w.cfg.Minio.DocumentBucketName, document.ObjectKey)
	if err != nil {
		w.log.Error("extraction.worker: object fetch failed",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.String(constvars.LoggingDocumentIDKey, job.DocumentID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg, job)
		return
	}

	started := time.Now()
	outcome, err := w.extractor.Extract(jobCtx, data)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			w.log.Warn("extraction.worker: job timed out",
				zap.String(constvars.LoggingJobIDKey, msg.JobID),
				zap.Duration(constvars.LoggingElapsedKey, time.Since(started)))
			w.failJob(ctx, job, ReasonTimedOut)
			w.ack(ctx, item)
			return
		}
		w.log.Error("extraction.worker: extract failed",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.Error(err))
		w.requeueOnError(ctx, item, msg, job)
		return
	}

	w.finishJob(ctx, job, outcome)
	w.ack(ctx, item)
}

// finishJob records the extractor outcome. A run that recovered nothing is
// a failed extraction; anything partial or better succeeds, with the
// diagnostic reason kept for the poll endpoint.
func (w *Worker) finishJob(ctx context.Context, job *models.ExtractionJob, outcome *models.ExtractionOutcome) {
	now := time.Now().UTC()
	job.FinishedAt = &now
	job.DocumentType = outcome.DocumentType
	job.Fields = outcome.Fields
	job.Completeness = outcome.Completeness
	job.RecognizedChars = outcome.RecognizedChars
	job.Reason = outcome.Reason
	if len(outcome.Fields) == 0 {
		job.Status = models.ExtractionStatusFailed
		if job.Reason == "" {
			job.Reason = ReasonNoMedicalFields
		}
	} else {
		job.Status = models.ExtractionStatusSucceeded
	}

	if err := w.jobs.UpdateJob(ctx, job); err != nil {
		w.log.Error("extraction.worker: finished-state update failed; sweeper will rescue",
			zap.String(constvars.LoggingJobIDKey, job.ID),
			zap.Error(err))
		return
	}
	cacheJobStatus(ctx, w.redis, w.cfg.Extraction.StatusCacheTTLInSeconds, w.log, job)

	w.log.Info("extraction.worker: job finished",
		zap.String(constvars.LoggingJobIDKey, job.ID),
		zap.String(constvars.LoggingDocumentIDKey, job.DocumentID),
		zap.String(constvars.LoggingStateKey, string(job.Status)),
		zap.String(constvars.LoggingDocumentTypeKey, string(job.DocumentType)),
		zap.Int("field_count", len(job.Fields)),
		zap.String("completeness", string(job.Completeness)))
}

func (w *Worker) failJob(ctx context.Context, job *models.ExtractionJob, reason string) {
	now := time.Now().UTC()
	job.Status = models.ExtractionStatusFailed
	job.Reason = reason
	job.FinishedAt = &now
	if err := w.jobs.UpdateJob(ctx, job); err != nil {
		w.log.Error("extraction.worker: failed-state update failed",
			zap.String(constvars.LoggingJobIDKey, job.ID),
			zap.Error(err))
		return
	}
	cacheJobStatus(ctx, w.redis, w.cfg.Extraction.StatusCacheTTLInSeconds, w.log, job)
}

// requeueOnError routes a retryable failure: back to the queue tail below
// the retry budget, to the dead queue at or above it. The job record, when
// known, tracks the same transition.
func (w *Worker) requeueOnError(ctx context.Context, item extractionqueue.QueuedItem, msg extractionqueue.ExtractionQueueMessage, job *models.ExtractionJob) {
	msg.FailedCount++
	maxRetry := w.cfg.Extraction.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 3
	}

	if msg.FailedCount >= maxRetry {
		if _, err := w.queue.EnqueueToDeadQueue(ctx, &extractionqueue.EnqueueToDLQInput{Message: msg}); err != nil {
			w.log.Error("extraction.worker: enqueue to dead queue failed",
				zap.String(constvars.LoggingJobIDKey, msg.JobID),
				zap.Error(err))
			return
		}
		if job != nil {
			w.failJob(ctx, job, "extraction failed after repeated attempts")
		}
		w.ack(ctx, item)
		w.log.Warn("extraction.worker: moved job message to dead queue",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.Int("failed_count", msg.FailedCount))
		return
	}

	if job != nil {
		job.Status = models.ExtractionStatusQueued
		if err := w.jobs.UpdateJob(ctx, job); err != nil {
			w.log.Warn("extraction.worker: queued-state update failed",
				zap.String(constvars.LoggingJobIDKey, msg.JobID),
				zap.Error(err))
		} else {
			cacheJobStatus(ctx, w.redis, w.cfg.Extraction.StatusCacheTTLInSeconds, w.log, job)
		}
	}

	if _, err := w.queue.Reenqueue(ctx, &extractionqueue.ReenqueueInput{Message: msg}); err != nil {
		w.log.Error("extraction.worker: reenqueue failed",
			zap.String(constvars.LoggingJobIDKey, msg.JobID),
			zap.Error(err))
		return
	}
	w.ack(ctx, item)
	w.log.Info("extraction.worker: retryable failure; requeued",
		zap.String(constvars.LoggingJobIDKey, msg.JobID),
		zap.Int("failed_count", msg.FailedCount))
}

func (w *Worker) ack(ctx context.Context, item extractionqueue.QueuedItem) {
	if _, err := w.queue.AckMessage(ctx, &extractionqueue.AckMessageInput{DeliveryTag: item.DeliveryTag}); err != nil {
		w.log.Error("extraction.worker: ack failed", zap.Error(err))
	}
}

// cacheJobStatus mirrors the job into Redis so extraction polls skip Mongo.
// Cache misses are harmless; writes are best effort.
func cacheJobStatus(ctx context.Context, redisRepo contracts.RedisRepository, ttlSeconds int, log *zap.Logger, job *models.ExtractionJob) {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		return
	}
	key := fmt.Sprintf(constvars.RedisKeyExtractionStatusFormat, job.DocumentID)
	if err := redisRepo.Set(ctx, key, job, ttl); err != nil {
		log.Warn("extraction: status cache write failed",
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err))
	}
}
