package ratelimiter

import (
	"context"
	"fmt"
	"heartshield-service/internal/app/contracts"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// UploadQuota is a fixed-window limiter for document uploads, keyed by the
// uploading patient reference. The window counter lives in Redis with a TTL
// equal to the window duration, so limits hold across service instances. A
// process-local token bucket in front of Redis absorbs bursts before they
// cost a round trip.
type UploadQuota struct {
	redis contracts.RedisRepository
	log   *zap.Logger
	burst *rate.Limiter
}

// NewUploadQuota constructs an UploadQuota. burst <= 0 disables the local
// token bucket.
func NewUploadQuota(redis contracts.RedisRepository, log *zap.Logger, burst int) *UploadQuota {
	q := &UploadQuota{redis: redis, log: log}
	if burst > 0 {
		q.burst = rate.NewLimiter(rate.Limit(burst), burst)
	}
	return q
}

// ApplyUploadQuotaInput configures limiter evaluation.
type ApplyUploadQuotaInput struct {
	// UploaderRef is the patient reference whose uploads are counted.
	UploaderRef string
	// WindowDurationSec defines the fixed window length in seconds.
	WindowDurationSec int
	// MaxQuota is the max number of uploads allowed within the window.
	MaxQuota int
	// NowUTC is optional; if zero, time.Now().UTC() is used (useful for tests).
	NowUTC time.Time
}

// ApplyUploadQuotaOutput reports allowance and retry-after seconds.
type ApplyUploadQuotaOutput struct {
	Allowed        bool
	RetryAfterSecs int
}

// ApplyUploadQuota enforces the fixed-window limit for one uploader.
// It returns Allowed=false with RetryAfterSecs until the next window boundary
// when the quota is exceeded.
func (l *UploadQuota) ApplyUploadQuota(ctx context.Context, in *ApplyUploadQuotaInput) (*ApplyUploadQuotaOutput, error) {
	if in == nil {
		return &ApplyUploadQuotaOutput{Allowed: false, RetryAfterSecs: 0}, fmt.Errorf("nil input")
	}

	uploader := strings.ToLower(strings.TrimSpace(in.UploaderRef))
	windowSec := in.WindowDurationSec
	maxQuota := in.MaxQuota
	if windowSec <= 0 {
		windowSec = 60
	}
	if maxQuota <= 0 {
		return &ApplyUploadQuotaOutput{Allowed: true}, nil
	}

	if uploader == "" {
		return &ApplyUploadQuotaOutput{Allowed: false, RetryAfterSecs: windowSec}, nil
	}

	if l.burst != nil && !l.burst.Allow() {
		return &ApplyUploadQuotaOutput{Allowed: false, RetryAfterSecs: 1}, nil
	}

	now := in.NowUTC
	if now.IsZero() {
		now = time.Now().UTC()
	}

	windowID := now.Unix() / int64(windowSec)
	key := fmt.Sprintf("DOC:UPLOAD:%s:%d", uploader, windowID)

	ttl := time.Duration(windowSec)*time.Second + time.Second
	newCount, err := l.redis.IncrementWithTTL(ctx, key, ttl)
	if err != nil {
		l.log.Error("UploadQuota.ApplyUploadQuota increment failed",
			zap.String("key", key),
			zap.Error(err))
		return &ApplyUploadQuotaOutput{Allowed: false}, err
	}

	nextWindowStart := (windowID + 1) * int64(windowSec)
	retryAfter := int(nextWindowStart-now.Unix()) + 1

	if newCount > maxQuota {
		return &ApplyUploadQuotaOutput{Allowed: false, RetryAfterSecs: retryAfter}, nil
	}

	return &ApplyUploadQuotaOutput{Allowed: true}, nil
}
