package contracts

import (
	"context"
	"time"
)

type Storage interface {
	UploadObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (string, error)
	GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
}
