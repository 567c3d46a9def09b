package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

type minioStorage struct {
	MinioClient *minio.Client
}

func NewMinioStorage(minioClient *minio.Client) contracts.Storage {
	return &minioStorage{
		MinioClient: minioClient,
	}
}

func (m *minioStorage) UploadObject(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (string, error) {
	_, err := m.MinioClient.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}

	return objectName, nil
}

func (m *minioStorage) GetObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	object, err := m.MinioClient.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, bucketName)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, exceptions.ErrMinioGetObject(err, bucketName)
	}
	return data, nil
}

func (m *minioStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	presignedURL, err := m.MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiryTime, url.Values{})
	if err != nil {
		return "", exceptions.ErrMinioFindObjectPresignedURL(err, bucketName)
	}
	return presignedURL.String(), nil
}
