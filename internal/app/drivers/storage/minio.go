package storage

import (
	"context"
	"fmt"
	"heartshield-service/internal/app/config"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinio(driverConfig *config.DriverConfig) *minio.Client {
	endPoint := fmt.Sprintf("%s:%s", driverConfig.Minio.Host, driverConfig.Minio.Port)
	minioClient, err := minio.New(endPoint, &minio.Options{
		Creds:  credentials.NewStaticV4(driverConfig.Minio.Username, driverConfig.Minio.Password, ""),
		Secure: driverConfig.Minio.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Minio Client: %s", err.Error())
	}

	log.Println("Successfully connected to minio")
	return minioClient
}

func EnsureBucket(minioClient *minio.Client, bucketName string) {
	exists, err := minioClient.BucketExists(context.Background(), bucketName)
	if err != nil {
		log.Fatalf("Failed to check Minio bucket %s: %s", bucketName, err.Error())
	}
	if exists {
		return
	}
	if err := minioClient.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
		log.Fatalf("Failed to create Minio bucket %s: %s", bucketName, err.Error())
	}
	log.Printf("Successfully created minio bucket %s", bucketName)
}
