package config

import (
	"heartshield-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:              utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:              utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username:          utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password:          utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
			HeartShieldDbName: utils.GetEnvString("MONGODB_DB_NAME", "heartshield"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", "customRedisPass"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "Asia/Jakarta"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api/v1"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 12),
			SuperadminAPIKey:           utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
		},
		JWT: AppJWT{
			Secret: utils.GetEnvString("JWT_SECRET", "anyjwt"),
		},
		Minio: AppMinio{
			DocumentBucketName:                       utils.GetEnvString("APP_MINIO_DOCUMENT_BUCKET_NAME", "medical-documents"),
			DocumentMaxUploadSizeInMB:                utils.GetEnvInt("APP_MINIO_DOCUMENT_UPLOAD_MAX_SIZE_IN_MB", 10),
			MinioPreSignedUrlObjectExpiryTimeInHours: utils.GetEnvInt("APP_MINIO_PRESIGNED_URL_EXPIRY_TIME_IN_HOURS", 1),
		},
		Model: AppModel{
			ArtifactPath: utils.GetEnvString("MODEL_ARTIFACT_PATH", "model/heart_model.json"),
		},
		Extraction: AppExtraction{
			QueueName:                 utils.GetEnvString("EXTRACTION_QUEUE_NAME", "extractionqueue"),
			WorkerCount:               utils.GetEnvInt("EXTRACTION_WORKER_COUNT", 2),
			MaxRetry:                  utils.GetEnvInt("EXTRACTION_MAX_RETRY", 3),
			JobTimeoutInSeconds:       utils.GetEnvInt("EXTRACTION_JOB_TIMEOUT_IN_SECONDS", 60),
			StaleJobDeadlineInMinutes: utils.GetEnvInt("EXTRACTION_STALE_JOB_DEADLINE_IN_MINUTES", 10),
			StatusCacheTTLInSeconds:   utils.GetEnvInt("EXTRACTION_STATUS_CACHE_TTL_IN_SECONDS", 30),
			SweeperCronSpec:           utils.GetEnvString("EXTRACTION_SWEEPER_CRON_SPEC", "@every 1m"),
		},
		Assessment: AppAssessment{
			MinFieldConfidence: utils.GetEnvFloat("ASSESSMENT_MIN_FIELD_CONFIDENCE", 0.5),
		},
		Documents: AppDocuments{
			UploadsPerMinute: utils.GetEnvInt("DOCUMENTS_UPLOADS_PER_MINUTE", 6),
			UploadBurst:      utils.GetEnvInt("DOCUMENTS_UPLOAD_BURST", 3),
		},
	}
}
