package config

type InternalConfig struct {
	App        App
	JWT        AppJWT
	Minio      AppMinio
	Model      AppModel
	Extraction AppExtraction
	Assessment AppAssessment
	Documents  AppDocuments
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	SuperadminAPIKey           string
}

type AppJWT struct {
	// Secret verifies identity tokens minted by the upstream gateway.
	Secret string
}

type AppMinio struct {
	DocumentBucketName                       string
	DocumentMaxUploadSizeInMB                int
	MinioPreSignedUrlObjectExpiryTimeInHours int
}

type AppModel struct {
	ArtifactPath string
}

type AppExtraction struct {
	QueueName   string
	WorkerCount int
	// MaxRetry is the failedCount threshold before a job message goes to DLQ.
	MaxRetry                  int
	JobTimeoutInSeconds       int
	StaleJobDeadlineInMinutes int
	StatusCacheTTLInSeconds   int
	// SweeperCronSpec defines the cron expression for the stale-job sweeper (e.g. "@every 1m").
	SweeperCronSpec string
}

type AppAssessment struct {
	// MinFieldConfidence is the extraction confidence below which a field is
	// treated as absent and must be confirmed manually.
	MinFieldConfidence float64
}

type AppDocuments struct {
	UploadsPerMinute int
	UploadBurst      int
}
