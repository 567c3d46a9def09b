package constvars

const (
	MongoCollectionDocuments      = "documents"
	MongoCollectionExtractionJobs = "extraction_jobs"
	MongoCollectionAssessments    = "risk_assessments"
)

const (
	RedisKeyExtractionStatusFormat = "extraction:status:%s"
	RedisKeyModelMetadata          = "classifier:model:metadata"
)
