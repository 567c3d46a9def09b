package responses

type UploadDocument struct {
	DocumentID      string `json:"document_id"`
	ExtractionJobID string `json:"extraction_job_id"`
	Status          string `json:"status"`
}

type Document struct {
	DocumentID  string `json:"document_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Notes       string `json:"notes,omitempty"`
	UploadedAt  string `json:"uploaded_at"`
	DownloadURL string `json:"download_url,omitempty"`
}
