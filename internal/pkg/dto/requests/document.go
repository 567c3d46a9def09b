package requests

// UploadDocument carries the non-file parts of the multipart upload form.
// The uploader reference comes from the identity middleware, never the form.
type UploadDocument struct {
	Notes       string `json:"notes" validate:"omitempty,max=500"`
	UploaderRef string `validate:"required"`
	Filename    string
	ContentType string
}

type FindDocumentByID struct {
	DocumentID  string `validate:"required"`
	UploaderRef string `validate:"required"`
}

type FindAllDocuments struct {
	UploaderRef string `validate:"required"`
	Pagination
}
