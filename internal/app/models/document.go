package models

// DocumentType is the recognized layout family of a scanned document. It
// selects the extraction profile.
type DocumentType string

const (
	DocumentTypeLabReport        DocumentType = "lab_report"
	DocumentTypeDischargeSummary DocumentType = "discharge_summary"
	DocumentTypeClinicNotes      DocumentType = "clinic_notes"
	DocumentTypeGeneral          DocumentType = "general"
)

// MedicalDocument is immutable after insert.
type MedicalDocument struct {
	ID             string `bson:"_id,omitempty"`
	UploaderRef    string `bson:"uploaderRef"`
	Filename       string `bson:"filename"`
	ObjectKey      string `bson:"objectKey"`
	ContentType    string `bson:"contentType"`
	SizeBytes      int64  `bson:"sizeBytes"`
	ChecksumSHA256 string `bson:"checksumSha256"`
	Notes          string `bson:"notes,omitempty"`
	TimeModel      `bson:",inline"`
}
