package models

import "time"

type ExtractionStatus string

const (
	ExtractionStatusQueued    ExtractionStatus = "queued"
	ExtractionStatusRunning   ExtractionStatus = "running"
	ExtractionStatusSucceeded ExtractionStatus = "succeeded"
	ExtractionStatusFailed    ExtractionStatus = "failed"
)

func (s ExtractionStatus) Terminal() bool {
	return s == ExtractionStatusSucceeded || s == ExtractionStatusFailed
}

// CompletenessGrade summarizes how many critical readings an extraction
// recovered.
type CompletenessGrade string

const (
	CompletenessExcellent CompletenessGrade = "excellent"
	CompletenessGood      CompletenessGrade = "good"
	CompletenessMinimal   CompletenessGrade = "minimal"
	CompletenessPoor      CompletenessGrade = "poor"
)

// RecognizedText is the raw output of a text recognizer pass over an image.
type RecognizedText struct {
	Text       string
	Confidence float64
}

// ExtractionOutcome is what the field extractor reports for one document.
// A document that cannot be read still produces an outcome; Reason explains
// why Fields came back empty.
type ExtractionOutcome struct {
	DocumentType    DocumentType
	Fields          FieldSet
	Completeness    CompletenessGrade
	Reason          string
	RecognizedChars int
}

// ExtractionJob tracks one pass of the field extractor over a document.
// A failed extraction is terminal; re-running a document creates a new job.
type ExtractionJob struct {
	ID              string            `bson:"_id,omitempty"`
	DocumentID      string            `bson:"documentId"`
	UploaderRef     string            `bson:"uploaderRef"`
	Status          ExtractionStatus  `bson:"status"`
	Attempt         int               `bson:"attempt"`
	Reason          string            `bson:"reason,omitempty"`
	DocumentType    DocumentType      `bson:"documentType,omitempty"`
	Fields          FieldSet          `bson:"fields,omitempty"`
	Completeness    CompletenessGrade `bson:"completeness,omitempty"`
	RecognizedChars int               `bson:"recognizedChars,omitempty"`
	StartedAt       *time.Time        `bson:"startedAt,omitempty"`
	FinishedAt      *time.Time        `bson:"finishedAt,omitempty"`
	TimeModel       `bson:",inline"`
}
