package documents

import (
	"time"

	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/dto/responses"
)

func mapDocumentToResponse(document *models.MedicalDocument) *responses.Document {
	return &responses.Document{
		DocumentID:  document.ID,
		Filename:    document.Filename,
		ContentType: document.ContentType,
		SizeBytes:   document.SizeBytes,
		Notes:       document.Notes,
		UploadedAt:  document.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapExtractionJobToResponse(job *models.ExtractionJob) *responses.Extraction {
	response := &responses.Extraction{
		JobID:        job.ID,
		DocumentID:   job.DocumentID,
		Status:       string(job.Status),
		Reason:       job.Reason,
		DocumentType: string(job.DocumentType),
		Fields:       make([]responses.ExtractedField, 0, len(job.Fields)),
		Completeness: string(job.Completeness),
	}
	for _, name := range job.Fields.Names() {
		field := job.Fields[name]
		response.Fields = append(response.Fields, responses.ExtractedField{
			Name:        string(field.Name),
			Value:       field.Value,
			Unit:        field.Unit,
			Confidence:  field.Confidence,
			Source:      string(field.Source),
			AssumedUnit: field.AssumedUnit,
			RawText:     field.RawText,
		})
	}
	if job.StartedAt != nil {
		response.StartedAt = job.StartedAt.UTC().Format(time.RFC3339)
	}
	if job.FinishedAt != nil {
		response.FinishedAt = job.FinishedAt.UTC().Format(time.RFC3339)
	}
	return response
}
