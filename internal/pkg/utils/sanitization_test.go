package utils

import (
	"heartshield-service/internal/pkg/dto/requests"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCreateAssessmentRequest(t *testing.T) {
	t.Run("Document IDs Sanitization", func(t *testing.T) {
		request := &requests.CreateAssessment{
			DocumentIDs: []string{"  66cf0a1b2d3e4f5a6b7c8d9e  ", " 66cf0a1b2d3e4f5a6b7c8d9f"},
		}

		SanitizeCreateAssessmentRequest(request)

		expectedIDs := []string{"66cf0a1b2d3e4f5a6b7c8d9e", "66cf0a1b2d3e4f5a6b7c8d9f"}
		assert.Equal(t, expectedIDs, request.DocumentIDs, "document ids should be trimmed")
	})

	t.Run("Reading Names Lowercased And Trimmed", func(t *testing.T) {
		request := &requests.CreateAssessment{
			Readings: []requests.ManualReading{
				{Name: "  Cholesterol  ", Value: floatPtr(200), Unit: " mg/dL "},
				{Name: "AGE", Value: floatPtr(45)},
			},
		}

		SanitizeCreateAssessmentRequest(request)

		assert.Equal(t, "cholesterol", request.Readings[0].Name, "reading name should be lowercase and trimmed")
		assert.Equal(t, "mg/dL", request.Readings[0].Unit, "unit should be trimmed")
		assert.Equal(t, "age", request.Readings[1].Name, "reading name should be lowercase")
	})

	t.Run("Empty Request", func(t *testing.T) {
		request := &requests.CreateAssessment{}

		SanitizeCreateAssessmentRequest(request)

		assert.Empty(t, request.DocumentIDs, "empty document ids should remain empty")
		assert.Empty(t, request.Readings, "empty readings should remain empty")
	})
}

func TestSanitizeUploadDocumentRequest(t *testing.T) {
	t.Run("Notes Trimmed", func(t *testing.T) {
		request := &requests.UploadDocument{
			Notes: "  lab results from annual checkup  ",
		}

		SanitizeUploadDocumentRequest(request)

		assert.Equal(t, "lab results from annual checkup", request.Notes, "notes should be trimmed")
	})
}
