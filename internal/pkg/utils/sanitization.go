package utils

import (
	"heartshield-service/internal/pkg/dto/requests"
	"strings"
)

func cleanWhiteSpaceFromEachStringOfAnArray(input []string) []string {
	sanitizedArray := make([]string, len(input))
	for i, v := range input {
		sanitizedArray[i] = strings.TrimSpace(v)
	}
	return sanitizedArray
}

func SanitizeCreateAssessmentRequest(input *requests.CreateAssessment) {
	input.DocumentIDs = cleanWhiteSpaceFromEachStringOfAnArray(input.DocumentIDs)
	for i := range input.Readings {
		input.Readings[i].Name = strings.ToLower(strings.TrimSpace(input.Readings[i].Name))
		input.Readings[i].Unit = strings.TrimSpace(input.Readings[i].Unit)
	}
}

func SanitizeUploadDocumentRequest(input *requests.UploadDocument) {
	input.Notes = strings.TrimSpace(input.Notes)
}
