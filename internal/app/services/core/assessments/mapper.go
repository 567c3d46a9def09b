package assessments

import (
	"time"

	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/dto/responses"
)

func mapAssessmentToResponse(assessment *models.RiskAssessment) *responses.Assessment {
	response := &responses.Assessment{
		AssessmentID:    assessment.ID,
		State:           string(assessment.State),
		DocumentIDs:     assessment.DocumentIDs,
		Inputs:          mapFieldSetToResponse(assessment.Inputs),
		Insights:        assessment.Insights,
		Recommendations: assessment.Recommendations,
		CreatedAt:       assessment.CreatedAt.UTC().Format(time.RFC3339),
	}

	if assessment.Result != nil {
		result := &responses.RiskResult{
			Category:     string(assessment.Result.Category),
			Probability:  assessment.Result.Probability,
			ModelVersion: assessment.Result.ModelVersion,
		}
		for _, baseline := range assessment.Result.AppliedBaselines {
			result.AppliedBaselines = append(result.AppliedBaselines, responses.AppliedBaseline{
				Feature: baseline.Feature,
				Value:   baseline.Value,
			})
		}
		response.Result = result
	}

	if assessment.Failure != nil {
		response.Failure = mapFailureToResponse(assessment.Failure)
	}
	return response
}

func mapFailureToResponse(failure *models.AssessmentFailure) *responses.AssessmentFailure {
	mapped := &responses.AssessmentFailure{
		Stage:   string(failure.Stage),
		Message: failure.Message,
	}
	for _, name := range failure.Missing {
		mapped.MissingFields = append(mapped.MissingFields, string(name))
	}
	for _, issue := range failure.Invalid {
		mapped.InvalidFields = append(mapped.InvalidFields, responses.FieldIssue{
			Name:   string(issue.Name),
			Reason: issue.Reason,
		})
	}
	return mapped
}

// mapFieldSetToResponse flattens a FieldSet in stable name order.
func mapFieldSetToResponse(fields models.FieldSet) []responses.ExtractedField {
	mapped := make([]responses.ExtractedField, 0, len(fields))
	for _, name := range fields.Names() {
		field := fields[name]
		mapped = append(mapped, responses.ExtractedField{
			Name:        string(field.Name),
			Value:       field.Value,
			Unit:        field.Unit,
			Confidence:  field.Confidence,
			Source:      string(field.Source),
			AssumedUnit: field.AssumedUnit,
			RawText:     field.RawText,
		})
	}
	return mapped
}
