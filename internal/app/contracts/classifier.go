package contracts

import (
	"context"
	"heartshield-service/internal/app/models"
)

// RiskClassifier scores a set of readings against the loaded model.
// Implementations are deterministic: the same inputs always produce the same
// probability and category.
type RiskClassifier interface {
	// Classify returns the risk result or an input error naming the features
	// that were missing or out of domain. It never fills gaps silently; every
	// baseline it applies is listed on the result.
	Classify(ctx context.Context, inputs models.FieldSet) (*models.RiskResult, error)

	// ValidateInputs reports, without scoring, which required readings are
	// absent and which present readings sit outside their declared domain.
	ValidateInputs(inputs models.FieldSet) (missing []models.FieldName, invalid []models.FieldIssue)

	ModelInfo() models.ModelInfo
}
