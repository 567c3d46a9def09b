package classifier

import (
	"context"
	"fmt"
	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/exceptions"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type classifierService struct {
	Artifact *Artifact
	Log      *zap.Logger
}

var (
	classifierServiceInstance contracts.RiskClassifier
	onceClassifierService     sync.Once
)

func NewClassifierService(artifact *Artifact, logger *zap.Logger) contracts.RiskClassifier {
	onceClassifierService.Do(func() {
		instance := &classifierService{
			Artifact: artifact,
			Log:      logger,
		}
		classifierServiceInstance = instance
	})
	return classifierServiceInstance
}

func (s *classifierService) Classify(ctx context.Context, inputs models.FieldSet) (*models.RiskResult, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("classifierService.Classify called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModelVersionKey, s.Artifact.Version),
		zap.Int("input_count", len(inputs)),
	)

	missing, invalid := s.ValidateInputs(inputs)
	if len(missing) > 0 {
		err := exceptions.ErrClassifierInput(fmt.Errorf("missing required readings: %s", joinFieldNames(missing)))
		s.Log.Error("classifierService.Classify missing required readings",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if len(invalid) > 0 {
		err := exceptions.ErrClassifierInputOutOfRange(fmt.Errorf("out-of-domain readings: %s", joinFieldIssues(invalid)))
		s.Log.Error("classifierService.Classify out-of-domain readings",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	z := s.Artifact.Intercept
	var applied []models.AppliedBaseline
	for _, feature := range s.Artifact.Features {
		value, fromBaseline := resolveFeatureValue(feature, inputs)
		if fromBaseline {
			applied = append(applied, models.AppliedBaseline{Feature: feature.Name, Value: value})
		}
		z += feature.Coefficient * (value - feature.Mean) / feature.StdDev
	}

	probability := sigmoid(z)
	result := &models.RiskResult{
		Category:         s.band(probability),
		Probability:      probability,
		ModelVersion:     s.Artifact.Version,
		AppliedBaselines: applied,
	}

	s.Log.Info("classifierService.Classify scored",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingModelVersionKey, s.Artifact.Version),
		zap.Float64("probability", probability),
		zap.String("category", string(result.Category)),
		zap.Int("applied_baselines", len(applied)),
	)
	return result, nil
}

// ValidateInputs walks the artifact's feature list and reports which
// required readings are absent and which present readings fall outside
// their declared domain. Baselines are not applied here.
func (s *classifierService) ValidateInputs(inputs models.FieldSet) (missing []models.FieldName, invalid []models.FieldIssue) {
	for _, feature := range s.Artifact.Features {
		source := models.FieldName(feature.Source)
		raw, ok := inputs.Value(source)
		if !ok {
			if feature.Required {
				missing = append(missing, source)
			}
			continue
		}

		value := transformFeatureValue(feature, raw)
		if value < feature.Domain.Min || value > feature.Domain.Max {
			invalid = append(invalid, models.FieldIssue{
				Name:   source,
				Reason: fmt.Sprintf("value %g outside valid range [%g, %g]", value, feature.Domain.Min, feature.Domain.Max),
			})
		}
	}
	return missing, invalid
}

func (s *classifierService) ModelInfo() models.ModelInfo {
	return models.ModelInfo{
		Version:      s.Artifact.Version,
		Accuracy:     s.Artifact.Accuracy,
		FeatureCount: len(s.Artifact.Features),
	}
}

func (s *classifierService) band(probability float64) models.RiskCategory {
	switch {
	case probability < s.Artifact.Thresholds.Low:
		return models.RiskCategoryLow
	case probability < s.Artifact.Thresholds.Moderate:
		return models.RiskCategoryModerate
	default:
		return models.RiskCategoryHigh
	}
}

func resolveFeatureValue(feature Feature, inputs models.FieldSet) (value float64, fromBaseline bool) {
	raw, ok := inputs.Value(models.FieldName(feature.Source))
	if !ok {
		return *feature.Baseline, true
	}
	return transformFeatureValue(feature, raw), false
}

func transformFeatureValue(feature Feature, raw float64) float64 {
	if feature.BinarizeAbove != nil {
		if raw > *feature.BinarizeAbove {
			return 1
		}
		return 0
	}
	return raw
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func joinFieldNames(names []models.FieldName) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, string(name))
	}
	return strings.Join(parts, ", ")
}

func joinFieldIssues(issues []models.FieldIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, fmt.Sprintf("%s (%s)", issue.Name, issue.Reason))
	}
	return strings.Join(parts, ", ")
}
