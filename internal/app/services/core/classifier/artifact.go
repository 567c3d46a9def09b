package classifier

import (
	"fmt"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/exceptions"
	"os"

	"github.com/goccy/go-json"
)

// Thresholds are the fixed band boundaries over the model probability.
// Probabilities below Low are low risk, below Moderate are moderate risk,
// and everything else is high risk.
type Thresholds struct {
	Low      float64 `json:"low"`
	Moderate float64 `json:"moderate"`
}

// Domain is the closed interval of values a feature accepts.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Feature is one model input as declared by the artifact. Source names the
// canonical reading it is fed from. Required features must arrive with the
// caller's FieldSet; the rest fall back to Baseline. BinarizeAbove, when
// set, collapses the sourced value to 0 or 1 before standardization, which
// is how fasting blood sugar is derived from a glucose reading.
type Feature struct {
	Name          string   `json:"name"`
	Source        string   `json:"source"`
	Required      bool     `json:"required"`
	Baseline      *float64 `json:"baseline,omitempty"`
	BinarizeAbove *float64 `json:"binarize_above,omitempty"`
	Domain        Domain   `json:"domain"`
	Mean          float64  `json:"mean"`
	StdDev        float64  `json:"stddev"`
	Coefficient   float64  `json:"coefficient"`
}

// Artifact is the serialized model, loaded once at startup and shared
// read-only from then on.
type Artifact struct {
	Version    string     `json:"version"`
	TrainedAt  string     `json:"trained_at"`
	Algorithm  string     `json:"algorithm"`
	Accuracy   float64    `json:"accuracy"`
	Intercept  float64    `json:"intercept"`
	Thresholds Thresholds `json:"thresholds"`
	Features   []Feature  `json:"features"`
}

// LoadArtifact reads and validates a model artifact file. Callers treat any
// error as fatal; the service must not score requests without a valid model.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, exceptions.ErrClassifierModelLoad(err, path)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, exceptions.ErrClassifierModelLoad(err, path)
	}

	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// Validate checks the structural invariants the scorer relies on.
func (a *Artifact) Validate() error {
	if a.Version == "" {
		return exceptions.ErrClassifierModelInvalid(fmt.Errorf("version is empty"))
	}
	if a.Accuracy <= 0 || a.Accuracy > 1 {
		return exceptions.ErrClassifierModelInvalid(fmt.Errorf("accuracy %g outside (0, 1]", a.Accuracy))
	}
	if len(a.Features) == 0 {
		return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature list is empty"))
	}
	if a.Thresholds.Low <= 0 || a.Thresholds.Low >= a.Thresholds.Moderate || a.Thresholds.Moderate >= 1 {
		return exceptions.ErrClassifierModelInvalid(fmt.Errorf("thresholds low=%g moderate=%g must satisfy 0 < low < moderate < 1", a.Thresholds.Low, a.Thresholds.Moderate))
	}

	names := make(map[string]bool, len(a.Features))
	sources := make(map[string]bool, len(a.Features))
	for _, feature := range a.Features {
		if feature.Name == "" {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature with empty name"))
		}
		if names[feature.Name] {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("duplicate feature %q", feature.Name))
		}
		names[feature.Name] = true

		if !models.IsKnownFieldName(feature.Source) {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: unknown source reading %q", feature.Name, feature.Source))
		}
		if sources[feature.Source] {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: source reading %q already used", feature.Name, feature.Source))
		}
		sources[feature.Source] = true

		if feature.StdDev <= 0 {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: stddev must be positive", feature.Name))
		}
		if feature.Domain.Min >= feature.Domain.Max {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: domain [%g, %g] is empty", feature.Name, feature.Domain.Min, feature.Domain.Max))
		}
		if feature.Required && feature.Baseline != nil {
			return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: required features must not declare a baseline", feature.Name))
		}
		if !feature.Required {
			if feature.Baseline == nil {
				return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: optional features must declare a baseline", feature.Name))
			}
			if *feature.Baseline < feature.Domain.Min || *feature.Baseline > feature.Domain.Max {
				return exceptions.ErrClassifierModelInvalid(fmt.Errorf("feature %q: baseline %g outside domain [%g, %g]", feature.Name, *feature.Baseline, feature.Domain.Min, feature.Domain.Max))
			}
		}
	}
	return nil
}
