package models

// ModelInfo describes the loaded classification model, surfaced on the
// health endpoint and by the modelcheck tooling.
type ModelInfo struct {
	Version      string
	Accuracy     float64
	FeatureCount int
}
