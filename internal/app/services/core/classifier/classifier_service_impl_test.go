package classifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"heartshield-service/internal/app/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func floatPtr(v float64) *float64 {
	return &v
}

// testArtifact mirrors model/heart_model.json so scoring assertions stay in
// lockstep with the shipped artifact.
func testArtifact() *Artifact {
	return &Artifact{
		Version:    "3.0.0",
		TrainedAt:  "2026-05-11T09:24:00Z",
		Algorithm:  "logistic_regression",
		Accuracy:   0.852,
		Intercept:  -0.55,
		Thresholds: Thresholds{Low: 0.2, Moderate: 0.5},
		Features: []Feature{
			{Name: "age", Source: "age", Required: true, Domain: Domain{Min: 1, Max: 120}, Mean: 54.37, StdDev: 9.08, Coefficient: 0.45},
			{Name: "sex", Source: "sex", Baseline: floatPtr(1), Domain: Domain{Min: 0, Max: 1}, Mean: 0.68, StdDev: 0.47, Coefficient: 0.55},
			{Name: "cp", Source: "chest_pain_type", Baseline: floatPtr(0), Domain: Domain{Min: 0, Max: 3}, Mean: 0.97, StdDev: 1.03, Coefficient: 0.3},
			{Name: "trestbps", Source: "systolic_bp", Required: true, Domain: Domain{Min: 70, Max: 250}, Mean: 131.62, StdDev: 17.54, Coefficient: 0.4},
			{Name: "chol", Source: "cholesterol", Required: true, Domain: Domain{Min: 100, Max: 400}, Mean: 246.26, StdDev: 51.83, Coefficient: 0.35},
			{Name: "fbs", Source: "glucose", Baseline: floatPtr(0), BinarizeAbove: floatPtr(120), Domain: Domain{Min: 0, Max: 1}, Mean: 0.15, StdDev: 0.36, Coefficient: 0.2},
			{Name: "restecg", Source: "resting_ecg", Baseline: floatPtr(0), Domain: Domain{Min: 0, Max: 2}, Mean: 0.53, StdDev: 0.53, Coefficient: 0.15},
			{Name: "thalach", Source: "heart_rate", Baseline: floatPtr(150), Domain: Domain{Min: 40, Max: 200}, Mean: 149.65, StdDev: 22.91, Coefficient: -0.5},
			{Name: "exang", Source: "exercise_angina", Baseline: floatPtr(0), Domain: Domain{Min: 0, Max: 1}, Mean: 0.33, StdDev: 0.47, Coefficient: 0.45},
			{Name: "oldpeak", Source: "st_depression", Baseline: floatPtr(1.0), Domain: Domain{Min: 0, Max: 6.2}, Mean: 1.04, StdDev: 1.16, Coefficient: 0.5},
			{Name: "slope", Source: "st_slope", Baseline: floatPtr(1), Domain: Domain{Min: 0, Max: 2}, Mean: 1.4, StdDev: 0.62, Coefficient: -0.35},
			{Name: "ca", Source: "major_vessels", Baseline: floatPtr(0), Domain: Domain{Min: 0, Max: 3}, Mean: 0.73, StdDev: 1.02, Coefficient: 0.6},
			{Name: "thal", Source: "thalassemia", Baseline: floatPtr(3), Domain: Domain{Min: 0, Max: 3}, Mean: 2.31, StdDev: 0.61, Coefficient: 0.4},
		},
	}
}

func newTestClassifier() *classifierService {
	return &classifierService{
		Artifact: testArtifact(),
		Log:      zap.NewNop(),
	}
}

func manualFieldSet(values map[models.FieldName]float64) models.FieldSet {
	fs := make(models.FieldSet, len(values))
	for name, value := range values {
		fs.Override(models.ExtractedField{
			Name:       name,
			Value:      value,
			Confidence: 1.0,
			Source:     models.FieldSourceManual,
		})
	}
	return fs
}

func TestLoadArtifact(t *testing.T) {

	writeArtifact := func(t *testing.T, artifact *Artifact) string {
		data, err := json.Marshal(artifact)
		assert.NoError(t, err, "Marshalling the test artifact should not fail")
		path := filepath.Join(t.TempDir(), "heart_model.json")
		assert.NoError(t, os.WriteFile(path, data, 0o600), "Writing the test artifact should not fail")
		return path
	}

	t.Run("Loads And Validates A Well Formed Artifact", func(t *testing.T) {
		path := writeArtifact(t, testArtifact())

		artifact, err := LoadArtifact(path)
		assert.NoError(t, err, "A well formed artifact should load")
		assert.Equal(t, "3.0.0", artifact.Version, "Version should survive the round trip")
		assert.Equal(t, "logistic_regression", artifact.Algorithm, "Algorithm should survive the round trip")
		assert.Len(t, artifact.Features, 13, "All thirteen features should be present")
		assert.Equal(t, 0.2, artifact.Thresholds.Low, "Low threshold should survive the round trip")
		assert.Equal(t, 0.5, artifact.Thresholds.Moderate, "Moderate threshold should survive the round trip")
	})

	t.Run("Fails When The File Is Missing", func(t *testing.T) {
		artifact, err := LoadArtifact(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err, "A missing artifact file should fail to load")
		assert.Nil(t, artifact, "No artifact should be returned on failure")
	})

	t.Run("Fails On Malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		artifact, err := LoadArtifact(path)
		assert.Error(t, err, "Malformed JSON should fail to load")
		assert.Nil(t, artifact, "No artifact should be returned on failure")
	})

	t.Run("Fails When The Artifact Is Structurally Invalid", func(t *testing.T) {
		broken := testArtifact()
		broken.Thresholds = Thresholds{Low: 0.5, Moderate: 0.2}
		path := writeArtifact(t, broken)

		artifact, err := LoadArtifact(path)
		assert.Error(t, err, "Inverted thresholds should be rejected at load time")
		assert.Nil(t, artifact, "No artifact should be returned on failure")
	})
}

func TestArtifactValidate(t *testing.T) {

	t.Run("Shipped Artifact Shape Is Valid", func(t *testing.T) {
		assert.NoError(t, testArtifact().Validate(), "The reference artifact should validate")
	})

	testCases := []struct {
		name   string
		mutate func(a *Artifact)
	}{
		{
			name:   "Empty Version",
			mutate: func(a *Artifact) { a.Version = "" },
		},
		{
			name:   "Accuracy Of Zero",
			mutate: func(a *Artifact) { a.Accuracy = 0 },
		},
		{
			name:   "Accuracy Above One",
			mutate: func(a *Artifact) { a.Accuracy = 1.2 },
		},
		{
			name:   "No Features",
			mutate: func(a *Artifact) { a.Features = nil },
		},
		{
			name:   "Low Threshold Not Below Moderate",
			mutate: func(a *Artifact) { a.Thresholds = Thresholds{Low: 0.5, Moderate: 0.5} },
		},
		{
			name:   "Moderate Threshold Not Below One",
			mutate: func(a *Artifact) { a.Thresholds = Thresholds{Low: 0.2, Moderate: 1} },
		},
		{
			name:   "Feature With Empty Name",
			mutate: func(a *Artifact) { a.Features[0].Name = "" },
		},
		{
			name:   "Duplicate Feature Name",
			mutate: func(a *Artifact) { a.Features[1].Name = a.Features[0].Name },
		},
		{
			name:   "Unknown Source Reading",
			mutate: func(a *Artifact) { a.Features[0].Source = "shoe_size" },
		},
		{
			name:   "Source Reading Used Twice",
			mutate: func(a *Artifact) { a.Features[1].Source = a.Features[0].Source },
		},
		{
			name:   "Non Positive Standard Deviation",
			mutate: func(a *Artifact) { a.Features[0].StdDev = 0 },
		},
		{
			name:   "Empty Domain",
			mutate: func(a *Artifact) { a.Features[0].Domain = Domain{Min: 10, Max: 10} },
		},
		{
			name:   "Required Feature Declaring A Baseline",
			mutate: func(a *Artifact) { a.Features[0].Baseline = floatPtr(50) },
		},
		{
			name:   "Optional Feature Without A Baseline",
			mutate: func(a *Artifact) { a.Features[1].Baseline = nil },
		},
		{
			name:   "Baseline Outside The Domain",
			mutate: func(a *Artifact) { a.Features[1].Baseline = floatPtr(7) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			artifact := testArtifact()
			tc.mutate(artifact)
			assert.Error(t, artifact.Validate(), "A broken artifact should not validate")
		})
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("Readings From A Scanned Lab Report Score High", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         55,
			models.FieldSex:         1,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 240,
			models.FieldHeartRate:   88,
			models.FieldGlucose:     130,
		})

		result, err := service.Classify(ctx, inputs)
		assert.NoError(t, err, "A complete plausible set should classify")
		assert.Equal(t, models.RiskCategoryHigh, result.Category, "Elevated readings should land in the high band")
		assert.InDelta(t, 0.8225, result.Probability, 0.005, "Probability should match the reference computation")
		assert.Equal(t, "3.0.0", result.ModelVersion, "Result should carry the artifact version")

		appliedFeatures := make([]string, 0, len(result.AppliedBaselines))
		for _, baseline := range result.AppliedBaselines {
			appliedFeatures = append(appliedFeatures, baseline.Feature)
		}
		assert.Equal(t, []string{"cp", "restecg", "exang", "oldpeak", "slope", "ca", "thal"}, appliedFeatures,
			"Every feature the caller did not supply should be reported as a baseline")
	})

	t.Run("Critical Readings Alone Still Classify", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         55,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 240,
		})

		result, err := service.Classify(ctx, inputs)
		assert.NoError(t, err, "The three required readings alone should classify")
		assert.Equal(t, models.RiskCategoryModerate, result.Category, "Baselines should pull this set into the moderate band")
		assert.InDelta(t, 0.4073, result.Probability, 0.005, "Probability should match the reference computation")
		assert.Len(t, result.AppliedBaselines, 10, "All ten optional features should fall back to baselines")

		baselineByFeature := make(map[string]float64, len(result.AppliedBaselines))
		for _, baseline := range result.AppliedBaselines {
			baselineByFeature[baseline.Feature] = baseline.Value
		}
		assert.Equal(t, 150.0, baselineByFeature["thalach"], "Heart rate baseline should be the declared 150")
		assert.Equal(t, 1.0, baselineByFeature["sex"], "Sex baseline should be the declared 1")
		assert.Equal(t, 3.0, baselineByFeature["thal"], "Thalassemia baseline should be the declared 3")
	})

	t.Run("Healthy Readings Score Low", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         35,
			models.FieldSex:         0,
			models.FieldSystolicBP:  110,
			models.FieldCholesterol: 180,
		})

		result, err := service.Classify(ctx, inputs)
		assert.NoError(t, err, "A healthy set should classify")
		assert.Equal(t, models.RiskCategoryLow, result.Category, "Healthy readings should land in the low band")
		assert.Less(t, result.Probability, 0.2, "Low band probabilities sit below the low threshold")
	})

	t.Run("Identical Inputs Produce Identical Results", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         55,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 240,
			models.FieldGlucose:     130,
		})

		first, err := service.Classify(ctx, inputs)
		assert.NoError(t, err)
		for i := 0; i < 5; i++ {
			next, err := service.Classify(ctx, inputs)
			assert.NoError(t, err)
			assert.Equal(t, first.Probability, next.Probability, "Repeated classification should be deterministic")
			assert.Equal(t, first.Category, next.Category, "Repeated classification should be deterministic")
		}
	})

	t.Run("Glucose Collapses To The Fasting Sugar Flag", func(t *testing.T) {
		service := newTestClassifier()
		base := map[models.FieldName]float64{
			models.FieldAge:         55,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 240,
		}

		withGlucose := func(glucose float64) *models.RiskResult {
			values := make(map[models.FieldName]float64, len(base)+1)
			for name, value := range base {
				values[name] = value
			}
			values[models.FieldGlucose] = glucose
			result, err := service.Classify(ctx, manualFieldSet(values))
			assert.NoError(t, err, "Any plausible glucose reading should classify")
			return result
		}

		justAbove := withGlucose(121)
		farAbove := withGlucose(480)
		assert.Equal(t, justAbove.Probability, farAbove.Probability,
			"Any glucose above the fasting threshold should score identically")

		atThreshold := withGlucose(120)
		below := withGlucose(80)
		assert.Equal(t, atThreshold.Probability, below.Probability,
			"Glucose at or below the fasting threshold should score identically")

		assert.Greater(t, justAbove.Probability, below.Probability,
			"Elevated fasting sugar should raise the score")
	})

	t.Run("Missing Required Reading Fails", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:        55,
			models.FieldSystolicBP: 150,
		})

		result, err := service.Classify(ctx, inputs)
		assert.Error(t, err, "Classification without cholesterol should fail")
		assert.Nil(t, result, "No result should be produced on failure")
		assert.Contains(t, err.Error(), "cholesterol", "The error should name the missing reading")
	})

	t.Run("Out Of Domain Reading Fails", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         55,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 999,
		})

		result, err := service.Classify(ctx, inputs)
		assert.Error(t, err, "A cholesterol of 999 should be rejected")
		assert.Nil(t, result, "No result should be produced on failure")
		assert.Contains(t, err.Error(), "cholesterol", "The error should name the offending reading")
	})
}

func TestValidateInputs(t *testing.T) {

	t.Run("Reports Every Missing Required Reading", func(t *testing.T) {
		service := newTestClassifier()

		missing, invalid := service.ValidateInputs(models.FieldSet{})
		assert.Equal(t, []models.FieldName{models.FieldAge, models.FieldSystolicBP, models.FieldCholesterol}, missing,
			"All three required readings should be reported missing")
		assert.Empty(t, invalid, "An empty set has nothing out of domain")
	})

	t.Run("Flags Readings Outside The Model Domain", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         150,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 90,
		})

		missing, invalid := service.ValidateInputs(inputs)
		assert.Empty(t, missing, "All required readings are present")
		assert.Len(t, invalid, 2, "Both out-of-domain readings should be flagged")
		assert.Equal(t, models.FieldAge, invalid[0].Name, "Age of 150 exceeds the model domain")
		assert.Contains(t, invalid[0].Reason, "outside valid range", "The reason should describe the domain breach")
		assert.Equal(t, models.FieldCholesterol, invalid[1].Name, "Cholesterol of 90 sits below the model domain")
	})

	t.Run("Accepts A Complete Plausible Set", func(t *testing.T) {
		service := newTestClassifier()
		inputs := manualFieldSet(map[models.FieldName]float64{
			models.FieldAge:         55,
			models.FieldSex:         1,
			models.FieldSystolicBP:  150,
			models.FieldCholesterol: 240,
			models.FieldHeartRate:   88,
			models.FieldGlucose:     130,
		})

		missing, invalid := service.ValidateInputs(inputs)
		assert.Empty(t, missing, "Nothing required is absent")
		assert.Empty(t, invalid, "Nothing present is out of domain")
	})
}

func TestBandBoundaries(t *testing.T) {
	service := newTestClassifier()

	assert.Equal(t, models.RiskCategoryLow, service.band(0.19), "Below the low threshold is low risk")
	assert.Equal(t, models.RiskCategoryModerate, service.band(0.2), "The low threshold itself is moderate risk")
	assert.Equal(t, models.RiskCategoryModerate, service.band(0.49), "Below the moderate threshold is moderate risk")
	assert.Equal(t, models.RiskCategoryHigh, service.band(0.5), "The moderate threshold itself is high risk")
	assert.Equal(t, models.RiskCategoryHigh, service.band(0.99), "Far above the moderate threshold is high risk")
}

func TestModelInfo(t *testing.T) {
	service := newTestClassifier()

	info := service.ModelInfo()
	assert.Equal(t, "3.0.0", info.Version, "ModelInfo should report the artifact version")
	assert.Equal(t, 0.852, info.Accuracy, "ModelInfo should report the artifact accuracy")
	assert.Equal(t, 13, info.FeatureCount, "ModelInfo should report the feature count")
}
