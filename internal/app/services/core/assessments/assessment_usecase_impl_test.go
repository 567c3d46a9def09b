package assessments

import (
	"context"
	"testing"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/dto/requests"
	"heartshield-service/internal/pkg/dto/responses"
	"heartshield-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAssessmentRepo struct {
	created []*models.RiskAssessment
	stored  map[string]*models.RiskAssessment
}

func (f *fakeAssessmentRepo) CreateAssessment(_ context.Context, assessment *models.RiskAssessment) (string, error) {
	f.created = append(f.created, assessment)
	return "assessment-1", nil
}

func (f *fakeAssessmentRepo) FindByID(_ context.Context, assessmentID string) (*models.RiskAssessment, error) {
	return f.stored[assessmentID], nil
}

func (f *fakeAssessmentRepo) FindAllBySubjectRef(_ context.Context, subjectRef, risk string, page, pageSize int) ([]models.RiskAssessment, int, error) {
	var matched []models.RiskAssessment
	for _, assessment := range f.stored {
		if assessment.SubjectRef == subjectRef {
			matched = append(matched, *assessment)
		}
	}
	return matched, len(matched), nil
}

type fakeDocumentRepo struct {
	documents map[string]*models.MedicalDocument
}

func (f *fakeDocumentRepo) CreateDocument(_ context.Context, _ *models.MedicalDocument) (string, error) {
	return "", nil
}

func (f *fakeDocumentRepo) FindByID(_ context.Context, documentID string) (*models.MedicalDocument, error) {
	return f.documents[documentID], nil
}

func (f *fakeDocumentRepo) FindAllByUploaderRef(_ context.Context, _ string, _, _ int) ([]models.MedicalDocument, int, error) {
	return nil, 0, nil
}

type fakeJobRepo struct {
	jobs map[string]*models.ExtractionJob
}

func (f *fakeJobRepo) CreateJob(_ context.Context, _ *models.ExtractionJob) (string, error) {
	return "", nil
}

func (f *fakeJobRepo) FindJobByID(_ context.Context, _ string) (*models.ExtractionJob, error) {
	return nil, nil
}

func (f *fakeJobRepo) FindLatestJobByDocumentID(_ context.Context, documentID string) (*models.ExtractionJob, error) {
	return f.jobs[documentID], nil
}

func (f *fakeJobRepo) UpdateJob(_ context.Context, _ *models.ExtractionJob) error { return nil }

func (f *fakeJobRepo) FindStaleJobs(_ context.Context, _ time.Time, _ int) ([]models.ExtractionJob, error) {
	return nil, nil
}

type fakeClassifier struct {
	missing       []models.FieldName
	invalid       []models.FieldIssue
	result        *models.RiskResult
	classifyErr   error
	classifyCalls int
}

func (f *fakeClassifier) Classify(_ context.Context, _ models.FieldSet) (*models.RiskResult, error) {
	f.classifyCalls++
	if f.classifyErr != nil {
		return nil, f.classifyErr
	}
	return f.result, nil
}

func (f *fakeClassifier) ValidateInputs(_ models.FieldSet) ([]models.FieldName, []models.FieldIssue) {
	return f.missing, f.invalid
}

func (f *fakeClassifier) ModelInfo() models.ModelInfo {
	return models.ModelInfo{Version: "test", Accuracy: 0.9, FeatureCount: 13}
}

func floatPtr(v float64) *float64 { return &v }

func newTestUsecase(repo *fakeAssessmentRepo, docs *fakeDocumentRepo, jobs *fakeJobRepo, clf *fakeClassifier) *assessmentUsecase {
	return &assessmentUsecase{
		AssessmentRepository:    repo,
		DocumentRepository:      docs,
		ExtractionJobRepository: jobs,
		Classifier:              clf,
		InternalConfig: &config.InternalConfig{
			Assessment: config.AppAssessment{MinFieldConfidence: 0.5},
		},
		Log: zap.NewNop(),
	}
}

func succeededJob(documentID string, fields models.FieldSet) *models.ExtractionJob {
	return &models.ExtractionJob{
		DocumentID: documentID,
		Status:     models.ExtractionStatusSucceeded,
		Fields:     fields,
	}
}

func TestCreateAssessment(t *testing.T) {
	ctx := context.Background()
	subject := "Patient/123"

	t.Run("Missing Required Fields Fails Without Classifying", func(t *testing.T) {
		repo := &fakeAssessmentRepo{}
		clf := &fakeClassifier{missing: []models.FieldName{models.FieldAge, models.FieldCholesterol}}
		uc := newTestUsecase(repo, &fakeDocumentRepo{}, &fakeJobRepo{}, clf)

		_, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{SubjectRef: subject})

		assert.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, 422, customErr.StatusCode)

		details, ok := customErr.Details.(*responses.AssessmentFailure)
		assert.True(t, ok, "details should name the offending readings")
		assert.Equal(t, string(models.AssessmentStateValidating), details.Stage)
		assert.Contains(t, details.MissingFields, "age")
		assert.Contains(t, details.MissingFields, "cholesterol")

		assert.Zero(t, clf.classifyCalls, "the classifier must never see incomplete inputs")

		assert.Len(t, repo.created, 1, "the failed run should still be recorded")
		assert.Equal(t, models.AssessmentStateFailed, repo.created[0].State)
		assert.NotNil(t, repo.created[0].Failure)
	})

	t.Run("Manual Readings Override Extracted Values", func(t *testing.T) {
		docs := &fakeDocumentRepo{documents: map[string]*models.MedicalDocument{
			"doc-1": {ID: "doc-1", UploaderRef: subject},
		}}
		extracted := models.FieldSet{}
		extracted.Put(models.ExtractedField{
			Name: models.FieldCholesterol, Value: 240, Confidence: 0.8,
			Source: models.FieldSourceExtracted,
		})
		jobs := &fakeJobRepo{jobs: map[string]*models.ExtractionJob{
			"doc-1": succeededJob("doc-1", extracted),
		}}
		repo := &fakeAssessmentRepo{}
		clf := &fakeClassifier{result: &models.RiskResult{Category: models.RiskCategoryLow, Probability: 0.1, ModelVersion: "test"}}
		uc := newTestUsecase(repo, docs, jobs, clf)

		response, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef:  subject,
			DocumentIDs: []string{"doc-1"},
			Readings: []requests.ManualReading{
				{Name: "cholesterol", Value: floatPtr(200), Unit: "mg/dL"},
			},
		})

		assert.NoError(t, err)
		assert.Len(t, repo.created, 1)
		stored := repo.created[0]
		assert.Equal(t, 200.0, stored.Inputs[models.FieldCholesterol].Value, "the manual reading must win")
		assert.Equal(t, models.FieldSourceManual, stored.Inputs[models.FieldCholesterol].Source)
		assert.Equal(t, 1.0, stored.Inputs[models.FieldCholesterol].Confidence)
		assert.Equal(t, string(models.AssessmentStateComplete), response.State)
	})

	t.Run("Zero Valued Manual Reading Is An Override Not An Omission", func(t *testing.T) {
		repo := &fakeAssessmentRepo{}
		clf := &fakeClassifier{result: &models.RiskResult{Category: models.RiskCategoryLow, Probability: 0.1, ModelVersion: "test"}}
		uc := newTestUsecase(repo, &fakeDocumentRepo{}, &fakeJobRepo{}, clf)

		response, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef: subject,
			Readings: []requests.ManualReading{
				{Name: "sex", Value: floatPtr(0)},
				{Name: "exercise_angina", Value: floatPtr(0)},
			},
		})

		assert.NoError(t, err)
		assert.Len(t, repo.created, 1)
		stored := repo.created[0]
		sex, hasSex := stored.Inputs[models.FieldSex]
		assert.True(t, hasSex, "a zero sex reading must reach the classifier inputs")
		assert.Equal(t, 0.0, sex.Value)
		assert.Equal(t, models.FieldSourceManual, sex.Source)
		assert.Equal(t, string(models.AssessmentStateComplete), response.State)
	})

	t.Run("Low Confidence Extracted Fields Are Treated As Absent", func(t *testing.T) {
		docs := &fakeDocumentRepo{documents: map[string]*models.MedicalDocument{
			"doc-1": {ID: "doc-1", UploaderRef: subject},
		}}
		extracted := models.FieldSet{}
		extracted.Put(models.ExtractedField{
			Name: models.FieldCholesterol, Value: 240, Confidence: 0.3,
			Source: models.FieldSourceExtracted,
		})
		jobs := &fakeJobRepo{jobs: map[string]*models.ExtractionJob{
			"doc-1": succeededJob("doc-1", extracted),
		}}
		clf := &fakeClassifier{missing: []models.FieldName{models.FieldCholesterol}}
		uc := newTestUsecase(&fakeAssessmentRepo{}, docs, jobs, clf)

		_, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef:  subject,
			DocumentIDs: []string{"doc-1"},
		})

		assert.Error(t, err, "a reading below the confidence floor must be confirmed manually")
		assert.Zero(t, clf.classifyCalls)
	})

	t.Run("Unsupported Manual Unit Is Reported Not Dropped", func(t *testing.T) {
		clf := &fakeClassifier{}
		uc := newTestUsecase(&fakeAssessmentRepo{}, &fakeDocumentRepo{}, &fakeJobRepo{}, clf)

		_, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef: subject,
			Readings: []requests.ManualReading{
				{Name: "heart_rate", Value: floatPtr(88), Unit: "mg/dL"},
			},
		})

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		details := customErr.Details.(*responses.AssessmentFailure)
		assert.Len(t, details.InvalidFields, 1)
		assert.Equal(t, "heart_rate", details.InvalidFields[0].Name)
		assert.Zero(t, clf.classifyCalls)
	})

	t.Run("Document Owned By Someone Else Is Not Found", func(t *testing.T) {
		docs := &fakeDocumentRepo{documents: map[string]*models.MedicalDocument{
			"doc-1": {ID: "doc-1", UploaderRef: "Patient/999"},
		}}
		uc := newTestUsecase(&fakeAssessmentRepo{}, docs, &fakeJobRepo{}, &fakeClassifier{})

		_, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef:  subject,
			DocumentIDs: []string{"doc-1"},
		})

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 404, customErr.StatusCode, "another subject's document must look nonexistent")
	})

	t.Run("Pending Extraction Blocks The Assessment", func(t *testing.T) {
		docs := &fakeDocumentRepo{documents: map[string]*models.MedicalDocument{
			"doc-1": {ID: "doc-1", UploaderRef: subject},
		}}
		jobs := &fakeJobRepo{jobs: map[string]*models.ExtractionJob{
			"doc-1": {DocumentID: "doc-1", Status: models.ExtractionStatusRunning},
		}}
		uc := newTestUsecase(&fakeAssessmentRepo{}, docs, jobs, &fakeClassifier{})

		_, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef:  subject,
			DocumentIDs: []string{"doc-1"},
		})

		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 409, customErr.StatusCode)
	})

	t.Run("Completed Run Carries Result Insights And Recommendations", func(t *testing.T) {
		repo := &fakeAssessmentRepo{}
		clf := &fakeClassifier{result: &models.RiskResult{
			Category: models.RiskCategoryHigh, Probability: 0.82, ModelVersion: "3.0.0",
		}}
		uc := newTestUsecase(repo, &fakeDocumentRepo{}, &fakeJobRepo{}, clf)

		response, err := uc.CreateAssessment(ctx, &requests.CreateAssessment{
			SubjectRef: subject,
			Readings: []requests.ManualReading{
				{Name: "age", Value: floatPtr(61)},
				{Name: "cholesterol", Value: floatPtr(250), Unit: "mg/dL"},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "assessment-1", response.AssessmentID)
		assert.Equal(t, "high", response.Result.Category)
		assert.InDelta(t, 0.82, response.Result.Probability, 1e-9)
		assert.NotEmpty(t, response.Insights, "elevated age and cholesterol should surface insights")
		assert.NotEmpty(t, response.Recommendations)
		assert.Equal(t, 1, clf.classifyCalls)
	})
}

func TestFindAssessmentByID(t *testing.T) {
	ctx := context.Background()

	repo := &fakeAssessmentRepo{stored: map[string]*models.RiskAssessment{
		"assessment-1": {ID: "assessment-1", SubjectRef: "Patient/123", State: models.AssessmentStateComplete},
	}}
	uc := newTestUsecase(repo, &fakeDocumentRepo{}, &fakeJobRepo{}, &fakeClassifier{})

	t.Run("Owner Can Read", func(t *testing.T) {
		response, err := uc.FindAssessmentByID(ctx, &requests.FindAssessmentByID{
			AssessmentID: "assessment-1",
			SubjectRef:   "Patient/123",
		})
		assert.NoError(t, err)
		assert.Equal(t, "assessment-1", response.AssessmentID)
	})

	t.Run("Other Subject Gets Not Found", func(t *testing.T) {
		_, err := uc.FindAssessmentByID(ctx, &requests.FindAssessmentByID{
			AssessmentID: "assessment-1",
			SubjectRef:   "Patient/999",
		})
		assert.Error(t, err)
		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, 404, customErr.StatusCode)
	})

	t.Run("Unknown ID Gets Not Found", func(t *testing.T) {
		_, err := uc.FindAssessmentByID(ctx, &requests.FindAssessmentByID{
			AssessmentID: "missing",
			SubjectRef:   "Patient/123",
		})
		assert.Error(t, err)
	})
}
