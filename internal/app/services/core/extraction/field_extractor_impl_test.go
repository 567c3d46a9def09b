package extraction

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"heartshield-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubRecognizer struct {
	text       string
	confidence float64
	err        error
	calls      int
}

func (s *stubRecognizer) Recognize(_ context.Context, _ []byte) (*models.RecognizedText, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.RecognizedText{Text: s.text, Confidence: s.confidence}, nil
}

func testImagePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	err := png.Encode(&buf, img)
	assert.NoError(t, err)
	return buf.Bytes()
}

func TestFieldExtractorExtract(t *testing.T) {
	logger := zap.NewNop()

	t.Run("Unsupported Image Yields Empty Outcome Without Error", func(t *testing.T) {
		extractor := &fieldExtractor{
			Recognizer: &stubRecognizer{},
			Log:        logger,
		}

		outcome, err := extractor.Extract(context.Background(), []byte("not an image"))

		assert.NoError(t, err, "unreadable content is an outcome, not an error")
		assert.Empty(t, outcome.Fields)
		assert.Equal(t, ReasonUnsupportedImage, outcome.Reason)
		assert.Equal(t, models.CompletenessPoor, outcome.Completeness)
	})

	t.Run("Blank Page Yields No Recognizable Text", func(t *testing.T) {
		recognizer := &stubRecognizer{text: "  ab  ", confidence: 0.9}
		extractor := &fieldExtractor{Recognizer: recognizer, Log: logger}

		outcome, err := extractor.Extract(context.Background(), testImagePNG(t))

		assert.NoError(t, err)
		assert.Empty(t, outcome.Fields)
		assert.Equal(t, ReasonNoRecognizableText, outcome.Reason)
	})

	t.Run("Non Medical Document Is Gated", func(t *testing.T) {
		recognizer := &stubRecognizer{
			text:       "quarterly revenue grew by twelve percent across all regional offices",
			confidence: 0.9,
		}
		extractor := &fieldExtractor{Recognizer: recognizer, Log: logger}

		outcome, err := extractor.Extract(context.Background(), testImagePNG(t))

		assert.NoError(t, err)
		assert.Empty(t, outcome.Fields)
		assert.Equal(t, ReasonNotMedical, outcome.Reason)
	})

	t.Run("Medical Document Without Readings Reports Reason", func(t *testing.T) {
		recognizer := &stubRecognizer{
			text:       "the patient visited the clinic for a routine checkup with the doctor",
			confidence: 0.9,
		}
		extractor := &fieldExtractor{Recognizer: recognizer, Log: logger}

		outcome, err := extractor.Extract(context.Background(), testImagePNG(t))

		assert.NoError(t, err)
		assert.Empty(t, outcome.Fields)
		assert.Equal(t, ReasonNoMedicalFields, outcome.Reason)
	})

	t.Run("Lab Report Produces Typed Fields", func(t *testing.T) {
		recognizer := &stubRecognizer{
			text: "Laboratory Test Results\n" +
				"Patient: Jane Doe\n" +
				"Lipid Profile\n" +
				"Age: 55\n" +
				"Blood Pressure: 150/95 mmHg\n" +
				"Total Cholesterol: 240 mg/dL\n",
			confidence: 0.9,
		}
		extractor := &fieldExtractor{Recognizer: recognizer, Log: logger}

		outcome, err := extractor.Extract(context.Background(), testImagePNG(t))

		assert.NoError(t, err)
		assert.Equal(t, models.DocumentTypeLabReport, outcome.DocumentType)
		assert.Empty(t, outcome.Reason)
		assert.True(t, outcome.Fields.Has(models.FieldAge))
		assert.True(t, outcome.Fields.Has(models.FieldSystolicBP))
		assert.True(t, outcome.Fields.Has(models.FieldCholesterol))
		assert.Equal(t, models.CompletenessExcellent, outcome.Completeness,
			"all critical readings present should grade excellent")
		assert.Equal(t, 2, recognizer.calls, "both preprocess variants should be recognized")
	})

	t.Run("Recognizer Failure Propagates", func(t *testing.T) {
		recognizer := &stubRecognizer{err: errors.New("tesseract unavailable")}
		extractor := &fieldExtractor{Recognizer: recognizer, Log: logger}

		outcome, err := extractor.Extract(context.Background(), testImagePNG(t))

		assert.Error(t, err)
		assert.Nil(t, outcome)
	})

	t.Run("Cancelled Context Stops The Pipeline", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		extractor := &fieldExtractor{Recognizer: &stubRecognizer{text: "x", confidence: 1}, Log: logger}

		_, err := extractor.Extract(ctx, testImagePNG(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
