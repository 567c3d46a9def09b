package extraction

import (
	"context"
	"strings"
	"sync"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// Diagnostic reasons reported for documents no fields could be read from.
const (
	ReasonUnsupportedImage   = "unsupported image format"
	ReasonNoRecognizableText = "no recognizable text"
	ReasonNotMedical         = "document does not appear to be medical"
	ReasonNoMedicalFields    = "no recognizable medical fields"
	ReasonTimedOut           = "extraction timed out"
	ReasonStalled            = "extraction did not complete in time"
)

// minRecognizableChars is the gate under which recognizer output is treated
// as noise.
const minRecognizableChars = 10

type fieldExtractor struct {
	Recognizer contracts.TextRecognizer
	Log        *zap.Logger
}

var (
	fieldExtractorInstance contracts.FieldExtractor
	onceFieldExtractor     sync.Once
)

func NewFieldExtractor(recognizer contracts.TextRecognizer, logger *zap.Logger) contracts.FieldExtractor {
	onceFieldExtractor.Do(func() {
		fieldExtractorInstance = &fieldExtractor{
			Recognizer: recognizer,
			Log:        logger,
		}
	})
	return fieldExtractorInstance
}

// Extract runs the full pipeline: preprocess, recognize the better variant,
// gate, type the document, then parse fields. Unreadable content yields an
// empty FieldSet with a diagnostic reason; only recognizer breakage or a
// dead context returns an error.
func (s *fieldExtractor) Extract(ctx context.Context, imageData []byte) (*models.ExtractionOutcome, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	variants, err := preprocessVariants(imageData)
	if err != nil {
		s.Log.Warn("fieldExtractor.Extract cannot decode image",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return emptyOutcome(ReasonUnsupportedImage, 0), nil
	}

	best := &models.RecognizedText{}
	for _, variant := range variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recognized, err := s.Recognizer.Recognize(ctx, variant)
		if err != nil {
			return nil, err
		}
		if len(recognized.Text) > len(best.Text) {
			best = recognized
		}
	}

	trimmed := strings.TrimSpace(best.Text)
	if len(trimmed) < minRecognizableChars {
		return emptyOutcome(ReasonNoRecognizableText, len(trimmed)), nil
	}

	lower := strings.ToLower(best.Text)
	if !isMedicalText(lower) {
		return emptyOutcome(ReasonNotMedical, len(trimmed)), nil
	}

	docType := classifyDocumentType(lower)
	profile := profileFor(docType)
	fields := parseFields(lower, profile, best.Confidence)

	reason := ""
	if len(fields) == 0 {
		reason = ReasonNoMedicalFields
	}

	outcome := &models.ExtractionOutcome{
		DocumentType:    docType,
		Fields:          fields,
		Completeness:    fields.GradeCompleteness(),
		Reason:          reason,
		RecognizedChars: len(trimmed),
	}

	s.Log.Info("fieldExtractor.Extract finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDocumentTypeKey, string(docType)),
		zap.Int("field_count", len(fields)),
		zap.String("completeness", string(outcome.Completeness)),
	)
	return outcome, nil
}

func emptyOutcome(reason string, recognizedChars int) *models.ExtractionOutcome {
	return &models.ExtractionOutcome{
		DocumentType:    models.DocumentTypeGeneral,
		Fields:          models.FieldSet{},
		Completeness:    models.CompletenessPoor,
		Reason:          reason,
		RecognizedChars: recognizedChars,
	}
}
