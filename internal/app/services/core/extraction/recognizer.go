package extraction

import (
	"context"
	"strings"
	"sync"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/exceptions"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

type tesseractRecognizer struct {
	Log *zap.Logger
}

var (
	recognizerInstance contracts.TextRecognizer
	onceRecognizer     sync.Once
)

// NewTesseractRecognizer returns the OCR boundary backed by the local
// Tesseract installation. A fresh client is created per call; gosseract
// clients are not safe for concurrent use.
func NewTesseractRecognizer(logger *zap.Logger) contracts.TextRecognizer {
	onceRecognizer.Do(func() {
		recognizerInstance = &tesseractRecognizer{Log: logger}
	})
	return recognizerInstance
}

func (r *tesseractRecognizer) Recognize(ctx context.Context, imageData []byte) (*models.RecognizedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, exceptions.ErrExtractionRecognizer(err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, exceptions.ErrExtractionRecognizer(err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, exceptions.ErrExtractionRecognizer(err)
	}

	confidence := 0.0
	if len(boxes) > 0 {
		var sum float64
		for _, box := range boxes {
			sum += box.Confidence
		}
		confidence = sum / float64(len(boxes)) / 100
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	r.Log.Debug("tesseractRecognizer.Recognize finished",
		zap.Int("recognized_chars", len(strings.TrimSpace(text))),
		zap.Float64("mean_word_confidence", confidence),
	)

	return &models.RecognizedText{Text: text, Confidence: confidence}, nil
}

// Close releases nothing today; clients live per call.
func (r *tesseractRecognizer) Close() error {
	return nil
}
