package utils

import (
	"testing"

	"heartshield-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateStructCreateAssessment(t *testing.T) {
	t.Run("Zero Valued Readings Are Accepted", func(t *testing.T) {
		request := &requests.CreateAssessment{
			SubjectRef: "Patient/123",
			Readings: []requests.ManualReading{
				{Name: "sex", Value: floatPtr(0)},
				{Name: "exercise_angina", Value: floatPtr(0)},
				{Name: "st_depression", Value: floatPtr(0)},
			},
		}

		err := ValidateStruct(request)

		assert.NoError(t, err, "a reading of zero is a legitimate value, not an omission")
	})

	t.Run("Reading Without A Value Is Rejected", func(t *testing.T) {
		request := &requests.CreateAssessment{
			SubjectRef: "Patient/123",
			Readings: []requests.ManualReading{
				{Name: "age"},
			},
		}

		err := ValidateStruct(request)

		assert.Error(t, err, "a reading must carry a value")
	})

	t.Run("Unknown Reading Name Is Rejected", func(t *testing.T) {
		request := &requests.CreateAssessment{
			SubjectRef: "Patient/123",
			Readings: []requests.ManualReading{
				{Name: "shoe_size", Value: floatPtr(42)},
			},
		}

		err := ValidateStruct(request)

		assert.Error(t, err)
	})
}
