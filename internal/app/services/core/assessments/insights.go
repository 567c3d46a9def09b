package assessments

import (
	"fmt"

	"heartshield-service/internal/app/models"
)

// buildInsights derives plain-language observations from the readings that
// went into a completed assessment. They ride along with the result so the
// dashboard can explain the category without re-deriving anything.
func buildInsights(inputs models.FieldSet) []string {
	var insights []string

	if age, ok := inputs.Value(models.FieldAge); ok {
		switch {
		case age > 60:
			insights = append(insights, "age above 60 is a significant cardiovascular risk factor")
		case age > 50:
			insights = append(insights, "age above 50 moderately raises cardiovascular risk")
		}
	}

	if chol, ok := inputs.Value(models.FieldCholesterol); ok {
		switch {
		case chol > 240:
			insights = append(insights, fmt.Sprintf("total cholesterol %.0f mg/dL is high", chol))
		case chol > 200:
			insights = append(insights, fmt.Sprintf("total cholesterol %.0f mg/dL is borderline high", chol))
		}
	}

	systolic, hasSystolic := inputs.Value(models.FieldSystolicBP)
	diastolic, hasDiastolic := inputs.Value(models.FieldDiastolicBP)
	switch {
	case hasSystolic && systolic > 140, hasDiastolic && diastolic > 90:
		insights = append(insights, "blood pressure is in the hypertensive range")
	case hasSystolic && systolic > 130, hasDiastolic && diastolic > 85:
		insights = append(insights, "blood pressure is elevated")
	}

	if hr, ok := inputs.Value(models.FieldHeartRate); ok {
		switch {
		case hr > 100:
			insights = append(insights, fmt.Sprintf("resting heart rate %.0f bpm is above the normal range", hr))
		case hr < 60:
			insights = append(insights, fmt.Sprintf("resting heart rate %.0f bpm is below the normal range", hr))
		}
	}

	if glucose, ok := inputs.Value(models.FieldGlucose); ok {
		switch {
		case glucose > 126:
			insights = append(insights, fmt.Sprintf("fasting glucose %.0f mg/dL is in the diabetic range", glucose))
		case glucose > 100:
			insights = append(insights, fmt.Sprintf("fasting glucose %.0f mg/dL is in the prediabetic range", glucose))
		}
	}

	return insights
}

var categoryRecommendations = map[models.RiskCategory][]string{
	models.RiskCategoryLow: {
		"maintain a heart-healthy diet",
		"continue regular physical activity",
		"schedule routine checkups with your doctor",
	},
	models.RiskCategoryModerate: {
		"discuss these results with your doctor",
		"reduce saturated fat and sodium intake",
		"aim for at least 150 minutes of moderate exercise per week",
		"monitor your blood pressure and cholesterol regularly",
	},
	models.RiskCategoryHigh: {
		"consult a cardiologist as soon as possible",
		"follow a strict heart-healthy diet plan",
		"monitor blood pressure and cholesterol closely",
		"avoid smoking and limit alcohol",
	},
}

// buildRecommendations returns the category's standing advice plus any
// additions the individual readings call for.
func buildRecommendations(category models.RiskCategory, inputs models.FieldSet) []string {
	recommendations := make([]string, 0, 6)
	recommendations = append(recommendations, categoryRecommendations[category]...)

	if age, ok := inputs.Value(models.FieldAge); ok && age > 50 {
		recommendations = append(recommendations, "consider an annual cardiac screening given your age")
	}
	if chol, ok := inputs.Value(models.FieldCholesterol); ok && chol > 200 {
		recommendations = append(recommendations, "ask your doctor about a full lipid panel")
	}

	return recommendations
}
