package controllers

import (
	"net/http"
	"sync"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/dto/responses"
	"heartshield-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type HealthController struct {
	Log        *zap.Logger
	Classifier contracts.RiskClassifier
}

var (
	healthControllerInstance *HealthController
	onceHealthController     sync.Once
)

func NewHealthController(logger *zap.Logger, classifier contracts.RiskClassifier) *HealthController {
	onceHealthController.Do(func() {
		instance := &HealthController{
			Log:        logger,
			Classifier: classifier,
		}
		healthControllerInstance = instance
	})
	return healthControllerInstance
}

func (ctrl *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	info := ctrl.Classifier.ModelInfo()
	response := responses.Health{
		Status: "ok",
		Model: responses.ModelStatus{
			Version:  info.Version,
			Accuracy: info.Accuracy,
			Features: info.FeatureCount,
		},
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccessMessage, response)
}
