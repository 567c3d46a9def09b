package main

import (
	"flag"
	"os"

	"heartshield-service/internal/app/drivers/logger"
	"heartshield-service/internal/app/services/core/classifier"
	"heartshield-service/internal/pkg/utils"

	"github.com/sirupsen/logrus"
)

// modelcheck validates a classification model artifact without starting the
// service. Deploy pipelines run it against a candidate artifact before
// swapping it in.
func main() {
	defaultPath := utils.GetEnvString("MODEL_ARTIFACT_PATH", "model/heart_model.json")
	artifactPath := flag.String("artifact", defaultPath, "path to the model artifact JSON")
	flag.Parse()

	log := logger.NewLogrusLogger(utils.GetEnvString("APP_ENV", "development"))

	artifact, err := classifier.LoadArtifact(*artifactPath)
	if err != nil {
		log.WithFields(logrus.Fields{
			"artifact_path": *artifactPath,
		}).WithError(err).Error("model artifact rejected")
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"artifact_path": *artifactPath,
		"version":       artifact.Version,
		"accuracy":      artifact.Accuracy,
		"features":      len(artifact.Features),
	}).Info("model artifact valid")
}
