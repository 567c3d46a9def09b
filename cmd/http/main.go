package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heartshield-service/internal/app/config"
	"heartshield-service/internal/app/delivery/http/controllers"
	"heartshield-service/internal/app/delivery/http/middlewares"
	"heartshield-service/internal/app/delivery/http/routers"
	"heartshield-service/internal/app/drivers/database"
	"heartshield-service/internal/app/drivers/logger"
	"heartshield-service/internal/app/drivers/messaging"
	minioDriver "heartshield-service/internal/app/drivers/storage"
	"heartshield-service/internal/app/services/core/assessments"
	"heartshield-service/internal/app/services/core/classifier"
	"heartshield-service/internal/app/services/core/documents"
	"heartshield-service/internal/app/services/core/extraction"
	"heartshield-service/internal/app/services/shared/extractionqueue"
	"heartshield-service/internal/app/services/shared/locker"
	"heartshield-service/internal/app/services/shared/ratelimiter"
	"heartshield-service/internal/app/services/shared/redis"
	minioStorage "heartshield-service/internal/app/services/shared/storage"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := minioDriver.NewMinio(driverConfig)
	minioDriver.EnsureBucket(minioClient, internalConfig.Minio.DocumentBucketName)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQConn,
		MinioClient:    minioClient,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	bootstrapingTheApp(&bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrus.Printf("Error during dependency shutdown: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig
	dbName := bootstrap.DriverConfig.MongoDB.HeartShieldDbName

	// The service refuses to start without a valid model artifact so no
	// request is ever answered by an unscored model.
	artifact, err := classifier.LoadArtifact(internalConfig.Model.ArtifactPath)
	if err != nil {
		log.Fatal("Failed to load classification model artifact",
			zap.String("artifact_path", internalConfig.Model.ArtifactPath),
			zap.Error(err),
		)
	}
	riskClassifier := classifier.NewClassifierService(artifact, log)

	// Shared services
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)
	storage := minioStorage.NewMinioStorage(bootstrap.MinioClient)
	uploadQuota := ratelimiter.NewUploadQuota(redisRepository, log, internalConfig.Documents.UploadBurst)

	extractionQueue, err := extractionqueue.NewService(
		bootstrap.RabbitMQ,
		log,
		internalConfig.Extraction.WorkerCount,
		internalConfig.Extraction.QueueName,
	)
	if err != nil {
		log.Fatal("Failed to initialize extraction queue", zap.Error(err))
	}

	// Repositories
	documentRepository := documents.NewDocumentMongoRepository(bootstrap.MongoClient, dbName)
	extractionJobRepository := extraction.NewExtractionJobMongoRepository(bootstrap.MongoClient, dbName)
	assessmentRepository := assessments.NewAssessmentMongoRepository(bootstrap.MongoClient, dbName)

	// Extraction pipeline
	recognizer := extraction.NewTesseractRecognizer(log)
	fieldExtractor := extraction.NewFieldExtractor(recognizer, log)

	worker := extraction.NewWorker(
		log,
		internalConfig,
		lockerService,
		extractionQueue,
		extractionJobRepository,
		documentRepository,
		storage,
		redisRepository,
		fieldExtractor,
	)
	bootstrap.WorkerStop = worker.Start(context.Background())

	sweeper := extraction.NewSweeper(log, internalConfig, lockerService, extractionJobRepository, redisRepository)
	sweeper.Start(context.Background())
	bootstrap.SweeperStop = sweeper.Stop

	// Usecases
	documentUsecase := documents.NewDocumentUsecase(
		documentRepository,
		extractionJobRepository,
		storage,
		extractionQueue,
		redisRepository,
		uploadQuota,
		internalConfig,
		log,
	)
	assessmentUsecase := assessments.NewAssessmentUsecase(
		assessmentRepository,
		documentRepository,
		extractionJobRepository,
		riskClassifier,
		internalConfig,
		log,
	)

	// Delivery
	healthController := controllers.NewHealthController(log, riskClassifier)
	documentController := controllers.NewDocumentController(log, documentUsecase)
	assessmentController := controllers.NewAssessmentController(log, assessmentUsecase)
	appMiddlewares := middlewares.NewMiddlewares(log, internalConfig)

	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		appMiddlewares,
		healthController,
		documentController,
		assessmentController,
	)
}
