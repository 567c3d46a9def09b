package config

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5"
	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	MongoClient    *mongo.Client
	Redis          *redis.Client
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	MinioClient    *minio.Client
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop if set will be called during Shutdown to gracefully stop the
	// extraction consumers
	WorkerStop  func()
	SweeperStop func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	if b.WorkerStop != nil {
		b.WorkerStop()
		log.Println("Successfully stopped extraction workers")
	}

	if b.SweeperStop != nil {
		b.SweeperStop()
		log.Println("Successfully stopped extraction sweeper")
	}

	err := b.Redis.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Redis")

	err = b.RabbitMQ.Close()
	if err != nil {
		return err
	}
	log.Println("Successfully closing RabbitMQ")

	err = b.MongoClient.Disconnect(ctx)
	if err != nil {
		return err
	}
	log.Println("Successfully closing MongoDB")

	err = b.Logger.Sync()
	if err != nil {
		return err
	}
	log.Println("Successfully closing Logger")

	return nil
}
