package extraction

import (
	"context"
	"time"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ExtractionJobMongoRepository struct {
	Collection *mongo.Collection
}

func NewExtractionJobMongoRepository(db *mongo.Client, dbName string) contracts.ExtractionJobRepository {
	return &ExtractionJobMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionExtractionJobs),
	}
}

func (repo *ExtractionJobMongoRepository) CreateJob(ctx context.Context, job *models.ExtractionJob) (jobID string, err error) {
	result, err := repo.Collection.InsertOne(ctx, job)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *ExtractionJobMongoRepository) FindJobByID(ctx context.Context, jobID string) (*models.ExtractionJob, error) {
	objectID, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	var job models.ExtractionJob
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &job, nil
}

func (repo *ExtractionJobMongoRepository) FindLatestJobByDocumentID(ctx context.Context, documentID string) (*models.ExtractionJob, error) {
	var job models.ExtractionJob
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := repo.Collection.FindOne(ctx, bson.M{"documentId": documentID}, opts).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &job, nil
}

func (repo *ExtractionJobMongoRepository) UpdateJob(ctx context.Context, job *models.ExtractionJob) error {
	objectID, err := primitive.ObjectIDFromHex(job.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	job.SetUpdatedAt()
	update := bson.M{"$set": bson.M{
		"status":          job.Status,
		"attempt":         job.Attempt,
		"reason":          job.Reason,
		"documentType":    job.DocumentType,
		"fields":          job.Fields,
		"completeness":    job.Completeness,
		"recognizedChars": job.RecognizedChars,
		"startedAt":       job.StartedAt,
		"finishedAt":      job.FinishedAt,
		"updatedAt":       job.UpdatedAt,
	}}
	_, err = repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// FindStaleJobs lists non-terminal jobs untouched since olderThan, oldest
// first, capped at limit.
func (repo *ExtractionJobMongoRepository) FindStaleJobs(ctx context.Context, olderThan time.Time, limit int) ([]models.ExtractionJob, error) {
	filter := bson.M{
		"status":    bson.M{"$in": []models.ExtractionStatus{models.ExtractionStatusQueued, models.ExtractionStatusRunning}},
		"updatedAt": bson.M{"$lt": olderThan},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}}).SetLimit(int64(limit))

	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	var jobs []models.ExtractionJob
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return jobs, nil
}
