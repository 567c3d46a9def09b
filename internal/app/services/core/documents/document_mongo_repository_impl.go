package documents

import (
	"context"

	"heartshield-service/internal/app/contracts"
	"heartshield-service/internal/app/models"
	"heartshield-service/internal/pkg/constvars"
	"heartshield-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentMongoRepository persists MedicalDocument records. Documents are
// insert-only; there is deliberately no update method.
type DocumentMongoRepository struct {
	Collection *mongo.Collection
}

func NewDocumentMongoRepository(db *mongo.Client, dbName string) contracts.DocumentRepository {
	return &DocumentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDocuments),
	}
}

func (repo *DocumentMongoRepository) CreateDocument(ctx context.Context, document *models.MedicalDocument) (documentID string, err error) {
	result, err := repo.Collection.InsertOne(ctx, document)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *DocumentMongoRepository) FindByID(ctx context.Context, documentID string) (*models.MedicalDocument, error) {
	objectID, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	var document models.MedicalDocument
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&document)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &document, nil
}

func (repo *DocumentMongoRepository) FindAllByUploaderRef(ctx context.Context, uploaderRef string, page, pageSize int) ([]models.MedicalDocument, int, error) {
	filter := bson.M{"uploaderRef": uploaderRef}

	total, err := repo.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}
	var documents []models.MedicalDocument
	if err = cursor.All(ctx, &documents); err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return documents, int(total), nil
}
