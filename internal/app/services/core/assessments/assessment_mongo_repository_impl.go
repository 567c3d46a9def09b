package assessments

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

type AssessmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAssessmentMongoRepository(db *mongo.Client, dbName string) contracts.AssessmentRepository {
	return &AssessmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAssessments),
	}
}

func (repo *AssessmentMongoRepository) CreateAssessment(ctx context.Context, assessment *models.RiskAssessment) (assessmentID string, err error) {
	result, err := repo.Collection.InsertOne(ctx, assessment)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *AssessmentMongoRepository) FindByID(ctx context.Context, assessmentID string) (*models.RiskAssessment, error) {
	objectID, err := primitive.ObjectIDFromHex(assessmentID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	var assessment models.RiskAssessment
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&assessment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &assessment, nil
}

// FindAllBySubjectRef lists a subject's assessments newest first, which is
// the order the trend dashboard consumes them in. The risk filter, when set,
// narrows to completed assessments of that category.
func (repo *AssessmentMongoRepository) FindAllBySubjectRef(ctx context.Context, subjectRef string, risk string, page, pageSize int) ([]models.RiskAssessment, int, error) {
	filter := bson.M{"subjectRef": subjectRef}
	if risk != "" {
		filter["result.category"] = risk
	}

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
	var assessments []models.RiskAssessment
	if err = cursor.All(ctx, &assessments); err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return assessments, int(total), nil
}
