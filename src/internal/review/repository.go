package review

import (
	"context"
	"errors"
	"fmt"

	"employee-review-svc/src/clients"
	"employee-review-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	List(ctx context.Context, filter Filter, page, limit int) ([]*Review, int64, error)
	AverageRating(ctx context.Context, filter Filter) (float64, error)
	EnsureIndexes(ctx context.Context) error
}

// Filter narrows List and AverageRating. Zero ids match everything.
type Filter struct {
	EmployeeID primitive.ObjectID
	ReviewerID primitive.ObjectID
}

func (f Filter) bson() bson.M {
	m := bson.M{}
	if !f.EmployeeID.IsZero() {
		m["employee_id"] = f.EmployeeID
	}
	if !f.ReviewerID.IsZero() {
		m["reviewer_id"] = f.ReviewerID
	}
	return m
}

type reviewRepository struct {
	collection *mongo.Collection
}

func NewRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return newRepository(mongoClient.Database, collectionName)
}

func newRepository(db *mongo.Database, collectionName string) *reviewRepository {
	return &reviewRepository{collection: db.Collection(collectionName)}
}

func (r *reviewRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reviewer_id", Value: 1}}},
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create review indexes")
		return fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return nil
}

func (r *reviewRepository) Create(ctx context.Context, review *Review) error {
	res, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert review")
		return fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	var review Review
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrReviewNotFound
		}
		logrus.WithError(err).WithField("review_id", id.Hex()).Error("Failed to get review")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter Filter, page, limit int) ([]*Review, int64, error) {
	query := filter.bson()

	totalCount, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		logrus.WithError(err).Error("Failed to count reviews")
		return nil, 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64((page - 1) * limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to find reviews")
		return nil, 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	reviews := []*Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		logrus.WithError(err).Error("Failed to decode reviews")
		return nil, 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	return reviews, totalCount, nil
}

func (r *reviewRepository) AverageRating(ctx context.Context, filter Filter) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.bson()}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		logrus.WithError(err).Error("Failed to aggregate ratings")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	var out []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Avg, nil
}
