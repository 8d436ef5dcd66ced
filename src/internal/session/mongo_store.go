package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const expiresIndexName = "expires_ttl"

// MongoStore keeps sessions in a collection whose TTL index on "expires"
// lets the server remove stale documents.
type MongoStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoStore(db *mongo.Database, collectionName string) *MongoStore {
	return &MongoStore{
		collection: db.Collection(collectionName),
		now:        time.Now,
	}
}

// EnsureIndexes creates the TTL index. The TTL monitor runs about once a
// minute, so Get also filters on expires.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName(expiresIndexName),
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create session TTL index")
		return fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var record Record
	filter := bson.M{
		"_id":     id,
		"expires": bson.M{"$gt": s.now()},
	}

	err := s.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).WithField("session_id", id).Error("Failed to get session")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	return &record, nil
}

func (s *MongoStore) Set(ctx context.Context, record *Record) error {
	filter := bson.M{"_id": record.ID}
	opts := options.Replace().SetUpsert(true)

	_, err := s.collection.ReplaceOne(ctx, filter, record, opts)
	if err != nil {
		logrus.WithError(err).WithField("session_id", record.ID).Error("Failed to save session")
		return fmt.Errorf("%w: %v", models.ErrSessionSaving, err)
	}

	return nil
}

func (s *MongoStore) DestroyMatching(ctx context.Context, key, value string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := s.collection.Find(ctx, bson.M{"session." + key: value}, opts)
	if err != nil {
		logrus.WithError(err).WithField(key, value).Error("Failed to find sessions")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		logrus.WithError(err).WithField(key, value).Error("Failed to decode sessions")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	if _, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		logrus.WithError(err).WithField(key, value).Error("Failed to delete sessions")
		return nil, fmt.Errorf("%w: %v", models.ErrSessionDeleting, err)
	}
	return ids, nil
}

func (s *MongoStore) Destroy(ctx context.Context, id string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithError(err).WithField("session_id", id).Error("Failed to delete session")
		return fmt.Errorf("%w: %v", models.ErrSessionDeleting, err)
	}
	return nil
}
