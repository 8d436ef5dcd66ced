package employee

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"employee-review-svc/src/clients"
	"employee-review-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	regexKey   = "$regex"
	optionsKey = "$options"

	emailIndexName   = "email_unique"
	founderIndexName = "founder_unique"
)

// errFounderTaken is returned by Create when another employee already
// holds the founder seat.
var errFounderTaken = errors.New("founder already registered")

type Repository interface {
	List(ctx context.Context, req *ListRequest) ([]*Employee, int64, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	Create(ctx context.Context, employee *Employee) error
	SoftDelete(ctx context.Context, id string) error
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Count(ctx context.Context) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type employeeRepository struct {
	collection *mongo.Collection
}

func NewRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return newRepository(mongoClient.Database, collectionName)
}

func newRepository(db *mongo.Database, collectionName string) *employeeRepository {
	return &employeeRepository{collection: db.Collection(collectionName)}
}

func notDeleted() bson.M {
	return bson.M{"deleted_at": bson.M{"$exists": false}}
}

// ParseID converts a hex id, mapping bad input to ErrInvalidParams.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid employee id %q", models.ErrInvalidParams, id)
	}
	return oid, nil
}

func (r *employeeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		},
		{
			Keys: bson.D{{Key: "founder", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(founderIndexName).
				SetPartialFilterExpression(bson.M{"founder": true}),
		},
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to create employee indexes")
		return fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, req *ListRequest) ([]*Employee, int64, error) {
	filter := notDeleted()

	if req.Role != "" {
		filter["role"] = req.Role
	}

	if req.Department != "" {
		filter["department"] = req.Department
	}

	if req.Search != "" {
		pattern := regexp.QuoteMeta(req.Search)
		filter["$or"] = []bson.M{
			{"first_name": bson.M{regexKey: pattern, optionsKey: "i"}},
			{"last_name": bson.M{regexKey: pattern, optionsKey: "i"}},
			{"email": bson.M{regexKey: pattern, optionsKey: "i"}},
		}
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("Failed to count employees")
		return nil, 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	skip := (req.Page - 1) * req.Limit

	opts := options.Find().
		SetLimit(int64(req.Limit)).
		SetSkip(int64(skip)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to find employees")
		return nil, 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	var employees []*Employee
	for cursor.Next(ctx) {
		var e Employee
		if err := cursor.Decode(&e); err != nil {
			logrus.WithError(err).Error("Failed to decode employee")
			continue
		}
		employees = append(employees, &e)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	logrus.WithFields(logrus.Fields{
		"count": len(employees),
		"total": totalCount,
		"page":  req.Page,
		"limit": req.Limit,
	}).Debug("Retrieved employees successfully")

	return employees, totalCount, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	filter := notDeleted()
	filter["_id"] = oid
	return r.findOne(ctx, filter)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	filter := notDeleted()
	filter["email"] = normalizeEmail(email)
	return r.findOne(ctx, filter)
}

func (r *employeeRepository) findOne(ctx context.Context, filter bson.M) (*Employee, error) {
	var e Employee
	if err := r.collection.FindOne(ctx, filter).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrEmployeeNotFound
		}
		logrus.WithError(err).Error("Failed to get employee")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return &e, nil
}

func (r *employeeRepository) Create(ctx context.Context, e *Employee) error {
	res, err := r.collection.InsertOne(ctx, e)
	if err != nil {
		if duplicateOn(err, founderIndexName) {
			return errFounderTaken
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrEmailTaken
		}
		logrus.WithError(err).WithField("email", e.Email).Error("Failed to insert employee")
		return fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid
	}
	return nil
}

// duplicateOn reports whether err is a duplicate key error on index.
func duplicateOn(err error, index string) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 && strings.Contains(e.Message, index) {
			return true
		}
	}
	return false
}

func (r *employeeRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	filter := notDeleted()
	filter["_id"] = oid
	now := time.Now().UTC()
	update := bson.M{
		"$set":   bson.M{"deleted_at": now, "updated_at": now},
		"$unset": bson.M{"founder": ""},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("employee_id", id).Error("Failed to delete employee")
		return fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"last_login_at": at}}
	if _, err := r.collection.UpdateByID(ctx, id, update); err != nil {
		logrus.WithError(err).WithField("employee_id", id.Hex()).Warn("Failed to record login time")
		return fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}
	return nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, notDeleted())
	if err != nil {
		logrus.WithError(err).Error("Failed to count employees")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return count, nil
}
