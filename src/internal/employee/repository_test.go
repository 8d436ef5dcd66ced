package employee

import (
	"context"
	"testing"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("get by id", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		id := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "first_name", Value: "Ada"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "role", Value: RoleAdmin},
		}))

		e, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(t, err)
		assert.Equal(t, id, e.ID)
		assert.Equal(t, "Ada", e.FirstName)
		assert.True(t, e.IsAdmin())
	})

	mt.Run("get by id rejects bad ids", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(t, err, models.ErrInvalidParams)
	})

	mt.Run("get by email not found", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "first_name", Value: "Ada"}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "first_name", Value: "Grace"}},
			),
		)

		employees, total, err := repo.List(context.Background(), &ListRequest{Page: 1, Limit: 10, Search: "a.b"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, employees, 2)
		assert.Equal(t, "Grace", employees[1].FirstName)
	})

	mt.Run("create maps duplicate email", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &Employee{Email: "ada@example.com"})
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})

	mt.Run("create maps founder index conflict", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.employees index: founder_unique dup key: { founder: true }",
		}))

		err := repo.Create(context.Background(), &Employee{Email: "ada@example.com", Founder: true})
		assert.ErrorIs(t, err, errFounderTaken)
		assert.NotErrorIs(t, err, models.ErrEmailTaken)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(t, repo.EnsureIndexes(context.Background()))
	})

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateSuccessResponse())

		e := &Employee{Email: "ada@example.com", CreatedAt: time.Now()}
		require.NoError(t, repo.Create(context.Background(), e))
		assert.False(t, e.ID.IsZero())
	})

	mt.Run("soft delete missing", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SoftDelete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
	})

	mt.Run("soft delete", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		assert.NoError(t, repo.SoftDelete(context.Background(), primitive.NewObjectID().Hex()))
	})
}
