package review

import (
	"context"
	"testing"

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

	mt.Run("create", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := &Review{EmployeeID: primitive.NewObjectID(), ReviewerID: primitive.NewObjectID(), Rating: 4}
		require.NoError(t, repo.Create(context.Background(), r))
		assert.False(t, r.ID.IsZero())
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, models.ErrReviewNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		subject := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "employee_id", Value: subject},
				{Key: "rating", Value: int32(5)},
			}),
		)

		reviews, total, err := repo.List(context.Background(), Filter{EmployeeID: subject}, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, reviews, 1)
		assert.Equal(t, 5, reviews[0].Rating)
		assert.Equal(t, subject, reviews[0].EmployeeID)
	})

	mt.Run("average rating", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "avg", Value: 4.25}}))

		avg, err := repo.AverageRating(context.Background(), Filter{})
		require.NoError(t, err)
		assert.Equal(t, 4.25, avg)
	})

	mt.Run("average rating empty", func(mt *mtest.T) {
		repo := newRepository(mt.DB, mt.Coll.Name())
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		avg, err := repo.AverageRating(context.Background(), Filter{})
		require.NoError(t, err)
		assert.Zero(t, avg)
	})
}
