package review

import (
	"context"
	"testing"
	"time"

	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/employee"
	"employee-review-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, r *Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*Review)
	return r, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, f Filter, page, limit int) ([]*Review, int64, error) {
	args := m.Called(ctx, f, page, limit)
	reviews, _ := args.Get(0).([]*Review)
	return reviews, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) AverageRating(ctx context.Context, f Filter) (float64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Get(ctx context.Context, id string) (*employee.Employee, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*employee.Employee)
	return e, args.Error(1)
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		App:    config.Application{Timeout: 5},
		Search: config.SearchConfig{MinQueryLimit: 20, MaxQueryLimit: 100},
	}
}

func newTestService(repo *mockRepository, lookup *mockLookup) *reviewService {
	svc := NewService(repo, lookup, testConfig()).(*reviewService)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateReview(t *testing.T) {
	repo, lookup := new(mockRepository), new(mockLookup)
	svc := newTestService(repo, lookup)

	reviewer := primitive.NewObjectID()
	reviewee := &employee.Employee{ID: primitive.NewObjectID()}
	lookup.On("Get", mock.Anything, reviewee.ID.Hex()).Return(reviewee, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Review) bool {
		return r.EmployeeID == reviewee.ID && r.ReviewerID == reviewer && r.Rating == 4
	})).Return(nil)

	review, err := svc.Create(context.Background(), reviewer.Hex(), &CreateRequest{
		EmployeeID: reviewee.ID.Hex(), Rating: 4, Comment: "solid quarter",
	})
	require.NoError(t, err)
	assert.Equal(t, "solid quarter", review.Comment)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), review.CreatedAt)
	repo.AssertExpectations(t)
}

func TestCreateReviewRejectsSelfReview(t *testing.T) {
	repo, lookup := new(mockRepository), new(mockLookup)
	svc := newTestService(repo, lookup)

	me := &employee.Employee{ID: primitive.NewObjectID()}
	lookup.On("Get", mock.Anything, me.ID.Hex()).Return(me, nil)

	_, err := svc.Create(context.Background(), me.ID.Hex(), &CreateRequest{EmployeeID: me.ID.Hex(), Rating: 5})
	assert.ErrorIs(t, err, models.ErrSelfReview)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewUnknownEmployee(t *testing.T) {
	repo, lookup := new(mockRepository), new(mockLookup)
	svc := newTestService(repo, lookup)

	lookup.On("Get", mock.Anything, "missing").Return(nil, models.ErrEmployeeNotFound)

	_, err := svc.Create(context.Background(), primitive.NewObjectID().Hex(), &CreateRequest{EmployeeID: "missing", Rating: 3})
	assert.ErrorIs(t, err, models.ErrEmployeeNotFound)
}

func TestCreateReviewRequiresReviewer(t *testing.T) {
	svc := newTestService(new(mockRepository), new(mockLookup))

	_, err := svc.Create(context.Background(), "", &CreateRequest{EmployeeID: "x", Rating: 3})
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestListReviews(t *testing.T) {
	repo, lookup := new(mockRepository), new(mockLookup)
	svc := newTestService(repo, lookup)

	subject := primitive.NewObjectID()
	filter := Filter{EmployeeID: subject}
	repo.On("List", mock.Anything, filter, 1, 20).Return([]*Review{{Rating: 4}, {Rating: 3}}, int64(2), nil)
	repo.On("AverageRating", mock.Anything, filter).Return(3.5, nil)

	resp, err := svc.List(context.Background(), &ListRequest{EmployeeID: subject.Hex()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 3.5, resp.AverageRating)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestListReviewsSkipsAverageWhenEmpty(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockLookup))

	repo.On("List", mock.Anything, Filter{}, 1, 20).Return([]*Review{}, int64(0), nil)

	resp, err := svc.List(context.Background(), &ListRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.AverageRating)
	repo.AssertNotCalled(t, "AverageRating", mock.Anything, mock.Anything)
}

func TestListReviewsRejectsBadFilter(t *testing.T) {
	svc := newTestService(new(mockRepository), new(mockLookup))

	_, err := svc.List(context.Background(), &ListRequest{EmployeeID: "zzz"})
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestGetReview(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockLookup))

	id := primitive.NewObjectID()
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrReviewNotFound)

	_, err := svc.Get(context.Background(), id.Hex())
	assert.ErrorIs(t, err, models.ErrReviewNotFound)
}
