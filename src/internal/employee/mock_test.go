package employee

import (
	"context"
	"time"

	"employee-review-svc/src/internal/config"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, req *ListRequest) ([]*Employee, int64, error) {
	args := m.Called(ctx, req)
	employees, _ := args.Get(0).([]*Employee)
	return employees, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*Employee)
	return e, args.Error(1)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	args := m.Called(ctx, email)
	e, _ := args.Get(0).(*Employee)
	return e, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, e *Employee) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) RevokeEmployee(ctx context.Context, employeeID string) error {
	return m.Called(ctx, employeeID).Error(0)
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		App:    config.Application{Timeout: 5},
		Search: config.SearchConfig{MinQueryLimit: 20, MaxQueryLimit: 100},
	}
}
