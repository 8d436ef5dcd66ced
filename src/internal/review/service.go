package review

import (
	"context"
	"fmt"
	"math"
	"time"

	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/employee"
	"employee-review-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmployeeLookup is the part of the employee service reviews depend on.
type EmployeeLookup interface {
	Get(ctx context.Context, id string) (*employee.Employee, error)
}

type Service interface {
	Create(ctx context.Context, reviewerID string, req *CreateRequest) (*Review, error)
	Get(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, req *ListRequest) (*ListResponse, error)
}

type reviewService struct {
	repository Repository
	employees  EmployeeLookup
	cfg        *config.Configuration
	now        func() time.Time
}

func NewService(repository Repository, employees EmployeeLookup, cfg *config.Configuration) Service {
	return &reviewService{
		repository: repository,
		employees:  employees,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *reviewService) Create(ctx context.Context, reviewerID string, req *CreateRequest) (*Review, error) {
	reviewer, err := parseID(reviewerID)
	if err != nil {
		return nil, err
	}

	reviewee, err := s.employees.Get(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	if reviewee.ID == reviewer {
		return nil, models.ErrSelfReview
	}

	now := s.now().UTC()
	review := &Review{
		EmployeeID: reviewee.ID,
		ReviewerID: reviewer,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repository.Create(ctx, review); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"review_id":   review.ID.Hex(),
		"employee_id": review.EmployeeID.Hex(),
		"reviewer_id": review.ReviewerID.Hex(),
	}).Info("Review created")
	return review, nil
}

func (s *reviewService) Get(ctx context.Context, id string) (*Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repository.GetByID(ctx, oid)
}

func (s *reviewService) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Limit <= 0 {
		req.Limit = s.cfg.Search.MinQueryLimit
	}
	if req.Limit > s.cfg.Search.MaxQueryLimit {
		req.Limit = s.cfg.Search.MaxQueryLimit
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	var filter Filter
	if req.EmployeeID != "" {
		oid, err := parseID(req.EmployeeID)
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = oid
	}
	if req.ReviewerID != "" {
		oid, err := parseID(req.ReviewerID)
		if err != nil {
			return nil, err
		}
		filter.ReviewerID = oid
	}

	reviews, total, err := s.repository.List(ctx, filter, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	var avg float64
	if total > 0 {
		if avg, err = s.repository.AverageRating(ctx, filter); err != nil {
			return nil, err
		}
	}

	return &ListResponse{
		Reviews:       reviews,
		TotalCount:    total,
		AverageRating: math.Round(avg*100) / 100,
		Page:          req.Page,
		Limit:         req.Limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(req.Limit))),
	}, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", models.ErrInvalidParams, id)
	}
	return oid, nil
}
