package employee

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	List(ctx context.Context, req *ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, req *CreateRequest) (*Employee, error)
	Register(ctx context.Context, req *CreateRequest) (*Employee, error)
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*Employee, error)
}

// SessionRevoker ends the live sessions of an employee.
type SessionRevoker interface {
	RevokeEmployee(ctx context.Context, employeeID string) error
}

type employeeService struct {
	repository Repository
	sessions   SessionRevoker
	cfg        *config.Configuration
	hashCost   int
	now        func() time.Time
}

// NewService builds the service. sessions may be nil, in which case
// deleting an employee leaves their sessions to expire.
func NewService(repository Repository, sessions SessionRevoker, cfg *config.Configuration) Service {
	return &employeeService{
		repository: repository,
		sessions:   sessions,
		cfg:        cfg,
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func (s *employeeService) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Limit <= 0 {
		req.Limit = s.cfg.Search.MinQueryLimit
	}
	if req.Limit > s.cfg.Search.MaxQueryLimit {
		req.Limit = s.cfg.Search.MaxQueryLimit
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	if req.Role != "" && !isValidRole(req.Role) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidRole, req.Role)
	}

	logrus.WithFields(logrus.Fields{
		"page":       req.Page,
		"limit":      req.Limit,
		"role":       req.Role,
		"department": req.Department,
		"search":     req.Search,
	}).Debug("Listing employees")

	employees, totalCount, err := s.repository.List(ctx, req)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, len(employees))
	for i, e := range employees {
		profiles[i] = e.ToProfile()
	}

	return &ListResponse{
		Employees:  profiles,
		TotalCount: totalCount,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(req.Limit))),
	}, nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*Employee, error) {
	return s.repository.GetByID(ctx, id)
}

// Create adds an employee on behalf of an admin. An empty role means
// RoleEmployee.
func (s *employeeService) Create(ctx context.Context, req *CreateRequest) (*Employee, error) {
	role := req.Role
	if role == "" {
		role = RoleEmployee
	}
	if !isValidRole(role) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidRole, role)
	}
	return s.insert(ctx, req, role, false)
}

// Register is self sign-up. The first employee of an empty directory
// becomes its admin; everyone after that is a regular employee. Concurrent
// first sign-ups race for the founder index and the losers register as
// regular employees.
func (s *employeeService) Register(ctx context.Context, req *CreateRequest) (*Employee, error) {
	count, err := s.repository.Count(ctx)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		e, err := s.insert(ctx, req, RoleAdmin, true)
		if !errors.Is(err, errFounderTaken) {
			return e, err
		}
		logrus.WithField("email", normalizeEmail(req.Email)).Info("Founder seat already taken, registering as employee")
	}
	return s.insert(ctx, req, RoleEmployee, false)
}

func (s *employeeService) insert(ctx context.Context, req *CreateRequest, role string, founder bool) (*Employee, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.BadRequest("Password must be at most 72 bytes", models.ErrInvalidParams)
		}
		return nil, fmt.Errorf("%w: hashing password: %v", models.ErrInternalFailure, err)
	}

	now := s.now().UTC()
	e := &Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Role:         role,
		Founder:      founder,
		Department:   req.Department,
		Position:     req.Position,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repository.Create(ctx, e); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"employee_id": e.ID.Hex(),
		"role":        e.Role,
	}).Info("Employee created")
	return e, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if err := s.repository.SoftDelete(ctx, id); err != nil {
		return err
	}
	logrus.WithField("employee_id", id).Info("Employee deleted")

	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.RevokeEmployee(ctx, id); err != nil {
		logrus.WithError(err).WithField("employee_id", id).Error("Employee deleted but sessions could not be revoked")
		return err
	}
	return nil
}

// Authenticate checks the credentials. Unknown emails and wrong passwords
// both yield ErrInvalidCredentials.
func (s *employeeService) Authenticate(ctx context.Context, email, password string) (*Employee, error) {
	e, err := s.repository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrEmployeeNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		logrus.WithField("employee_id", e.ID.Hex()).Warn("Invalid password")
		return nil, models.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repository.TouchLogin(ctx, e.ID, now); err == nil {
		e.LastLoginAt = &now
	}
	return e, nil
}
