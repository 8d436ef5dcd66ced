package employee

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Employee struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName    string             `json:"firstName" bson:"first_name"`
	LastName     string             `json:"lastName" bson:"last_name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	Role         string             `json:"role" bson:"role"`
	Department   string             `json:"department,omitempty" bson:"department,omitempty"`
	Position     string             `json:"position,omitempty" bson:"position,omitempty"`
	LastLoginAt  *time.Time         `json:"lastLoginAt,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
	DeletedAt    *time.Time         `json:"deletedAt,omitempty" bson:"deleted_at,omitempty"`
	// Founder marks the employee who opened the directory as its first
	// admin. A unique partial index allows one live founder.
	Founder bool `json:"-" bson:"founder,omitempty"`
}

type Profile struct {
	ID          primitive.ObjectID `json:"id"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Email       string             `json:"email"`
	Role        string             `json:"role"`
	Department  string             `json:"department,omitempty"`
	Position    string             `json:"position,omitempty"`
	LastLoginAt *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type ListRequest struct {
	Page       int    `json:"page" form:"page"`
	Limit      int    `json:"limit" form:"limit"`
	Role       string `json:"role" form:"role"`
	Department string `json:"department" form:"department"`
	Search     string `json:"search" form:"search"`
}

type ListResponse struct {
	Employees  []*Profile `json:"employees"`
	TotalCount int64      `json:"totalCount"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// CreateRequest is used both for self-registration and for admins adding
// employees. Role is ignored on registration.
type CreateRequest struct {
	FirstName  string `json:"firstName" form:"firstName" binding:"required"`
	LastName   string `json:"lastName" form:"lastName" binding:"required"`
	Email      string `json:"email" form:"email" binding:"required,email"`
	Password   string `json:"password" form:"password" binding:"required,min=8,max=72"`
	Role       string `json:"role" form:"role"`
	Department string `json:"department" form:"department"`
	Position   string `json:"position" form:"position"`
}

func (e *Employee) ToProfile() *Profile {
	return &Profile{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Email:       e.Email,
		Role:        e.Role,
		Department:  e.Department,
		Position:    e.Position,
		LastLoginAt: e.LastLoginAt,
		CreatedAt:   e.CreatedAt,
	}
}

func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}
