package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one employee's assessment of another.
type Review struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EmployeeID primitive.ObjectID `json:"employeeId" bson:"employee_id"`
	ReviewerID primitive.ObjectID `json:"reviewerId" bson:"reviewer_id"`
	Rating     int                `json:"rating" bson:"rating"`
	Comment    string             `json:"comment" bson:"comment"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

type CreateRequest struct {
	EmployeeID string `json:"employeeId" form:"employeeId" binding:"required"`
	Rating     int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" form:"comment" binding:"max=2000"`
}

type ListRequest struct {
	EmployeeID string `json:"employeeId" form:"employeeId"`
	ReviewerID string `json:"reviewerId" form:"reviewerId"`
	Page       int    `json:"page" form:"page"`
	Limit      int    `json:"limit" form:"limit"`
}

type ListResponse struct {
	Reviews       []*Review `json:"reviews"`
	TotalCount    int64     `json:"totalCount"`
	AverageRating float64   `json:"averageRating"`
	Page          int       `json:"page"`
	Limit         int       `json:"limit"`
	TotalPages    int       `json:"totalPages"`
}
