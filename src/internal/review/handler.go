package review

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/middleware"
	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{config: cfg, service: service}
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) Create(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	var req CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Debug("Review create request rejected")
		_ = c.Error(apperr.BadRequest("Invalid review data", models.ErrInvalidParams))
		return
	}

	review, err := h.service.Create(ctx, c.GetString(middleware.EmployeeIDKey), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
		"message": "Review created successfully",
	})
}

func (h *handler) List(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	req := &ListRequest{
		EmployeeID: c.Query("employeeId"),
		ReviewerID: c.Query("reviewerId"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	}

	response, err := h.service.List(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
		"message": "Reviews retrieved successfully",
	})
}

func (h *handler) Get(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	review, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    review,
		"message": "Review retrieved successfully",
	})
}

// queryInt returns 0 for missing or malformed values; the service applies
// defaults.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}
