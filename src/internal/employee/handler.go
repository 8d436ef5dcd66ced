package employee

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) List(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	req := &ListRequest{
		Page:       parseIntParam(c, "page", 1),
		Limit:      parseIntParam(c, "limit", h.config.Search.MinQueryLimit),
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
	}

	response, err := h.service.List(ctx, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"employees_returned": len(response.Employees),
		"total_count":        response.TotalCount,
		"page":               response.Page,
	}).Debug("Employees listed")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
		"message": "Employees retrieved successfully",
	})
}

func (h *handler) Get(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	e, err := h.service.Get(ctx, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    e.ToProfile(),
		"message": "Employee retrieved successfully",
	})
}

func (h *handler) Create(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	var req CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperr.BadRequest("Invalid employee data", models.ErrInvalidParams))
		logrus.WithError(err).Debug("Employee create request rejected")
		return
	}

	e, err := h.service.Create(ctx, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    e.ToProfile(),
		"message": "Employee created successfully",
	})
}

func (h *handler) Delete(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	if err := h.service.Delete(ctx, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee deleted successfully",
	})
}

func parseIntParam(c *gin.Context, param string, defaultValue int) int {
	value := c.Query(param)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"param": param,
			"value": value,
			"error": err,
		}).Warn("Invalid integer parameter, using default")

		return defaultValue
	}
	return parsed
}
