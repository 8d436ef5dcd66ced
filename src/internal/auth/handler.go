// Package auth serves registration, login and logout on top of the
// cookie session.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/employee"
	"employee-review-svc/src/internal/middleware"
	"employee-review-svc/src/internal/models"
	"employee-review-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 2 * time.Second

// ActivityPublisher receives login and logout events. Publishing is best
// effort and never fails a request.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, message models.ActivityMessage) error
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type Handler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	employees employee.Service
	newID     func() string
	publisher ActivityPublisher
}

// NewHandler wires the auth handlers. publisher may be nil.
func NewHandler(cfg *config.Configuration, employees employee.Service, sessions *session.Manager, publisher ActivityPublisher) Handler {
	return &handler{
		config:    cfg,
		employees: employees,
		newID:     sessions.NewID,
		publisher: publisher,
	}
}

func (h *handler) timeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) Register(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	var req employee.CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Debug("Registration request rejected")
		_ = c.Error(apperr.BadRequest("Invalid registration data", models.ErrInvalidParams))
		return
	}

	e, err := h.employees.Register(ctx, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	sess := h.startSession(c, e)
	h.publish(c, e.ID.Hex(), sess.ID(), models.ActionRegistered)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    e.ToProfile(),
		"message": "Employee registered successfully",
	})
}

func (h *handler) Login(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Debug("Login request rejected")
		_ = c.Error(apperr.BadRequest("Email and password are required", models.ErrInvalidParams))
		return
	}

	e, err := h.employees.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	sess := h.startSession(c, e)
	h.publish(c, e.ID.Hex(), sess.ID(), models.ActionLoggedIn)

	logrus.WithFields(logrus.Fields{
		"employee_id": e.ID.Hex(),
		"client_ip":   middleware.ClientIP(c),
	}).Info("Employee logged in")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    e.ToProfile(),
		"message": "Logged in successfully",
	})
}

// startSession moves the request onto a fresh session id before storing
// the identity, so a pre-login id can never carry an authenticated session.
func (h *handler) startSession(c *gin.Context, e *employee.Employee) *session.Session {
	sess := session.FromContext(c)
	sess.Regenerate(h.newID())
	sess.Set(session.KeyEmployeeID, e.ID.Hex())
	sess.Set(session.KeyRole, e.Role)
	sess.Set(session.KeyEmail, e.Email)
	return sess
}

func (h *handler) Logout(c *gin.Context) {
	sess := session.FromContext(c)
	employeeID := sess.GetString(session.KeyEmployeeID)
	sessionID := sess.ID()

	sess.Destroy()
	if employeeID != "" {
		h.publish(c, employeeID, sessionID, models.ActionLoggedOut)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *handler) Me(c *gin.Context) {
	ctx, cancel := h.timeout(c)
	defer cancel()

	e, err := h.employees.Get(ctx, c.GetString(middleware.EmployeeIDKey))
	if err != nil {
		if errors.Is(err, models.ErrEmployeeNotFound) {
			session.FromContext(c).Destroy()
			_ = c.Error(apperr.Unauthorized("Session no longer valid - please login again"))
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"employee":  e.ToProfile(),
			"lastVisit": c.GetString(middleware.LastVisitKey),
		},
	})
}

func (h *handler) publish(c *gin.Context, employeeID, sessionID, action string) {
	if h.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), publishTimeout)
	defer cancel()

	err := h.publisher.PublishActivity(ctx, models.ActivityMessage{
		EmployeeID:  employeeID,
		SessionID:   sessionID,
		ServiceName: models.ServiceAuth,
		Action:      action,
		IPAddress:   middleware.ClientIP(c),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		logrus.WithError(err).WithField("action", action).Warn("Failed to publish activity")
	}
}
