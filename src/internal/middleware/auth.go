package middleware

import (
	"slices"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	EmployeeIDKey   = "employee_id"
	EmployeeRoleKey = "employee_role"
)

// RequireSession admits requests whose session belongs to a logged-in
// employee and copies the identity into the context.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c)
		if s == nil {
			logrus.Error("Session not found in context - ensure the session middleware runs first")
			_ = c.Error(apperr.Unauthorized("Authentication required"))
			c.Abort()
			return
		}

		employeeID := s.GetString(session.KeyEmployeeID)
		if employeeID == "" {
			_ = c.Error(apperr.Unauthorized("Authentication required"))
			c.Abort()
			return
		}

		c.Set(EmployeeIDKey, employeeID)
		c.Set(EmployeeRoleKey, s.GetString(session.KeyRole))

		logrus.WithFields(logrus.Fields{
			"employee_id": employeeID,
			"session_id":  s.ID(),
		}).Debug("Employee authenticated")

		c.Next()
	}
}

// RequireRole must run after RequireSession.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(EmployeeRoleKey)
		if !slices.Contains(roles, role) {
			logrus.WithFields(logrus.Fields{
				"employee_id": c.GetString(EmployeeIDKey),
				"role":        role,
			}).Warn("Employee attempted to access endpoint without required role")
			_ = c.Error(apperr.Forbidden("Access forbidden - insufficient privileges"))
			c.Abort()
			return
		}
		c.Next()
	}
}
