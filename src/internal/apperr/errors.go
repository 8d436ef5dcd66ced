// Package apperr maps internal failures onto client-visible HTTP errors.
package apperr

import (
	"errors"
	"net/http"

	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
)

// Error is a failure that knows its HTTP status and a message safe to show
// to clients. The wrapped error stays server-side.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string, err error) *Error {
	return New(http.StatusBadRequest, message, err)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, models.ErrUnauthorized)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, models.ErrForbidden)
}

func NotFound(message string, err error) *Error {
	return New(http.StatusNotFound, message, err)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message, models.ErrRateLimited)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// From converts any error into an *Error. Errors that already carry a
// status are returned as is; known sentinels get their status and message;
// everything else becomes a generic 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, models.ErrMalformedBody),
		errors.Is(err, models.ErrInvalidParams),
		errors.Is(err, models.ErrInvalidRole),
		errors.Is(err, models.ErrSelfReview):
		return New(http.StatusBadRequest, sentinelMessage(err), err)
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrInvalidCredentials):
		return New(http.StatusUnauthorized, sentinelMessage(err), err)
	case errors.Is(err, models.ErrForbidden):
		return New(http.StatusForbidden, sentinelMessage(err), err)
	case errors.Is(err, models.ErrRouteNotFound),
		errors.Is(err, models.ErrRecordNotFound),
		errors.Is(err, models.ErrEmployeeNotFound),
		errors.Is(err, models.ErrReviewNotFound):
		return New(http.StatusNotFound, sentinelMessage(err), err)
	case errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrDuplicateRecord):
		return New(http.StatusConflict, sentinelMessage(err), err)
	case errors.Is(err, models.ErrBodyTooLarge):
		return New(http.StatusRequestEntityTooLarge, sentinelMessage(err), err)
	case errors.Is(err, models.ErrRateLimited):
		return New(http.StatusTooManyRequests, sentinelMessage(err), err)
	default:
		return Internal(err)
	}
}

// sentinelMessage returns the text of the innermost error so wrapped
// driver details never reach the client.
func sentinelMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// Body is the structured error payload every failed request receives.
func Body(e *Error) gin.H {
	return gin.H{
		"success": false,
		"status":  e.Status,
		"error":   http.StatusText(e.Status),
		"message": e.Message,
	}
}

// Respond aborts the chain and writes e as JSON.
func Respond(c *gin.Context, e *Error) {
	c.AbortWithStatusJSON(e.Status, Body(e))
}
