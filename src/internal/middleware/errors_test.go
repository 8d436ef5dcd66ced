package middleware

import (
	"errors"
	"net/http"
	"testing"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/models"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandlerRendersHandlerFault(t *testing.T) {
	r := newEngine()
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
	})

	rec := serve(r, request(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestErrorHandlerUsesErrorStatus(t *testing.T) {
	r := newEngine()
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(models.ErrEmailTaken)
		c.Abort()
	})
	r.GET("/custom", func(c *gin.Context) {
		_ = c.Error(apperr.BadRequest("Bad id", models.ErrInvalidParams))
	})

	rec := serve(r, request(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already registered", decodeError(t, rec)["message"])

	rec = serve(r, request(http.MethodGet, "/custom", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bad id", decodeError(t, rec)["message"])
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec := serve(r, request(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(http.StatusInternalServerError), decodeError(t, rec)["status"])
}

func TestErrorHandlerCatchesStageFaults(t *testing.T) {
	failing := func(c *gin.Context) {
		_ = c.Error(errors.New("stage failed"))
		c.Abort()
	}
	r := newEngine(failing)
	reached := false
	r.GET("/", func(c *gin.Context) { reached = true })

	rec := serve(r, request(http.MethodGet, "/", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	r := newEngine()
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusAccepted, "done")
		_ = c.Error(errors.New("late"))
	})

	rec := serve(r, request(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestErrorHandlerBehindCompression(t *testing.T) {
	r := newEngine(gzip.Gzip(gzip.DefaultCompression))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(apperr.Forbidden("nope"))
	})

	req := request(http.MethodGet, "/fail", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := serve(r, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "nope", decodeError(t, rec)["message"])
}

func TestNotFound(t *testing.T) {
	r := newEngine()
	r.GET("/exists", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, request(http.MethodDelete, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Cannot DELETE /nowhere", body["message"])
	assert.Equal(t, "Not Found", body["error"])

	rec = serve(r, request(http.MethodPost, "/exists", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
