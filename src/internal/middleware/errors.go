package middleware

import (
	"errors"
	"fmt"
	"net"
	"os"
	"runtime/debug"
	"strings"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler must be the first middleware on the engine so it wraps every
// other stage. After the chain unwinds it renders the last error attached
// to the context; a panic anywhere below is recovered and rendered as 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		w := c.Writer

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if isBrokenPipe(rec) {
				logrus.WithField("path", c.Request.URL.Path).Warn("Client connection closed")
				c.Abort()
				return
			}
			logrus.WithFields(logrus.Fields{
				"panic": rec,
				"path":  c.Request.URL.Path,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
			_ = c.Error(fmt.Errorf("%w: panic: %v", models.ErrInternalFailure, rec))
			c.Abort()
			renderError(c, w)
		}()

		c.Next()
		renderError(c, w)
	}
}

func renderError(c *gin.Context, w gin.ResponseWriter) {
	last := c.Errors.Last()
	if last == nil {
		return
	}

	appErr := apperr.From(last.Err)
	entry := logrus.WithError(last.Err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"status": appErr.Status,
	})

	if w.Written() {
		entry.Warn("Error raised after response was written")
		return
	}

	if appErr.Status >= 500 {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	// Encoding stages wrap the writer and set their headers up front; the
	// error body goes out uncompressed through the original writer.
	c.Writer = w
	h := w.Header()
	h.Del("Content-Encoding")
	h.Del("Content-Length")

	apperr.Respond(c, appErr)
}

func isBrokenPipe(rec any) bool {
	err, ok := rec.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr, &sysErr) {
		msg := strings.ToLower(sysErr.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
