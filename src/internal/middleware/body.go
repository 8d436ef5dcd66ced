package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
)

// BodyParser decodes JSON and URL-encoded request bodies up to limit bytes
// and stores the result under BodyKey. The raw body is put back so
// handlers can still bind it.
func BodyParser(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := bodyKind(c.ContentType())
		if kind == "" || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				_ = c.Error(apperr.New(http.StatusRequestEntityTooLarge, "Request body too large", models.ErrBodyTooLarge))
			} else {
				_ = c.Error(apperr.BadRequest("Could not read request body", models.ErrMalformedBody))
			}
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		if len(bytes.TrimSpace(raw)) == 0 {
			c.Next()
			return
		}

		var parsed any
		switch kind {
		case "json":
			if err := json.Unmarshal(raw, &parsed); err != nil {
				_ = c.Error(apperr.BadRequest("Malformed JSON body", models.ErrMalformedBody))
				c.Abort()
				return
			}
			// Only objects and arrays are accepted at the top level.
			switch parsed.(type) {
			case map[string]any, []any:
			default:
				_ = c.Error(apperr.BadRequest("JSON body must be an object or an array", models.ErrMalformedBody))
				c.Abort()
				return
			}
		case "form":
			values, err := url.ParseQuery(string(raw))
			if err != nil {
				_ = c.Error(apperr.BadRequest("Malformed form body", models.ErrMalformedBody))
				c.Abort()
				return
			}
			parsed = formValues(values)
		}

		c.Set(BodyKey, parsed)
		c.Next()
	}
}

func bodyKind(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	switch {
	case mediaType == gin.MIMEJSON, strings.HasSuffix(mediaType, "+json"):
		return "json"
	case mediaType == gin.MIMEPOSTForm:
		return "form"
	default:
		return ""
	}
}

// formValues flattens single-valued fields to strings.
func formValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			out[k] = v[0]
			continue
		}
		out[k] = v
	}
	return out
}

// Body returns the payload decoded by BodyParser, or nil.
func Body(c *gin.Context) any {
	v, _ := c.Get(BodyKey)
	return v
}
