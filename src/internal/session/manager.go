package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const contextKey = "session"

type Options struct {
	CookieName string
	// MaxAge is the cookie lifetime.
	MaxAge time.Duration
	// TTL is how long a saved record stays in the store.
	TTL time.Duration
	// TrustProxy lets X-Forwarded-Proto mark a request as secure.
	TrustProxy bool
}

// Manager loads sessions for requests and commits them before the
// response goes out.
type Manager struct {
	store Store
	codec *Codec
	opts  Options
	now   func() time.Time
	newID func() string
}

func NewManager(store Store, codec *Codec, opts Options) *Manager {
	return &Manager{
		store: store,
		codec: codec,
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// FromContext returns the request's session, or nil when the session
// middleware did not run.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

// NewID returns a fresh session id.
func (m *Manager) NewID() string {
	return m.newID()
}

func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, hadCookie, err := m.load(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		w := &commitWriter{ResponseWriter: c.Writer}
		w.commit = func() { m.commit(c, sess, hadCookie) }
		c.Writer = w
		c.Set(contextKey, sess)

		// Runs on panics too, before the error handler writes its response.
		defer w.commitOnce()

		c.Next()
	}
}

// RevokeEmployee destroys every stored session logged in as employeeID.
func (m *Manager) RevokeEmployee(ctx context.Context, employeeID string) error {
	ids, err := m.store.DestroyMatching(ctx, KeyEmployeeID, employeeID)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		logrus.WithFields(logrus.Fields{
			"employee_id": employeeID,
			"sessions":    len(ids),
		}).Info("Employee sessions revoked")
	}
	return nil
}

func (m *Manager) load(c *gin.Context) (*Session, bool, error) {
	value, err := c.Cookie(m.opts.CookieName)
	if err != nil || value == "" {
		return newSession(m.newID()), false, nil
	}

	id, err := m.codec.Decode(value)
	if err != nil {
		logrus.WithError(err).Debug("Ignoring invalid session cookie")
		return newSession(m.newID()), true, nil
	}

	record, err := m.store.Get(c.Request.Context(), id)
	switch {
	case err == nil:
		return fromRecord(record), true, nil
	case errors.Is(err, models.ErrSessionNotFound):
		return newSession(m.newID()), true, nil
	default:
		return nil, true, err
	}
}

func (m *Manager) commit(c *gin.Context, s *Session, hadCookie bool) {
	ctx := c.Request.Context()

	if s.previousID != "" {
		if err := m.store.Destroy(ctx, s.previousID); err != nil {
			logrus.WithError(err).WithField("session_id", s.previousID).Error("Failed to delete regenerated session")
			_ = c.Error(err)
		}
	}

	switch {
	case s.destroyed:
		if !s.isNew {
			if err := m.store.Destroy(ctx, s.id); err != nil {
				logrus.WithError(err).WithField("session_id", s.id).Error("Failed to destroy session")
				_ = c.Error(err)
			}
		}
		if hadCookie {
			m.clearCookie(c)
		}

	case s.shouldSave():
		record := &Record{
			ID:      s.id,
			Data:    s.Values(),
			Expires: m.now().Add(m.opts.TTL),
		}
		if err := m.store.Set(ctx, record); err != nil {
			logrus.WithError(err).WithField("session_id", s.id).Error("Failed to save session")
			_ = c.Error(err)
			return
		}

		value, err := m.codec.Encode(s.id)
		if err != nil {
			logrus.WithError(err).Error("Failed to encode session cookie")
			_ = c.Error(err)
			return
		}
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     m.opts.CookieName,
			Value:    value,
			Path:     "/",
			MaxAge:   int(m.opts.MaxAge / time.Second),
			Expires:  m.now().Add(m.opts.MaxAge),
			HttpOnly: true,
			Secure:   m.isSecure(c),
			SameSite: http.SameSiteLaxMode,
		})
		logrus.WithField("session_id", s.id).Debug("Session saved")
	}
}

func (m *Manager) clearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.isSecure(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) isSecure(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	if !m.opts.TrustProxy {
		return false
	}
	proto := c.GetHeader("X-Forwarded-Proto")
	if i := strings.IndexByte(proto, ','); i >= 0 {
		proto = proto[:i]
	}
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}

// commitWriter runs commit once, right before the first byte or header
// flush reaches the client.
type commitWriter struct {
	gin.ResponseWriter
	commit    func()
	committed bool
}

func (w *commitWriter) commitOnce() {
	if w.committed {
		return
	}
	w.committed = true
	w.commit()
}

func (w *commitWriter) WriteHeaderNow() {
	w.commitOnce()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *commitWriter) Write(data []byte) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.Write(data)
}

func (w *commitWriter) WriteString(s string) (int, error) {
	w.commitOnce()
	return w.ResponseWriter.WriteString(s)
}

func (w *commitWriter) Flush() {
	w.commitOnce()
	w.ResponseWriter.Flush()
}
