package session

import "maps"

// Keys written by the auth handlers.
const (
	KeyEmployeeID = "employee_id"
	KeyRole       = "role"
	KeyEmail      = "email"
)

// Session is the per-request view of a session. It is not safe for
// concurrent use; it lives for one request.
type Session struct {
	id         string
	data       map[string]any
	isNew      bool
	modified   bool
	destroyed  bool
	previousID string
}

func newSession(id string) *Session {
	return &Session{id: id, data: map[string]any{}, isNew: true}
}

func fromRecord(record *Record) *Session {
	data := record.Data
	if data == nil {
		data = map[string]any{}
	}
	return &Session{id: record.ID, data: data}
}

func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) Modified() bool {
	return s.modified
}

func (s *Session) Destroyed() bool {
	return s.destroyed
}

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *Session) GetString(key string) string {
	v, _ := s.data[key].(string)
	return v
}

func (s *Session) Set(key string, value any) {
	s.data[key] = value
	s.modified = true
	s.destroyed = false
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.modified = true
}

func (s *Session) Clear() {
	if len(s.data) == 0 {
		return
	}
	s.data = map[string]any{}
	s.modified = true
}

// Values returns a copy of the session data.
func (s *Session) Values() map[string]any {
	return maps.Clone(s.data)
}

// Destroy drops the session; it is deleted from the store and the cookie is
// cleared when the response is committed.
func (s *Session) Destroy() {
	s.data = map[string]any{}
	s.destroyed = true
	s.modified = false
}

// Regenerate moves the data to a fresh id. The old record is deleted on
// commit. Used on login to prevent session fixation.
func (s *Session) Regenerate(id string) {
	if !s.isNew && s.previousID == "" {
		s.previousID = s.id
	}
	s.id = id
	s.isNew = true
	s.modified = true
	s.destroyed = false
}

// shouldSave: new sessions are saved only once they hold data; loaded
// sessions only when modified.
func (s *Session) shouldSave() bool {
	if s.destroyed || !s.modified {
		return false
	}
	if s.isNew {
		return len(s.data) > 0
	}
	return true
}
