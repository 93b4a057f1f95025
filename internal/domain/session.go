package domain

import "sync"

// SessionOrigin tells whether a session was freshly created or loaded from storage
type SessionOrigin int

const (
	OriginCreated SessionOrigin = iota
	OriginLoaded
)

// String returns the origin name used in logs
func (o SessionOrigin) String() string {
	switch o {
	case OriginCreated:
		return "created"
	case OriginLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Session holds the opaque credential state written by the protocol layer.
// The protocol layer updates it from its own goroutine, so access goes
// through the accessor methods.
type Session struct {
	mu     sync.RWMutex
	origin SessionOrigin
	data   []byte
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{origin: OriginCreated}
}

// LoadedSession wraps a blob read from storage
func LoadedSession(data []byte) *Session {
	return &Session{
		origin: OriginLoaded,
		data:   append([]byte(nil), data...),
	}
}

// Origin returns where the session came from
func (s *Session) Origin() SessionOrigin {
	return s.origin
}

// Loaded reports whether the session was read from storage
func (s *Session) Loaded() bool {
	return s.origin == OriginLoaded
}

// Data returns a copy of the current blob
func (s *Session) Data() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.data...)
}

// SetData replaces the blob
func (s *Session) SetData(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Empty reports whether the protocol layer has written anything yet
func (s *Session) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data) == 0
}
