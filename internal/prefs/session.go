package prefs

import "sync"

// SessionStore is the session-scoped preference tier. It lives in memory
// and is cleared with the process, which is exactly its contract: a value
// set here wins over the durable tier until the next restart.
type SessionStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewSessionStore creates an empty session tier.
func NewSessionStore() *SessionStore {
	return &SessionStore{values: make(map[string][]byte)}
}

// SafetyVisible returns the session-scoped safety preference, if set.
func (s *SessionStore) SafetyVisible() (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[keySafetyVisible]
	if !ok {
		return false, false
	}
	return string(v) == "true", true
}

// SetSafetyVisible stores the session-scoped safety preference.
func (s *SessionStore) SetSafetyVisible(visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keySafetyVisible] = []byte(boolString(visible))
	return nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
