package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thamam/talk-to-me-claude-cli/core"
)

// Manager owns every session in the process. A single mutex serializes all
// mutation so two concurrent tool calls racing on one session id cannot lose
// updates. Construct a fresh Manager per test.
type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	currentID string
	defaults  Settings
	clock     func() time.Time
}

// NewManager creates a Manager whose sessions start from the given default
// settings.
func NewManager(defaults Settings) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		defaults: defaults,
		clock:    time.Now,
	}
}

// getOrCreateLocked resolves an id to a session, lazily creating unknown
// ids. An empty id means the current session (or a brand new one when
// nothing has been touched yet). The resolved session becomes current.
func (m *Manager) getOrCreateLocked(id string) *Session {
	if id == "" {
		id = m.currentID
	}
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			m.currentID = s.ID
			return s
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	now := m.clock()
	s := &Session{
		ID:           id,
		Settings:     m.defaults,
		CreatedAt:    now,
		LastActivity: now,
	}
	m.sessions[id] = s
	m.currentID = id
	return s
}

// GetOrCreate returns the session for id, creating it when unseen. An empty
// id resolves to the current (most recently touched) session.
func (m *Manager) GetOrCreate(id string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(id).snapshot()
}

// Get returns the session for id without creating one.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, core.InvalidArgumentf("session not found: %s", id)
	}
	return s.snapshot(), nil
}

// CurrentID returns the id of the current session, or "" when no session
// has been touched yet.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

// AppendMessage appends a message to the session's history. Any content
// string is accepted, including empty. The narration argument records what
// was extracted for this message, "" when none.
func (m *Manager) AppendMessage(id string, role Role, content, narration string) (Message, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return Message{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreateLocked(id)
	msg := Message{
		Role:      role,
		Content:   content,
		Narration: narration,
		Timestamp: m.clock(),
	}
	s.History = append(s.History, msg)
	s.LastActivity = msg.Timestamp
	return msg, nil
}

// History returns the session's messages in chronological order,
// most-recent-last. A limit of 0 returns everything; a positive limit
// returns only the trailing limit messages; a negative limit is invalid.
func (m *Manager) History(id string, limit int) ([]Message, error) {
	if limit < 0 {
		return nil, core.InvalidArgumentf("limit must be positive, got %d", limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreateLocked(id)
	msgs := s.History
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// Clear empties the session's message history. The session record and its
// settings survive; clearing an already-empty session is a no-op.
func (m *Manager) Clear(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreateLocked(id)
	removed := len(s.History)
	s.History = nil
	s.LastActivity = m.clock()
	return removed
}

// UpdateSettings merges a partial settings patch into the session. The
// patch is validated first and applies all-or-nothing: an invalid field
// leaves every setting untouched.
func (m *Manager) UpdateSettings(id string, patch SettingsPatch) (Settings, error) {
	if err := patch.Validate(); err != nil {
		return Settings{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreateLocked(id)
	patch.apply(&s.Settings)
	s.LastActivity = m.clock()
	return s.Settings, nil
}

// Settings returns a copy of the session's settings.
func (m *Manager) Settings(id string) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(id).Settings
}

// Delete removes a session entirely. Unlike Clear this drops the settings
// too. Deleting the current session leaves no current until the next touch.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	if m.currentID == id {
		m.currentID = ""
	}
	return true
}

// List returns all known session ids.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// CleanupInactive deletes sessions idle for longer than maxAge and reports
// how many were removed.
func (m *Manager) CleanupInactive(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastActivity) > maxAge {
			delete(m.sessions, id)
			if m.currentID == id {
				m.currentID = ""
			}
			removed++
		}
	}
	return removed
}
