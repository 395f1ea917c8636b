package conversation

import (
	"errors"
	"sync"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/entity"
)

// ErrConversationBusy is returned by TryBegin while another completion is in flight.
var ErrConversationBusy = errors.New("conversation busy")

// Manager owns one session's transcript. Appends are unvalidated; callers keep the
// system/user/assistant shape.
type Manager struct {
	mu       sync.Mutex
	turns    []entity.ConversationTurn
	inFlight bool
}

func NewManager() *Manager {
	return &Manager{turns: []entity.ConversationTurn{}}
}

func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = []entity.ConversationTurn{}
}

// AppendSystemIfAbsent adds a system turn only to an empty transcript and reports whether it did.
func (m *Manager) AppendSystemIfAbsent(content string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.turns) > 0 {
		return false
	}
	m.turns = append(m.turns, entity.ConversationTurn{Role: constant.ConversationRoleSystem, Content: content})
	return true
}

func (m *Manager) AppendUser(content string) {
	m.append(constant.ConversationRoleUser, content)
}

func (m *Manager) AppendAssistant(content string) {
	m.append(constant.ConversationRoleAssistant, content)
}

func (m *Manager) append(role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, entity.ConversationTurn{Role: role, Content: content})
}

func (m *Manager) Snapshot() []entity.ConversationTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.ConversationTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// TryBegin marks a completion as in flight. Pair every successful call with End.
func (m *Manager) TryBegin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrConversationBusy
	}
	m.inFlight = true
	return nil
}

func (m *Manager) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
}

func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}
