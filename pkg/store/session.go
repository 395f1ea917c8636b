package store

import (
	"sync"

	"routine-advisor-be/pkg/catalog"
	"routine-advisor-be/pkg/conversation"
	"routine-advisor-be/pkg/selection"

	"github.com/google/uuid"
)

// Session is the live state of one profile: what it selected, how it filters the catalog and
// what it has been talking about.
type Session struct {
	ID        string    `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`

	Selection    *selection.Manager    `json:"-"`
	Conversation *conversation.Manager `json:"-"`
	Preferences  selection.Store       `json:"-"`

	mu     sync.Mutex
	filter catalog.FilterState
}

func NewSession(profileID uuid.UUID, sel *selection.Manager, conv *conversation.Manager, prefs selection.Store) *Session {
	return &Session{
		ID:           profileID.String(),
		ProfileID:    profileID,
		Selection:    sel,
		Conversation: conv,
		Preferences:  prefs,
	}
}

func (s *Session) Filter() catalog.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) SetFilter(filter catalog.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}
