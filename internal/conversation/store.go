package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation log. Turns are immutable
// once appended.
type Turn struct {
	ID        uuid.UUID
	Role      Role
	Text      string
	CreatedAt time.Time
}

// Store is an append-only, in-memory conversation log for one session.
// Turn 0 is always the seeded welcome message.
type Store struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewStore creates a store seeded with the assistant welcome message.
func NewStore(welcomeText string) *Store {
	s := &Store{}
	s.Append(RoleAssistant, welcomeText)
	return s
}

// Append adds a turn to the log and returns it. Existing turns are
// never modified or reordered.
func (s *Store) Append(role Role, text string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.turns = append(s.turns, turn)
	return turn
}

// Turns returns a copy of the log in insertion order.
func (s *Store) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}
