package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// MemoryStore keeps sessions in memory. Used for one-off runs and tests
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*chat.Session
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*chat.Session),
	}
}

// CreateSession creates a new session in memory
func (s *MemoryStore) CreateSession(ctx context.Context, userID string) (*chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := chat.NewSession(userID)
	s.sessions[sess.ID] = sess

	return snapshot(sess), nil
}

// GetSession retrieves a session by ID
func (s *MemoryStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrNotFound
	}

	return snapshot(sess), nil
}

// UpdateThread records the external thread handle for a session
func (s *MemoryStore) UpdateThread(ctx context.Context, sessionID uuid.UUID, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return ErrNotFound
	}

	sess.ThreadID = threadID
	return nil
}

// AppendTurns appends completed turns to the session transcript
func (s *MemoryStore) AppendTurns(ctx context.Context, sessionID uuid.UUID, turns ...chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return ErrNotFound
	}

	for _, turn := range turns {
		sess.AppendTurn(turn)
	}
	return nil
}

// DeleteSession removes a session and its transcript
func (s *MemoryStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		return ErrNotFound
	}

	delete(s.sessions, sessionID)
	return nil
}

// snapshot copies a session so callers cannot race on the stored value
func snapshot(sess *chat.Session) *chat.Session {
	out := &chat.Session{
		ID:         sess.ID,
		UserID:     sess.UserID,
		ThreadID:   sess.ThreadID,
		Transcript: make([]chat.Turn, len(sess.Transcript)),
	}
	copy(out.Transcript, sess.Transcript)
	return out
}
