package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Greeting is the assistant turn seeded into every new session
const Greeting = "Hello, how can I help you today with your financial needs?"

// Session holds the per-user conversation state: the external thread handle
// and the visible transcript. Sessions are owned by the caller and passed
// explicitly; no process-wide state is kept
type Session struct {
	ID     uuid.UUID `json:"id"`
	UserID string    `json:"user_id"`

	// ThreadID is the external service's conversation handle. It is assigned
	// once by EnsureThread and reused for every turn in the session
	ThreadID string `json:"thread_id,omitempty"`

	// Transcript is the append-only sequence of completed turns
	Transcript []Turn `json:"transcript"`
}

// NewSession creates a session with a generated UUID and the seeded greeting
func NewSession(userID string) *Session {
	return &Session{
		ID:         uuid.New(),
		UserID:     userID,
		Transcript: []Turn{NewTurn(RoleAssistant, Greeting)},
	}
}

// EnsureThread returns the session's thread handle, creating it on first
// use. At most one thread is created per session
func (s *Session) EnsureThread(ctx context.Context, svc ConversationService) (string, error) {
	if s.ThreadID != "" {
		return s.ThreadID, nil
	}

	threadID, err := svc.CreateThread(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}

	s.ThreadID = threadID
	return s.ThreadID, nil
}

// AppendTurn appends a turn to the transcript. No deduplication and no size
// bound; the transcript grows monotonically for the session's lifetime
func (s *Session) AppendTurn(turn Turn) {
	s.Transcript = append(s.Transcript, turn)
}

// LastTurn returns the most recent turn, or false if the transcript is empty
func (s *Session) LastTurn() (Turn, bool) {
	if len(s.Transcript) == 0 {
		return Turn{}, false
	}
	return s.Transcript[len(s.Transcript)-1], true
}
