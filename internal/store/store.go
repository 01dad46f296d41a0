// Package store persists conversation sessions and their transcripts.
// Three backends are available: in-memory, MySQL via GORM, and Redis.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// ErrNotFound is returned when a session does not exist
var ErrNotFound = errors.New("session not found")

// Store interface defines methods for session storage
type Store interface {
	// CreateSession creates a new session for the user, seeded with the
	// assistant greeting
	CreateSession(ctx context.Context, userID string) (*chat.Session, error)

	// GetSession retrieves a session with its transcript in order
	GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error)

	// UpdateThread records the external thread handle for a session
	UpdateThread(ctx context.Context, sessionID uuid.UUID, threadID string) error

	// AppendTurns appends completed turns to the session transcript
	AppendTurns(ctx context.Context, sessionID uuid.UUID, turns ...chat.Turn) error

	// DeleteSession removes a session and its transcript
	DeleteSession(ctx context.Context, sessionID uuid.UUID) error
}
