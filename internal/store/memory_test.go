package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create seeds the greeting turn", func(t *testing.T) {
		s := NewMemoryStore()

		sess, err := s.CreateSession(ctx, "customer-1")
		require.NoError(t, err)

		require.Len(t, sess.Transcript, 1)
		assert.Equal(t, chat.RoleAssistant, sess.Transcript[0].Role)
		assert.Equal(t, chat.Greeting, sess.Transcript[0].Content)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := NewMemoryStore()
		created, err := s.CreateSession(ctx, "customer-1")
		require.NoError(t, err)

		got, err := s.GetSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)

		// Mutating the returned session must not touch the stored one
		got.AppendTurn(chat.NewTurn(chat.RoleUser, "local only"))
		again, err := s.GetSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, again.Transcript, 1)
	})

	t.Run("unknown session id", func(t *testing.T) {
		s := NewMemoryStore()

		_, err := s.GetSession(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, s.UpdateThread(ctx, uuid.New(), "thread_x"), ErrNotFound)
		assert.ErrorIs(t, s.AppendTurns(ctx, uuid.New(), chat.NewTurn(chat.RoleUser, "x")), ErrNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, uuid.New()), ErrNotFound)
	})

	t.Run("thread handle persists", func(t *testing.T) {
		s := NewMemoryStore()
		sess, err := s.CreateSession(ctx, "customer-1")
		require.NoError(t, err)

		require.NoError(t, s.UpdateThread(ctx, sess.ID, "thread_abc"))

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "thread_abc", got.ThreadID)
	})

	t.Run("turns append in order", func(t *testing.T) {
		s := NewMemoryStore()
		sess, err := s.CreateSession(ctx, "customer-1")
		require.NoError(t, err)

		err = s.AppendTurns(ctx, sess.ID,
			chat.NewTurn(chat.RoleUser, "What is my balance?"),
			chat.NewTurn(chat.RoleAssistant, "100 dollars."),
		)
		require.NoError(t, err)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.Len(t, got.Transcript, 3)
		assert.Equal(t, "What is my balance?", got.Transcript[1].Content)
		assert.Equal(t, "100 dollars.", got.Transcript[2].Content)
	})

	t.Run("delete removes the session", func(t *testing.T) {
		s := NewMemoryStore()
		sess, err := s.CreateSession(ctx, "customer-1")
		require.NoError(t, err)

		require.NoError(t, s.DeleteSession(ctx, sess.ID))
		_, err = s.GetSession(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
