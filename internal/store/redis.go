package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// sessionTTL bounds how long an idle session survives in Redis
const sessionTTL = 24 * time.Hour

// RedisStore keeps sessions in Redis: one JSON value per session and a
// list of JSON turns per transcript, both refreshed on write
type RedisStore struct {
	client *redis.Client
}

// sessionRecord is the stored session metadata, without the transcript
type sessionRecord struct {
	ID       uuid.UUID `json:"id"`
	UserID   string    `json:"user_id"`
	ThreadID string    `json:"thread_id,omitempty"`
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(id uuid.UUID) string { return "chat:session:" + id.String() }
func turnsKey(id uuid.UUID) string   { return "chat:turns:" + id.String() }

// CreateSession creates a new session in Redis
func (s *RedisStore) CreateSession(ctx context.Context, userID string) (*chat.Session, error) {
	sess := chat.NewSession(userID)

	if err := s.writeRecord(ctx, sessionRecord{
		ID:     sess.ID,
		UserID: sess.UserID,
	}); err != nil {
		return nil, err
	}

	if err := s.AppendTurns(ctx, sess.ID, sess.Transcript...); err != nil {
		return nil, err
	}

	return sess, nil
}

// GetSession retrieves a session with its transcript in order
func (s *RedisStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	raw, err := s.client.LRange(ctx, turnsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	sess := &chat.Session{
		ID:       record.ID,
		UserID:   record.UserID,
		ThreadID: record.ThreadID,
	}
	for _, entry := range raw {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			return nil, fmt.Errorf("failed to decode turn: %w", err)
		}
		sess.Transcript = append(sess.Transcript, turn)
	}

	return sess, nil
}

// UpdateThread records the external thread handle for a session
func (s *RedisStore) UpdateThread(ctx context.Context, sessionID uuid.UUID, threadID string) error {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	return s.writeRecord(ctx, sessionRecord{
		ID:       sess.ID,
		UserID:   sess.UserID,
		ThreadID: threadID,
	})
}

// AppendTurns appends completed turns to the session transcript list
func (s *RedisStore) AppendTurns(ctx context.Context, sessionID uuid.UUID, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	entries := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
		entries = append(entries, b)
	}

	if err := s.client.RPush(ctx, turnsKey(sessionID), entries...).Err(); err != nil {
		return fmt.Errorf("failed to append turns: %w", err)
	}

	return s.client.Expire(ctx, turnsKey(sessionID), sessionTTL).Err()
}

// DeleteSession removes a session and its transcript
func (s *RedisStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.client.Del(ctx, sessionKey(sessionID), turnsKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) writeRecord(ctx context.Context, record sessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(record.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}
