package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/nguyennehehe/banking-chatbot/pkg/chat"
)

// SessionModel is the persisted form of a conversation session
type SessionModel struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	UserID   string       `gorm:"size:255"`
	ThreadID string       `gorm:"size:255"`
	Turns    []*TurnModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for GORM
func (*SessionModel) TableName() string { return "sessions" }

// TurnModel is the persisted form of a single transcript turn
type TurnModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`

	SessionID uuid.UUID `gorm:"type:char(36);not null;index"`
	Role      string    `gorm:"size:20;not null"`
	Content   string    `gorm:"type:text"`
}

// TableName specifies the database table name for GORM
func (*TurnModel) TableName() string { return "turns" }

// GormStore handles session persistence using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new session store with a GORM MySQL connection
func NewGormStore(databaseURL string) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(&SessionModel{}, &TurnModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &GormStore{db: db}, nil
}

// CreateSession creates a new session in the database
func (s *GormStore) CreateSession(ctx context.Context, userID string) (*chat.Session, error) {
	sess := chat.NewSession(userID)

	model := &SessionModel{
		ID:       sess.ID,
		UserID:   sess.UserID,
		ThreadID: sess.ThreadID,
	}
	for _, turn := range sess.Transcript {
		model.Turns = append(model.Turns, &TurnModel{
			SessionID: sess.ID,
			Role:      string(turn.Role),
			Content:   turn.Content,
		})
	}

	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

// GetSession retrieves a session by ID with its transcript in order
func (s *GormStore) GetSession(ctx context.Context, sessionID uuid.UUID) (*chat.Session, error) {
	var model SessionModel
	result := s.db.WithContext(ctx).
		Preload("Turns", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		First(&model, "id = ?", sessionID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", result.Error)
	}

	sess := &chat.Session{
		ID:       model.ID,
		UserID:   model.UserID,
		ThreadID: model.ThreadID,
	}
	for _, turn := range model.Turns {
		sess.Transcript = append(sess.Transcript, chat.NewTurn(chat.Role(turn.Role), turn.Content))
	}

	return sess, nil
}

// UpdateThread records the external thread handle for a session
func (s *GormStore) UpdateThread(ctx context.Context, sessionID uuid.UUID, threadID string) error {
	result := s.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", sessionID).
		Update("thread_id", threadID)

	if result.Error != nil {
		return fmt.Errorf("failed to update thread: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendTurns appends completed turns to the session transcript.
// Turns are saved one-by-one in a transaction to persist ordering
func (s *GormStore) AppendTurns(ctx context.Context, sessionID uuid.UUID, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&SessionModel{}).Where("id = ?", sessionID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}

		for _, turn := range turns {
			model := &TurnModel{
				SessionID: sessionID,
				CreatedAt: time.Now().UTC(),
				Role:      string(turn.Role),
				Content:   turn.Content,
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to save turn: %w", err)
			}
		}

		return nil
	})
}

// DeleteSession deletes a session and its turns from the database
func (s *GormStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&TurnModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete session turns: %w", err)
		}

		result := tx.Where("id = ?", sessionID).Delete(&SessionModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
