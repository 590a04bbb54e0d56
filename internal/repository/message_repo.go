package repository

import (
	"context"

	"wsuconnect/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindThread(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.Message, error)
	MarkThreadRead(ctx context.Context, receiverID, senderID uuid.UUID) error
	CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// FindThread returns every message between the two participants, in either
// direction, ascending by creation time.
func (r *messageRepository) FindThread(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.Message, error) {
	var messages []*entity.Message
	if err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at asc").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkThreadRead flips the unread incoming rows of the pair; the sender's own
// read flags are untouched.
func (r *messageRepository) MarkThreadRead(ctx context.Context, receiverID, senderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true).Error
}

// CounterpartIDs returns the distinct ids of everyone the user has exchanged
// at least one message with.
func (r *messageRepository) CounterpartIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Select("DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END", userID).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Scan(&ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}
