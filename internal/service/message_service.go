package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"wsuconnect/internal/dto"
	"wsuconnect/internal/entity"
	"wsuconnect/internal/repository"
	"wsuconnect/pkg/apperror"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type MessageService interface {
	Conversations(ctx context.Context, userID uuid.UUID) ([]*entity.Profile, error)
	Thread(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.Message, error)
	Send(ctx context.Context, senderID uuid.UUID, input dto.SendMessageInput) (*entity.Message, error)
}

type messageService struct {
	repo             repository.MessageRepository
	profileRepo      repository.ProfileRepository
	notifier         NotificationService
	redisClient      *redis.Client
	sanitizer        *bluemonday.Policy
	messageRateLimit time.Duration
}

func NewMessageService(repo repository.MessageRepository, profileRepo repository.ProfileRepository, notifier NotificationService, redisClient *redis.Client, messageRateLimit time.Duration) MessageService {
	return &messageService{
		repo:             repo,
		profileRepo:      profileRepo,
		notifier:         notifier,
		redisClient:      redisClient,
		sanitizer:        bluemonday.StrictPolicy(),
		messageRateLimit: messageRateLimit,
	}
}

// Conversations lists everyone the user has exchanged messages with, resolved
// to profiles. Order is whatever the profile lookup returns.
func (s *messageService) Conversations(ctx context.Context, userID uuid.UUID) ([]*entity.Profile, error) {
	ids, err := s.repo.CounterpartIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.Profile{}, nil
	}

	profiles, err := s.profileRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, profile := range profiles {
		profile.PasswordHash = ""
	}

	return profiles, nil
}

// Thread returns the full two-party conversation ascending by creation time,
// then marks the caller's unread incoming rows read. The mark-read is best
// effort: on failure the thread is still returned and the rows stay unread
// until the next open.
func (s *messageService) Thread(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.Message, error) {
	messages, err := s.repo.FindThread(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkThreadRead(ctx, userID, otherID); err != nil {
		log.Printf("failed to mark thread read for %s: %v", userID, err)
	}

	return messages, nil
}

// Send stores the message and then the receiver's notification, two
// independent writes in that order. The content is stripped of any markup
// before storage.
func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, input dto.SendMessageInput) (*entity.Message, error) {
	receiverID, err := uuid.Parse(input.ReceiverID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}
	if receiverID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", apperror.ErrInvalidInput)
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(input.Content))
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", apperror.ErrInvalidInput)
	}

	sender, err := s.profileRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	ok, err := CheckAndSetRateLimit(ctx, s.redisClient, senderID, "send_message", s.messageRateLimit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrRateLimitExceeded
	}

	message := &entity.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	notification := &entity.Notification{
		UserID:    receiverID,
		Type:      entity.NotifMessage,
		Title:     "New Message",
		Content:   fmt.Sprintf("You have a new message from %s", sender.FullName),
		RelatedID: &message.ID,
	}
	if err := s.notifier.Create(ctx, notification); err != nil {
		log.Printf("failed to create message notification for %s: %v", receiverID, err)
	}

	s.publish(ctx, message)

	return message, nil
}

// publish emits the change event to both participants; an open thread view
// re-fetches when the pair matches.
func (s *messageService) publish(ctx context.Context, message *entity.Message) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(MessageEvent{
		Table:      "messages",
		Event:      "INSERT",
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
	})
	if err != nil {
		return
	}

	s.redisClient.Publish(ctx, MessageChannel(message.SenderID), payload)
	s.redisClient.Publish(ctx, MessageChannel(message.ReceiverID), payload)
}
