package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"solve_litigation_go/logger"
	"solve_litigation_go/models"

	"gorm.io/gorm"
)

// MaxMessageLength bounds a chat message body
const MaxMessageLength = 5000

// Conversation is the message history between two users together with the counterpart
type Conversation struct {
	Messages []models.Message `json:"messages"`
	User     *models.User     `json:"user"`
}

// ChatContact is a user who has written to the receiver
type ChatContact struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Specialist string `json:"specialist"`
	State      string `json:"state"`
	District   string `json:"district"`
}

// MessageService stores chat messages between clients and lawyers
type MessageService struct {
	db      *gorm.DB
	storage StorageProvider
}

// NewMessageService creates a message service
func NewMessageService(db *gorm.DB, storage StorageProvider) *MessageService {
	return &MessageService{db: db, storage: storage}
}

// SendText stores a text message from the actor
func (s *MessageService) SendText(toID, text string, actor *models.User) (*models.Message, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewValidationError("Message text is required")
	}
	if len([]rune(text)) > MaxMessageLength {
		return nil, NewValidationError(fmt.Sprintf("Message must be at most %d characters", MaxMessageLength))
	}
	if _, err := s.recipient(toID, actor); err != nil {
		return nil, err
	}

	message := &models.Message{FromID: actor.ID, ToID: toID, Text: text}
	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return message, nil
}

// SendAttachment stores a file message from the actor
func (s *MessageService) SendAttachment(ctx context.Context, toID string, file *multipart.FileHeader, actor *models.User) (*models.Message, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	if file == nil {
		return nil, NewValidationError("Attachment is required")
	}
	if err := ValidateAttachmentUpload(file); err != nil {
		return nil, err
	}
	if _, err := s.recipient(toID, actor); err != nil {
		return nil, err
	}

	result, err := s.storage.Upload(ctx, file, GenerateMessageAttachmentKey(actor.ID, toID, file.Filename))
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	message := &models.Message{
		FromID:         actor.ID,
		ToID:           toID,
		Attachment:     result.Key,
		AttachmentName: file.Filename,
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		s.removeAttachment(result.Key)
		return nil, fmt.Errorf("failed to send attachment: %w", err)
	}
	return message, nil
}

// Conversation returns the messages exchanged between fromID and toID, oldest first,
// with the participant other than the caller. Only a participant or an admin may read it.
func (s *MessageService) Conversation(fromID, toID string, actor *models.User) (*Conversation, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	if actor.ID != fromID && actor.ID != toID && LevelOf(actor) < LevelAdmin {
		return nil, NewForbiddenError()
	}

	var messages []models.Message
	err := s.db.Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)", fromID, toID, toID, fromID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}

	counterpartID := toID
	if actor.ID == toID {
		counterpartID = fromID
	}
	counterpart, err := GetUserByID(s.db, counterpartID)
	if err != nil {
		return nil, err
	}
	return &Conversation{Messages: messages, User: counterpart}, nil
}

// ChattedUsers lists the distinct senders who have written to receiverID
func (s *MessageService) ChattedUsers(receiverID string, actor *models.User) ([]ChatContact, error) {
	if actor == nil {
		return nil, accessError(actor)
	}
	if actor.ID != receiverID && LevelOf(actor) < LevelAdmin {
		return nil, NewForbiddenError()
	}

	var contacts []ChatContact
	err := s.db.Model(&models.User{}).
		Select("users.id, users.full_name, users.specialist, users.state, users.district").
		Where("users.id IN (?)", s.db.Model(&models.Message{}).Select("from_id").Where("to_id = ?", receiverID)).
		Order("users.full_name").
		Scan(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chatted users: %w", err)
	}
	if contacts == nil {
		contacts = []ChatContact{}
	}
	return contacts, nil
}

// Delete removes a message and its attachment. The sender and admins may delete.
func (s *MessageService) Delete(ctx context.Context, id string, actor *models.User) error {
	if actor == nil {
		return accessError(actor)
	}
	message, err := s.find(id)
	if err != nil {
		return err
	}
	if message.FromID != actor.ID && LevelOf(actor) < LevelAdmin {
		return NewForbiddenError()
	}

	if err := s.db.WithContext(ctx).Delete(message).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if message.HasAttachment() {
		s.removeAttachment(message.Attachment)
	}
	return nil
}

// Attachment opens the file of a message for one of its participants
func (s *MessageService) Attachment(ctx context.Context, id string, actor *models.User) (io.ReadCloser, *models.Message, error) {
	if actor == nil {
		return nil, nil, accessError(actor)
	}
	message, err := s.find(id)
	if err != nil {
		return nil, nil, err
	}
	if message.FromID != actor.ID && message.ToID != actor.ID && LevelOf(actor) < LevelAdmin {
		return nil, nil, NewForbiddenError()
	}
	if !message.HasAttachment() {
		return nil, nil, NewNotFoundError("File")
	}

	reader, _, err := s.storage.Get(ctx, message.Attachment)
	if err != nil {
		logger.Log.Error("Failed to open message attachment", "message_id", id, "error", err)
		return nil, nil, NewNotFoundError("File")
	}
	return reader, message, nil
}

// recipient loads the receiving account; writing to oneself is rejected
func (s *MessageService) recipient(toID string, actor *models.User) (*models.User, error) {
	if strings.TrimSpace(toID) == "" {
		return nil, NewValidationError("Recipient is required")
	}
	if toID == actor.ID {
		return nil, NewValidationError("Cannot send a message to yourself")
	}
	return GetUserByID(s.db, toID)
}

func (s *MessageService) find(id string) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Message")
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	return &message, nil
}

func (s *MessageService) removeAttachment(key string) {
	if err := s.storage.Delete(context.Background(), key); err != nil {
		logger.Log.Warn("Failed to delete message attachment", "key", key, "error", err)
	}
}
