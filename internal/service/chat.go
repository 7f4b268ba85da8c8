package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/access"
	"github.com/lalith-99/almoftah/internal/chat"
	"github.com/lalith-99/almoftah/internal/models"
	"github.com/lalith-99/almoftah/internal/repository"
	"go.uber.org/zap"
)

// ChatService runs the buyer-to-agent conversations. Every write publishes
// the full document through the hub.
type ChatService struct {
	chats  repository.ChatRepository
	units  repository.UnitRepository
	admins repository.AdminRepository
	hub    chat.Hub
	logger *zap.Logger
}

func NewChatService(chats repository.ChatRepository, units repository.UnitRepository, admins repository.AdminRepository, hub chat.Hub, logger *zap.Logger) *ChatService {
	return &ChatService{
		chats:  chats,
		units:  units,
		admins: admins,
		hub:    hub,
		logger: logger,
	}
}

// SendUserMessage appends a buyer message to the buyer's chat about unitID,
// creating the chat on the first message.
func (s *ChatService) SendUserMessage(ctx context.Context, v access.Viewer, unitID uuid.UUID, text string) (*models.Chat, error) {
	if v.Role != models.RoleUser {
		return nil, ErrForbidden
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	u, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	seed := &models.Chat{
		ID:        models.ChatID(v.ID, unitID),
		UnitID:    unitID,
		UnitTitle: u.Title,
		UserID:    v.ID,
		UserName:  v.Name,
	}
	return s.appendAndPublish(ctx, seed, models.SenderUser, text, false)
}

// Reply appends an admin message to an existing chat and marks it read.
func (s *ChatService) Reply(ctx context.Context, chatID, text string) (*models.Chat, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return s.appendAndPublish(ctx, c, models.SenderAdmin, text, true)
}

// Open returns the chat for an admin and marks it read.
func (s *ChatService) Open(ctx context.Context, chatID string) (*models.Chat, error) {
	c, err := s.chats.MarkRead(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	s.publish(ctx, c)
	return c, nil
}

func (s *ChatService) Inbox(ctx context.Context) ([]models.Chat, error) {
	return s.chats.ListInbox(ctx)
}

// GetForUnit returns the caller's own chat about unitID. Only buyers own
// chats; staff read them through the inbox.
func (s *ChatService) GetForUnit(ctx context.Context, v access.Viewer, unitID uuid.UUID) (*models.Chat, error) {
	if v.Role != models.RoleUser {
		return nil, ErrForbidden
	}

	c, err := s.chats.GetByID(ctx, models.ChatID(v.ID, unitID))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Subscribe returns the current document and a stream of later snapshots.
// Buyers may only follow their own chats; active staff may follow any.
func (s *ChatService) Subscribe(ctx context.Context, v access.Viewer, chatID string) (*models.Chat, <-chan *models.Chat, func(), error) {
	if err := s.authorize(ctx, v, chatID); err != nil {
		return nil, nil, nil, err
	}

	// Subscribe before loading so a write between the two is not lost.
	updates, cancel, err := s.hub.Subscribe(ctx, chatID)
	if err != nil {
		return nil, nil, nil, err
	}

	c, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	if c == nil {
		cancel()
		return nil, nil, nil, ErrNotFound
	}
	return c, updates, cancel, nil
}

func (s *ChatService) authorize(ctx context.Context, v access.Viewer, chatID string) error {
	if v.Role.IsStaff() {
		active, err := s.admins.IsActive(ctx, v.ID)
		if err != nil {
			return err
		}
		if !active {
			return ErrForbidden
		}
		return nil
	}
	if !strings.HasPrefix(chatID, v.ID.String()+"_") {
		return ErrNotFound
	}
	return nil
}

func (s *ChatService) appendAndPublish(ctx context.Context, seed *models.Chat, sender models.Sender, text string, readByAdmin bool) (*models.Chat, error) {
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: now(),
	}

	c, err := s.chats.AppendMessage(ctx, seed, msg, readByAdmin)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, c)
	return c, nil
}

// publish is best effort. The write is already durable and subscribers
// resync on reconnect.
func (s *ChatService) publish(ctx context.Context, c *models.Chat) {
	if err := s.hub.Publish(ctx, c); err != nil {
		s.logger.Warn("chat publish failed",
			zap.String("chat_id", c.ID),
			zap.Error(err),
		)
	}
}
