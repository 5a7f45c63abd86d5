package services

import (
	"context"
	"sync"

	"partyline/contract"
	"partyline/domain"
	"partyline/domain/event"
	"partyline/errors"
	"partyline/moderation"
	"partyline/repositories"
)

type IMessageService interface {
	Send(ctx context.Context, chatID, senderID string, msgType domain.MessageType, content string) (domain.Message, error)
	History(chatID, requesterID string) ([]domain.Message, error)
}

// MessageService is the message router: it appends to the per-chat ordered
// log and broadcasts to the chat's topic.
//
// Each chat has its own lock, held across append and publish, so sequence
// order, log order, and publish order coincide for one chat while unrelated
// chats never serialize against each other.
type MessageService struct {
	messages  repositories.IMessageRepository
	chats     repositories.IChatRepository
	registry  contract.Registry
	moderator *moderation.Moderator // nil when moderation is off

	mu        sync.Mutex
	chatLocks map[string]*sync.Mutex
}

func NewMessageService(messages repositories.IMessageRepository, chats repositories.IChatRepository, registry contract.Registry, moderator *moderation.Moderator) *MessageService {
	return &MessageService{
		messages:  messages,
		chats:     chats,
		registry:  registry,
		moderator: moderator,
		chatLocks: make(map[string]*sync.Mutex),
	}
}

func (s *MessageService) lockFor(chatID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		s.chatLocks[chatID] = lock
	}
	return lock
}

// Send validates, then atomically assigns the next sequence number, appends,
// and publishes message_new to the chat's topic. All validation happens
// before any mutation; a rejected send leaves no trace. Empty content is
// valid: only the message type is constrained.
func (s *MessageService) Send(ctx context.Context, chatID, senderID string, msgType domain.MessageType, content string) (domain.Message, error) {
	chat, err := s.chats.ChatByID(chatID)
	if err != nil {
		return domain.Message{}, err
	}
	if !chat.HasParticipant(senderID) {
		return domain.Message{}, errors.ErrNotChatMember
	}
	if !msgType.Valid() {
		return domain.Message{}, errors.ErrInvalidMessageType
	}

	if msgType == domain.MessageText && s.moderator != nil {
		content = s.moderator.Censor(content)
	}

	lock := s.lockFor(chatID)
	lock.Lock()
	defer lock.Unlock()

	msg, err := s.messages.Append(chatID, senderID, msgType, content)
	if err != nil {
		return domain.Message{}, err
	}
	s.registry.Publish(ctx, event.MessagePosted{Message: msg})
	return msg, nil
}

// History returns the full ordered log. Participants only.
func (s *MessageService) History(chatID, requesterID string) ([]domain.Message, error) {
	chat, err := s.chats.ChatByID(chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(requesterID) {
		return nil, errors.ErrNotChatMember
	}
	return s.messages.Messages(chatID)
}
