package services

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"partyline/contract"
	"partyline/domain"
	"partyline/domain/event"
	"partyline/errors"
	"partyline/repositories"
)

type IChatService interface {
	Create(ctx context.Context, chatType domain.ChatType, participants []string, name string) (domain.Chat, error)
	ListForUser(userID string) ([]domain.ChatView, error)
	CanJoin(userID, chatID string) error
}

// ChatService is the chat directory: lifecycle plus exactly-once direct-chat
// creation. Direct dedup is atomic in the repository transaction, so two
// concurrent creations of the same pair always converge on a single chat and
// only the winning creation emits chat_new events.
type ChatService struct {
	chats    repositories.IChatRepository
	users    repositories.IUserRepository
	registry contract.Registry
}

func NewChatService(chats repositories.IChatRepository, users repositories.IUserRepository, registry contract.Registry) *ChatService {
	return &ChatService{chats: chats, users: users, registry: registry}
}

// Create validates before any mutation and publishes chat_new to every
// participant's personal topic, but only when a chat was actually created.
// A direct dedup hit returns the existing chat unchanged and stays silent.
func (s *ChatService) Create(ctx context.Context, chatType domain.ChatType, participants []string, name string) (domain.Chat, error) {
	participants = lo.Uniq(participants)
	for _, id := range participants {
		if _, err := s.users.UserByID(id); err != nil {
			return domain.Chat{}, fmt.Errorf("%w: unknown participant %s", errors.ErrValidation, id)
		}
	}

	var chat domain.Chat
	var created bool
	var err error
	switch chatType {
	case domain.ChatDirect:
		if len(participants) != 2 {
			return domain.Chat{}, fmt.Errorf("%w: direct chat needs exactly two distinct participants", errors.ErrValidation)
		}
		chat, created, err = s.chats.GetOrCreateDirect(participants[0], participants[1])
	case domain.ChatGroup:
		if name == "" {
			return domain.Chat{}, fmt.Errorf("%w: group chat needs a name", errors.ErrValidation)
		}
		if len(participants) < 2 {
			return domain.Chat{}, fmt.Errorf("%w: group chat needs at least two participants", errors.ErrValidation)
		}
		chat, err = s.chats.CreateGroup(name, participants)
		created = true
	default:
		return domain.Chat{}, fmt.Errorf("%w: unknown chat type %q", errors.ErrValidation, chatType)
	}
	if err != nil {
		return domain.Chat{}, err
	}

	if created {
		for _, userID := range chat.Participants {
			s.registry.Publish(ctx, event.ChatCreated{To: userID, Chat: chat})
		}
	}
	return chat, nil
}

// ListForUser returns the viewer's chats. Direct chats take the other
// participant's username and avatar as display name; group chats keep their
// own name and a derived avatar.
func (s *ChatService) ListForUser(userID string) ([]domain.ChatView, error) {
	if _, err := s.users.UserByID(userID); err != nil {
		return nil, err
	}
	chats, err := s.chats.ChatsByUser(userID)
	if err != nil {
		return nil, err
	}

	views := lo.Map(chats, func(chat domain.Chat, _ int) domain.ChatView {
		view := domain.ChatView{Chat: chat}
		if chat.Type == domain.ChatDirect {
			if other, err := s.users.UserByID(chat.OtherParticipant(userID)); err == nil {
				view.Name = other.Username
				view.Avatar = other.Avatar
			}
		} else {
			view.Avatar = domain.GroupAvatarURL(chat.Name)
		}
		return view
	})
	return views, nil
}

// CanJoin authorizes a subscription to the chat's topic: the chat must exist
// and the user must be a participant.
func (s *ChatService) CanJoin(userID, chatID string) error {
	chat, err := s.chats.ChatByID(chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(userID) {
		return errors.ErrNotChatMember
	}
	return nil
}
