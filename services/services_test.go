package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"partyline/domain"
	"partyline/domain/event"
	"partyline/realtime"
	"partyline/repositories"
)

// fixture wires the real repositories over an in-memory store and a live
// registry, so service tests exercise the same transaction and pubsub paths
// as production.
type fixture struct {
	users    *repositories.UserRepository
	chats    *repositories.ChatRepository
	messages *repositories.MessageRepository
	registry *realtime.Registry

	identity *IdentityService
	friends  *FriendService
	chatSvc  *ChatService
	msgSvc   *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repositories.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		users:    repositories.NewUserRepository(db),
		chats:    repositories.NewChatRepository(db),
		messages: repositories.NewMessageRepository(db),
		registry: realtime.NewRegistry(log),
	}
	f.identity = NewIdentityService(f.users, f.registry)
	f.friends = NewFriendService(f.users, f.registry)
	f.chatSvc = NewChatService(f.chats, f.users, f.registry)
	f.msgSvc = NewMessageService(f.messages, f.chats, f.registry, nil)
	return f
}

func (f *fixture) user(t *testing.T, username string) domain.User {
	t.Helper()
	user, err := f.users.CreateUser(username, "hash")
	require.NoError(t, err)
	return user
}

// listen subscribes a fresh inbox to a topic and returns it.
func (f *fixture) listen(topic string) *realtime.Sink {
	sink := realtime.NewSink(64)
	f.registry.Subscribe("test-"+topic, topic, sink)
	return sink
}

func received(s *realtime.Sink) []event.DomainEvent {
	var events []event.DomainEvent
	for {
		select {
		case e := <-s.Events:
			events = append(events, e)
		default:
			return events
		}
	}
}
