package event

import "partyline/domain"

// Topic prefixes. A personal topic receives cross-chat notifications for one
// user; a chat topic receives message events for subscribers that joined it.
const (
	UserTopicPrefix = "user:"
	ChatTopicPrefix = "chat:"
)

func UserTopic(userID string) string { return UserTopicPrefix + userID }
func ChatTopic(chatID string) string { return ChatTopicPrefix + chatID }

// DomainEvent is anything routable through the registry. Topic selects the
// subscriber set, Name is the wire event name, Payload the wire body.
type DomainEvent interface {
	Topic() string
	Name() string
	Payload() any
}

// ChatCreated notifies one participant's personal topic of a new chat.
// The dedup-hit path of direct chat creation never emits it.
type ChatCreated struct {
	To   string
	Chat domain.Chat
}

func (e ChatCreated) Topic() string { return UserTopic(e.To) }
func (e ChatCreated) Name() string  { return "chat_new" }
func (e ChatCreated) Payload() any  { return e.Chat }

// MessagePosted carries an appended message to its chat topic.
type MessagePosted struct {
	Message domain.Message
}

func (e MessagePosted) Topic() string { return ChatTopic(e.Message.ChatID) }
func (e MessagePosted) Name() string  { return "message_new" }
func (e MessagePosted) Payload() any  { return e.Message }

// FriendRequested notifies the target user of a new pending request,
// carrying the sender's public profile.
type FriendRequested struct {
	To   string
	From domain.PublicProfile
}

func (e FriendRequested) Topic() string { return UserTopic(e.To) }
func (e FriendRequested) Name() string  { return "friend_request" }
func (e FriendRequested) Payload() any  { return e.From }

// ProfileUpdated propagates a profile change to one personal topic.
type ProfileUpdated struct {
	To   string
	User domain.User
}

func (e ProfileUpdated) Topic() string { return UserTopic(e.To) }
func (e ProfileUpdated) Name() string  { return "user_update" }
func (e ProfileUpdated) Payload() any  { return e.User }
