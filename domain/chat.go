// Package domain contains core concepts of the chat system.
// This file defines Chat entities and the direct-chat uniqueness key.
package domain

import "strings"

type ChatType string

const (
	ChatDirect ChatType = "direct"
	ChatGroup  ChatType = "group"
)

// Chat is a conversation. Direct chats hold exactly two participants and are
// unique per unordered pair; group chats carry an explicit name and no
// uniqueness constraint. Messages live in their own log, owned by the chat.
type Chat struct {
	ID           string   `json:"id"`
	Type         ChatType `json:"type"`
	Participants []string `json:"participants"`
	Name         string   `json:"name"`
}

// HasParticipant reports whether userID belongs to the chat.
func (c Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the peer of userID in a direct chat.
func (c Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// DirectKey builds the canonical key of an unordered participant pair.
// Both orderings of the same pair map to the same key.
func DirectKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// ChatView is a chat enriched for one viewer: direct chats take the other
// participant's username and avatar as display name, group chats keep their
// own name and a derived avatar.
type ChatView struct {
	Chat
	Avatar string `json:"avatar"`
}

// GroupAvatarURL derives a deterministic avatar for a named group chat.
func GroupAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + strings.ReplaceAll(name, " ", "+")
}

// DefaultAvatarURL is the avatar assigned at registration when none is given.
func DefaultAvatarURL(username string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + username
}
