// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable once appended to a chat's log.
package domain

import "time"

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageAudio MessageType = "audio"
	MessageVideo MessageType = "video"
)

// Valid reports whether t is one of the allowed message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageAudio, MessageVideo:
		return true
	}
	return false
}

// Message is an immutable chat event. Sequence starts at 1 and increases by
// exactly one per message within a chat; it is the total order of the log.
// CreatedAt is informational only and never used for ordering.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chatId"`
	SenderID  string      `json:"senderId"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Sequence  uint64      `json:"sequence"`
	CreatedAt time.Time   `json:"createdAt"`
}
