// internal/models/chat.go
package models

import "time"

type ChatEventType string

const (
	ChatMessage ChatEventType = "message"
	ChatTyping  ChatEventType = "typing"
	ChatStatus  ChatEventType = "status"
)

// ChatEvent is one JSON frame relayed over the chat socket.
type ChatEvent struct {
	ID         string        `json:"id,omitempty"`
	Type       ChatEventType `json:"type"`
	RoomID     string        `json:"roomId"`
	SenderRole string        `json:"senderRole,omitempty"`
	SenderID   string        `json:"senderId,omitempty"`
	Content    string        `json:"content,omitempty"`
	Typing     bool          `json:"typing,omitempty"`
	Status     string        `json:"status,omitempty"`
	SentAt     time.Time     `json:"sentAt"`
}
