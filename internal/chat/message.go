package chat

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of a user's conversation with the assistant.
// Timestamp is in unix milliseconds.
type Message struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// NewMessage stamps a message with the given time.
func NewMessage(role Role, text string, at time.Time) Message {
	return Message{Role: role, Text: text, Timestamp: at.UnixMilli()}
}
