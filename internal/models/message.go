package models

import (
	"fmt"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single entry of a conversation transcript.
// ID is optional and only assigned client-side.
type Message struct {
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate checks the message role
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("invalid role %q", m.Role)
	}
	return nil
}

// Wire strips the client-side ID, leaving only what the gateway accepts
func (m Message) Wire() Message {
	return Message{Role: m.Role, Content: m.Content}
}

// ChatRequest is the body exchanged with the chatbot gateway. Messages is a
// pointer so an absent field can be told apart from an empty list.
type ChatRequest struct {
	Messages *[]Message `json:"messages"`
}
