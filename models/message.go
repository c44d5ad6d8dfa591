package models

import (
	"time"
)

// Message is a single conversation turn. ID and Timestamp are assigned when
// the message is stored; the wire format only carries role and content.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Role      string    `json:"role" binding:"required,oneof=user assistant"`
	Content   string    `json:"content" binding:"required"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserID  string  `json:"user_id" binding:"required"`
	ChatID  string  `json:"chat_id" binding:"required"`
	Message Message `json:"message" binding:"required"`
}

// ChatResponse is the body returned by POST /chat. Citation is omitted when
// the generation carried no usable grounding sources.
type ChatResponse struct {
	Response string `json:"response"`
	Title    string `json:"title"`
	Model    string `json:"model"`
	Citation string `json:"citation,omitempty"`
}

// ChatSummary is one entry of GET /user/:user_id/chats.
type ChatSummary struct {
	ChatID string `json:"chat_id"`
	Title  string `json:"title"`
}
