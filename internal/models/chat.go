package models

import "time"

// Chat roles
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatMessage is one turn of a chat session. History is append-only and
// scoped to a single session; nothing survives session expiry.
type ChatMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Images    []string  `json:"images,omitempty"` // data URIs attached to the turn
	Timestamp time.Time `json:"timestamp"`
}
