package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	AuditActionImageGenerated   = "image_generated"
	AuditActionImageEdited      = "image_edited"
	AuditActionDesignMimicked   = "design_mimicked"
	AuditActionVideoGenerated   = "video_generated"
	AuditActionCampaignRun      = "campaign_run"
	AuditActionPhotoshootRun    = "photoshoot_run"
	AuditActionChatMessageSent  = "chat_message_sent"
	AuditActionLibraryItemSaved = "library_item_saved"
)

type AuditLog struct {
	ID         uuid.UUID `json:"id"`
	ActorType  string    `json:"actor_type"` // user/system
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"` // run/library_item/chat_session
	EntityID   *string   `json:"entity_id,omitempty"`
	Meta       any       `json:"meta,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
