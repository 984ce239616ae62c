package models

import "encoding/json"

// Saved item types
const (
	SavedTypeCampaign   = "campaign"
	SavedTypePhotoshoot = "photoshoot"
)

// SavedItem is a named snapshot of a completed campaign or photoshoot run.
// ID is derived from the creation timestamp and is unique per save; Data is
// a deep copy taken at save time (json.RawMessage so the list round-trips
// through storage without re-interpreting payloads).
type SavedItem struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"` // campaign / photoshoot
	Name         string          `json:"name"`
	Date         string          `json:"date"` // localized creation timestamp
	Data         json.RawMessage `json:"data"`
	PreviewImage string          `json:"preview_image,omitempty"`
}
