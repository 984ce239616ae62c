package models

import (
	"time"

	"github.com/google/uuid"
)

// Run kinds
const (
	RunKindCampaign   = "campaign"
	RunKindPhotoshoot = "photoshoot"
	RunKindVideo      = "video"
)

// Run statuses
const (
	RunStatusQueued    = "queued"
	RunStatusPlanning  = "planning" // campaign only: structured plan requested
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// Valid state transitions: from -> []to
var ValidRunTransitions = map[string][]string{
	RunStatusQueued:    {RunStatusPlanning, RunStatusRunning, RunStatusCancelled},
	RunStatusPlanning:  {RunStatusRunning, RunStatusFailed, RunStatusCancelled},
	RunStatusRunning:   {RunStatusSucceeded, RunStatusFailed, RunStatusCancelled},
	RunStatusSucceeded: {},
	RunStatusFailed:    {},
	RunStatusCancelled: {},
}

func IsValidRunTransition(from, to string) bool {
	allowed, ok := ValidRunTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalRunStatus reports whether no further transitions exist.
func IsTerminalRunStatus(status string) bool {
	allowed, ok := ValidRunTransitions[status]
	return ok && len(allowed) == 0
}

// Run is one tracked batch generation: a campaign, a photoshoot session or a
// video job. Progress is 0..100 and only ever increases while the run is
// alive. Result fields are snapshots owned by the run until it finishes.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Campaign *CampaignResult `json:"campaign,omitempty"`
	Shots    []ShootResult   `json:"shots,omitempty"`
	VideoURL string          `json:"video_url,omitempty"` // served media path once the asset is stored
}
