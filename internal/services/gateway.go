package services

import (
	"context"

	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
)

// Gateway is the slice of the model gateway the orchestrators depend on.
// *gemini.Client satisfies it; tests plug in fakes.
type Gateway interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (string, error)
	GenerateCampaignPlan(ctx context.Context, req gemini.PlanRequest) (*models.CampaignResult, error)
	GenerateVideo(ctx context.Context, req gemini.VideoRequest) ([]byte, string, error)
	EditImage(ctx context.Context, image, prompt string) (gemini.EditResult, error)
	MimicDesign(ctx context.Context, productImage, styleImage, prompt string) (string, error)
	Chat(ctx context.Context, history []models.ChatMessage, text string, images []string) (gemini.ChatReply, error)
}

var _ Gateway = (*gemini.Client)(nil)

// Auditor records one row per completed operation. *repositories.AuditRepo
// satisfies it.
type Auditor interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

// NopAuditor discards audit entries; used when the audit store is disabled
// and in tests.
type NopAuditor struct{}

func (NopAuditor) Log(context.Context, models.AuditLog) error { return nil }
