package services

import (
	"context"
	"strings"

	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// CampaignInput carries the user's brief for a 9-day campaign.
type CampaignInput struct {
	ProductImages []string `json:"product_images"` // data URIs
	Market        string   `json:"market"`
	Dialect       string   `json:"dialect"`
	Reason        string   `json:"reason"`
}

// CampaignService plans a marketing campaign and renders one image per post.
// The plan call is the only step allowed to fail the run; a post whose image
// generation fails is flagged and the batch keeps going.
type CampaignService struct {
	gateway Gateway
	runs    *RunManager
	audit   Auditor
	log     *zap.Logger
}

func NewCampaignService(gateway Gateway, runs *RunManager, audit Auditor, log *zap.Logger) *CampaignService {
	return &CampaignService{gateway: gateway, runs: runs, audit: audit, log: log}
}

// RunCampaign validates the brief, registers a run and returns its id. The
// generation itself happens in the background; callers follow it over the
// run endpoint or the websocket stream.
func (s *CampaignService) RunCampaign(input CampaignInput) (string, error) {
	if len(input.ProductImages) == 0 {
		return "", missingInput(msgNeedProductImages)
	}
	h, ctx := s.runs.Begin(models.RunKindCampaign)
	go s.execute(ctx, h, input)
	return h.ID(), nil
}

func (s *CampaignService) execute(ctx context.Context, h *RunHandle, input CampaignInput) {
	h.SetStatus(models.RunStatusPlanning)
	h.SetProgress(5)

	plan, err := s.gateway.GenerateCampaignPlan(ctx, gemini.PlanRequest{
		ProductImages: input.ProductImages,
		Market:        input.Market,
		Dialect:       input.Dialect,
		Reason:        input.Reason,
	})
	if err != nil {
		if ctx.Err() != nil {
			h.SetStatus(models.RunStatusCancelled)
			return
		}
		s.log.Error("campaign plan failed", zap.String("run_id", h.ID()), zap.Error(err))
		h.Fail(gemini.UserMessage(err))
		return
	}

	h.Mutate(func(run *models.Run) { run.Campaign = plan })
	h.SetStatus(models.RunStatusRunning)
	h.SetProgress(30)

	// Strictly sequential, ascending day order; the plan arrives sorted.
	// The plan pointer is shared with the run from here on, so every post
	// write goes through the handle to stay visible to snapshots only in
	// a consistent state.
	total := len(plan.Posts)
	for i := range plan.Posts {
		if ctx.Err() != nil {
			h.SetStatus(models.RunStatusCancelled)
			return
		}
		prompt := plan.Posts[i].ImagePrompt
		day := plan.Posts[i].Day
		image, err := s.gateway.GenerateImage(ctx, gemini.ImageRequest{
			Prompt:      prompt,
			Size:        "1K",
			AspectRatio: "1:1",
			RefImage:    input.ProductImages[0],
		})
		if err != nil {
			if ctx.Err() != nil {
				h.SetStatus(models.RunStatusCancelled)
				return
			}
			s.log.Warn("post image failed",
				zap.String("run_id", h.ID()),
				zap.Int("day", day),
				zap.Error(err),
			)
			h.Mutate(func(run *models.Run) { run.Campaign.Posts[i].Error = true })
		} else {
			h.Mutate(func(run *models.Run) { run.Campaign.Posts[i].GeneratedImage = image })
		}
		h.SetProgress(30 + (i+1)*70/total)
	}

	h.SetStatus(models.RunStatusSucceeded)
	if err := s.audit.Log(context.Background(), models.AuditLog{
		ActorType:  "api",
		Action:     models.AuditActionCampaignRun,
		EntityType: "run",
		EntityID:   strPtr(h.ID()),
		Meta: map[string]any{
			"market":  input.Market,
			"dialect": input.Dialect,
			"posts":   total,
		},
	}); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}

// UpdatePostContent replaces one post's body in a finished or running
// campaign. Day addresses the post; an empty content is rejected.
func (s *CampaignService) UpdatePostContent(runID string, day int, content string) (models.Run, error) {
	if strings.TrimSpace(content) == "" {
		return models.Run{}, missingInput(msgNeedEditPrompt)
	}
	h, ok := s.runs.handle(runID)
	if !ok {
		return models.Run{}, ErrRunNotFound
	}
	found := false
	h.Mutate(func(run *models.Run) {
		if run.Campaign == nil {
			return
		}
		for i := range run.Campaign.Posts {
			if run.Campaign.Posts[i].Day == day {
				run.Campaign.Posts[i].Content = content
				found = true
				return
			}
		}
	})
	if !found {
		return models.Run{}, ErrPostNotFound
	}
	return h.Snapshot(), nil
}

func strPtr(s string) *string { return &s }
