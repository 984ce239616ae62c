package services

import (
	"context"
	"fmt"

	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// PhotoshootInput selects the camera angles and scene settings to cross.
type PhotoshootInput struct {
	ProductImage string   `json:"product_image"` // data URI
	Angles       []string `json:"angles"`
	Scenes       []string `json:"scenes"`
}

// PhotoshootService renders the product once per scene/angle pair. Scenes
// are the outer loop, angles the inner one, and every request runs
// sequentially. The first failure aborts the batch; shots generated up to
// that point stay on the run.
type PhotoshootService struct {
	gateway Gateway
	runs    *RunManager
	audit   Auditor
	log     *zap.Logger
}

func NewPhotoshootService(gateway Gateway, runs *RunManager, audit Auditor, log *zap.Logger) *PhotoshootService {
	return &PhotoshootService{gateway: gateway, runs: runs, audit: audit, log: log}
}

func (s *PhotoshootService) RunPhotoshoot(input PhotoshootInput) (string, error) {
	if input.ProductImage == "" {
		return "", missingInput(msgNeedProductImage)
	}
	if len(input.Angles) == 0 || len(input.Scenes) == 0 {
		return "", missingInput(msgNeedAnglesScenes)
	}
	h, ctx := s.runs.Begin(models.RunKindPhotoshoot)
	go s.execute(ctx, h, input)
	return h.ID(), nil
}

func (s *PhotoshootService) execute(ctx context.Context, h *RunHandle, input PhotoshootInput) {
	h.SetStatus(models.RunStatusRunning)

	total := len(input.Scenes) * len(input.Angles)
	done := 0
	for _, scene := range input.Scenes {
		for _, angle := range input.Angles {
			if ctx.Err() != nil {
				h.SetStatus(models.RunStatusCancelled)
				return
			}
			url, err := s.gateway.GenerateImage(ctx, gemini.ImageRequest{
				Prompt:      shotPrompt(angle, scene),
				Size:        "1K",
				AspectRatio: "1:1",
				RefImage:    input.ProductImage,
			})
			if err != nil {
				if ctx.Err() != nil {
					h.SetStatus(models.RunStatusCancelled)
					return
				}
				s.log.Error("shot failed",
					zap.String("run_id", h.ID()),
					zap.String("angle", angle),
					zap.String("scene", scene),
					zap.Error(err),
				)
				h.Fail(gemini.UserMessage(err))
				return
			}
			shot := models.ShootResult{URL: url, Angle: angle, Scene: scene}
			h.Mutate(func(run *models.Run) { run.Shots = append(run.Shots, shot) })
			done++
			h.SetProgress(done * 100 / total)
		}
	}

	h.SetStatus(models.RunStatusSucceeded)
	if err := s.audit.Log(context.Background(), models.AuditLog{
		ActorType:  "api",
		Action:     models.AuditActionPhotoshootRun,
		EntityType: "run",
		EntityID:   strPtr(h.ID()),
		Meta:       map[string]any{"shots": total},
	}); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}

func shotPrompt(angle, scene string) string {
	return fmt.Sprintf("Professional product photography, %s view, setting: %s, high resolution, studio lighting", angle, scene)
}
