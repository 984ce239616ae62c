package services

import (
	"context"
	"strings"

	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// VideoInput describes one Veo job: a text prompt, an optional still image
// to animate, or both.
type VideoInput struct {
	Prompt      string `json:"prompt"`
	Image       string `json:"image,omitempty"` // data URI
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// VideoService runs video jobs as tracked runs. The gateway polls the
// upstream operation; once the asset arrives it is written to the media
// store and the run carries its served URL.
type VideoService struct {
	gateway Gateway
	runs    *RunManager
	media   *MediaStore
	audit   Auditor
	log     *zap.Logger
}

func NewVideoService(gateway Gateway, runs *RunManager, media *MediaStore, audit Auditor, log *zap.Logger) *VideoService {
	return &VideoService{gateway: gateway, runs: runs, media: media, audit: audit, log: log}
}

func (s *VideoService) GenerateVideo(input VideoInput) (string, error) {
	if strings.TrimSpace(input.Prompt) == "" && input.Image == "" {
		return "", missingInput(msgNeedVideoPrompt)
	}
	h, ctx := s.runs.Begin(models.RunKindVideo)
	go s.execute(ctx, h, input)
	return h.ID(), nil
}

func (s *VideoService) execute(ctx context.Context, h *RunHandle, input VideoInput) {
	h.SetStatus(models.RunStatusRunning)
	h.SetProgress(10)

	data, mime, err := s.gateway.GenerateVideo(ctx, gemini.VideoRequest{
		Prompt:      input.Prompt,
		Image:       input.Image,
		AspectRatio: input.AspectRatio,
	})
	if err != nil {
		if ctx.Err() != nil {
			h.SetStatus(models.RunStatusCancelled)
			return
		}
		s.log.Error("video generation failed", zap.String("run_id", h.ID()), zap.Error(err))
		h.Fail(gemini.UserMessage(err))
		return
	}

	url, err := s.media.Save(data, mime)
	if err != nil {
		s.log.Error("video store failed", zap.String("run_id", h.ID()), zap.Error(err))
		h.Fail("تعذر حفظ ملف الفيديو.")
		return
	}

	h.Mutate(func(run *models.Run) { run.VideoURL = url })
	h.SetProgress(100)
	h.SetStatus(models.RunStatusSucceeded)
	if err := s.audit.Log(context.Background(), models.AuditLog{
		ActorType:  "api",
		Action:     models.AuditActionVideoGenerated,
		EntityType: "run",
		EntityID:   strPtr(h.ID()),
		Meta:       map[string]any{"mime": mime, "bytes": len(data)},
	}); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}
