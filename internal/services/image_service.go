package services

import (
	"context"
	"strings"

	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// ImageService fronts the synchronous single-image operations. Unlike the
// batch orchestrators these block the caller until the gateway answers.
type ImageService struct {
	gateway Gateway
	audit   Auditor
	log     *zap.Logger
}

func NewImageService(gateway Gateway, audit Auditor, log *zap.Logger) *ImageService {
	return &ImageService{gateway: gateway, audit: audit, log: log}
}

// GenerateInput mirrors the generator form: a prompt plus optional output
// shape controls.
type GenerateInput struct {
	Prompt      string `json:"prompt"`
	Size        string `json:"size,omitempty"`         // 1K / 2K / 4K
	AspectRatio string `json:"aspect_ratio,omitempty"` // 1:1 / 16:9 / 9:16 / 4:3 / 3:4
	RefImage    string `json:"ref_image,omitempty"`    // data URI
}

func (s *ImageService) Generate(ctx context.Context, input GenerateInput) (string, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return "", missingInput(msgNeedImagePrompt)
	}
	image, err := s.gateway.GenerateImage(ctx, gemini.ImageRequest{
		Prompt:      input.Prompt,
		Size:        input.Size,
		AspectRatio: input.AspectRatio,
		RefImage:    input.RefImage,
	})
	if err != nil {
		return "", err
	}
	s.record(ctx, models.AuditActionImageGenerated, map[string]any{"size": input.Size, "aspect_ratio": input.AspectRatio})
	return image, nil
}

// Edit rewrites an existing image under a text instruction. The model may
// answer with text instead of pixels; the tagged result keeps the two apart.
func (s *ImageService) Edit(ctx context.Context, image, prompt string) (gemini.EditResult, error) {
	if image == "" {
		return gemini.EditResult{}, missingInput(msgNeedProductImage)
	}
	if strings.TrimSpace(prompt) == "" {
		return gemini.EditResult{}, missingInput(msgNeedEditPrompt)
	}
	result, err := s.gateway.EditImage(ctx, image, prompt)
	if err != nil {
		return gemini.EditResult{}, err
	}
	s.record(ctx, models.AuditActionImageEdited, map[string]any{"kind": result.Kind})
	return result, nil
}

// Mimic re-renders the product in the mood and palette of a reference
// design.
func (s *ImageService) Mimic(ctx context.Context, productImage, styleImage, prompt string) (string, error) {
	if productImage == "" || styleImage == "" {
		return "", missingInput(msgNeedStyleImages)
	}
	image, err := s.gateway.MimicDesign(ctx, productImage, styleImage, prompt)
	if err != nil {
		return "", err
	}
	s.record(ctx, models.AuditActionDesignMimicked, nil)
	return image, nil
}

func (s *ImageService) record(ctx context.Context, action string, meta map[string]any) {
	if err := s.audit.Log(ctx, models.AuditLog{
		ActorType:  "api",
		Action:     action,
		EntityType: "image",
		Meta:       meta,
	}); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
}
