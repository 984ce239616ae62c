package export

import (
	"bytes"
	"testing"

	"github.com/omer-studio/backend/internal/models"
)

// 1x1 PNG, enough for the image placement path.
const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestRenderCampaignPDF(t *testing.T) {
	campaign := &models.CampaignResult{
		CampaignName:   "Launch Week",
		Slogan:         "Nine days, nine posts",
		TargetAudience: "Small business owners",
		Posts: []models.Post{
			{Day: 1, Title: "Teaser", Content: "<p>Something is coming.</p>", GeneratedImage: tinyPNG},
			{Day: 2, Title: "Reveal", Content: "Plain text body"},
		},
	}

	out, err := RenderCampaignPDF(campaign)
	if err != nil {
		t.Fatalf("RenderCampaignPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestRenderCampaignPDFEmpty(t *testing.T) {
	if _, err := RenderCampaignPDF(nil); err == nil {
		t.Error("nil campaign: expected error")
	}
	if _, err := RenderCampaignPDF(&models.CampaignResult{CampaignName: "x"}); err == nil {
		t.Error("campaign without posts: expected error")
	}
}

func TestCampaignPDFFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"named campaign", "Launch Week", "OMER-Campaign-Launch Week.pdf"},
		{"blank name", "   ", "OMER-Campaign-campaign.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CampaignPDFFileName(tt.in); got != tt.want {
				t.Errorf("CampaignPDFFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
