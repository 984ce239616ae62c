package services

import (
	"time"

	"github.com/omer-studio/backend/internal/export"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// ExportService turns finished results into downloadable artifacts.
type ExportService struct {
	log *zap.Logger
}

func NewExportService(log *zap.Logger) *ExportService {
	return &ExportService{log: log}
}

// BuildZip archives the given images and returns the payload with its
// download name.
func (s *ExportService) BuildZip(items []export.ZipItem) ([]byte, string, error) {
	data, err := export.BuildZip(items)
	if err != nil {
		return nil, "", err
	}
	return data, export.ZipFileName(time.Now()), nil
}

// RenderCampaignPDF renders the campaign and returns the document with its
// download name.
func (s *ExportService) RenderCampaignPDF(campaign *models.CampaignResult) ([]byte, string, error) {
	data, err := export.RenderCampaignPDF(campaign)
	if err != nil {
		return nil, "", err
	}
	return data, export.CampaignPDFFileName(campaign.CampaignName), nil
}
