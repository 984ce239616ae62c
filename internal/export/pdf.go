package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/omer-studio/backend/internal/models"
)

// CampaignPDFFileName derives the download name from the campaign name.
func CampaignPDFFileName(campaignName string) string {
	name := strings.TrimSpace(campaignName)
	if name == "" {
		name = "campaign"
	}
	return "OMER-Campaign-" + name + ".pdf"
}

// RenderCampaignPDF lays the campaign out on A4 pages, one post per page:
// day header, post title, generated image and the post body flattened to
// plain text.
func RenderCampaignPDF(c *models.CampaignResult) ([]byte, error) {
	if c == nil || len(c.Posts) == 0 {
		return nil, fmt.Errorf("campaign has no posts")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(c.CampaignName, true)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 22)
	pdf.MultiCell(0, 12, c.CampaignName, "", "C", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 14)
	pdf.MultiCell(0, 8, c.Slogan, "", "C", false)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, c.TargetAudience, "", "C", false)

	for i := range c.Posts {
		if err := renderPostPage(pdf, &c.Posts[i], i); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPostPage(pdf *fpdf.Fpdf, post *models.Post, index int) error {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Day %d", post.Day), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 8, post.Title, "", "L", false)
	pdf.Ln(2)

	if post.GeneratedImage != "" {
		if err := placeImage(pdf, post.GeneratedImage, index); err != nil {
			return fmt.Errorf("post day %d image: %w", post.Day, err)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, FlattenHTML(post.Content), "", "L", false)
	return nil
}

func placeImage(pdf *fpdf.Fpdf, dataURI string, index int) error {
	data, err := decodeImage(dataURI)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: imageTypeOf(dataURI)}
	name := fmt.Sprintf("post-%d", index)
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return pdf.Error()
	}
	// 120mm wide, centered on the 210mm page; height follows the aspect.
	pdf.ImageOptions(name, 45, pdf.GetY(), 120, 0, true, opts, 0, "")
	if pdf.Err() {
		return pdf.Error()
	}
	return nil
}

func imageTypeOf(dataURI string) string {
	if strings.HasPrefix(dataURI, "data:image/jpeg") || strings.HasPrefix(dataURI, "data:image/jpg") {
		return "JPG"
	}
	return "PNG"
}
