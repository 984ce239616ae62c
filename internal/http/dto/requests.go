package dto

import "encoding/json"

type GenerateImageRequest struct {
	Prompt      string `json:"prompt"`
	Size        string `json:"size,omitempty"`         // 1K / 2K / 4K
	AspectRatio string `json:"aspect_ratio,omitempty"` // 1:1 / 16:9 / 9:16 / 4:3 / 3:4
	RefImage    string `json:"ref_image,omitempty"`    // data URI
}

type EditImageRequest struct {
	Image  string `json:"image"` // data URI
	Prompt string `json:"prompt"`
}

type MimicDesignRequest struct {
	ProductImage string `json:"product_image"` // data URI
	StyleImage   string `json:"style_image"`   // data URI
	Prompt       string `json:"prompt,omitempty"`
}

type GenerateVideoRequest struct {
	Prompt      string `json:"prompt"`
	Image       string `json:"image,omitempty"` // data URI to animate
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type GenerateCampaignRequest struct {
	ProductImages []string `json:"product_images"` // data URIs
	Market        string   `json:"market"`
	Dialect       string   `json:"dialect"`
	Reason        string   `json:"reason"`
}

type UpdatePostRequest struct {
	Content string `json:"content"`
}

type GeneratePhotoshootRequest struct {
	ProductImage string   `json:"product_image"` // data URI
	Angles       []string `json:"angles"`
	Scenes       []string `json:"scenes"`
}

type ChatMessageRequest struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"` // data URIs
}

type SaveItemRequest struct {
	Type string          `json:"type"` // campaign / photoshoot
	Name string          `json:"name,omitempty"`
	Data json.RawMessage `json:"data"`
}

type ExportZipRequest struct {
	Images []ZipImage `json:"images"`
}

type ZipImage struct {
	Name string `json:"name"`
	Data string `json:"data"` // data URI or bare base64
}

type ExportPDFRequest struct {
	Campaign json.RawMessage `json:"campaign"`
}
