package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// Default models, overridable through Options.
const (
	defaultImageModel = "gemini-3-pro-image-preview"
	defaultTextModel  = "gemini-3-pro-preview"
	defaultEditModel  = "gemini-2.5-flash-image"
	defaultVideoModel = "veo-3.1-fast-generate-preview"
)

const chatSystemInstruction = "أنت مساعد تصميم وتسويق ذكي محترف. تجيب بالعربية وتساعد في تحليل الصور."

const planSystemPrompt = `أنت خبير تسويق استراتيجي. حلل صور المنتج المرفقة وأنشئ حملة تسويقية لـ 9 أيام.
السوق: %s، اللهجة: %s، المناسبة: %s.
يجب أن يكون 'image_prompt' وصفاً فنياً دقيقاً بالإنجليزية لإنشاء صورة إعلانية مذهلة تحتوي على المنتج.`

type Options struct {
	// APIKeys is the credential ring. The client advances to the next key
	// after a quota/auth failure, the server-side analog of the original
	// key re-selection flow.
	APIKeys    []string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client

	ImageModel string
	TextModel  string
	EditModel  string
	VideoModel string

	// Video job polling (see video.go).
	PollInterval time.Duration
	PollTimeout  time.Duration

	Log *zap.Logger
}

type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	log        *zap.Logger

	imageModel string
	textModel  string
	editModel  string
	videoModel string

	pollInterval time.Duration
	pollTimeout  time.Duration

	mu     sync.Mutex
	keys   []string
	keyIdx int
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = "v1beta"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		baseURL:      baseURL,
		apiVersion:   apiVersion,
		httpClient:   httpClient,
		log:          log,
		imageModel:   opts.ImageModel,
		textModel:    opts.TextModel,
		editModel:    opts.EditModel,
		videoModel:   opts.VideoModel,
		pollInterval: opts.PollInterval,
		pollTimeout:  opts.PollTimeout,
		keys:         opts.APIKeys,
	}
	if c.imageModel == "" {
		c.imageModel = defaultImageModel
	}
	if c.textModel == "" {
		c.textModel = defaultTextModel
	}
	if c.editModel == "" {
		c.editModel = defaultEditModel
	}
	if c.videoModel == "" {
		c.videoModel = defaultVideoModel
	}
	if c.pollInterval <= 0 {
		c.pollInterval = 10 * time.Second
	}
	if c.pollTimeout <= 0 {
		c.pollTimeout = 10 * time.Minute
	}
	return c
}

func (c *Client) currentKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.keys) == 0 {
		return ""
	}
	return c.keys[c.keyIdx%len(c.keys)]
}

// rotateKey advances the credential ring after a quota/auth failure.
func (c *Client) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.keys) < 2 {
		return
	}
	c.keyIdx = (c.keyIdx + 1) % len(c.keys)
	c.log.Warn("rotated gemini api key", zap.Int("key_index", c.keyIdx))
}

type ImageRequest struct {
	Prompt      string
	Size        string // 1K / 2K / 4K
	AspectRatio string
	RefImage    string // optional data URI used as style reference
}

// GenerateImage returns the first inline-image part of the response as a
// data URI.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	var parts []part
	if req.Prompt != "" {
		parts = append(parts, part{Text: req.Prompt})
	}
	if req.RefImage != "" {
		mime, data := splitDataURI(req.RefImage)
		parts = append(parts, part{InlineData: &blob{Data: data, MimeType: mime}})
	}

	size := req.Size
	if size == "" {
		size = "1K"
	}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "1:1"
	}

	resp, err := c.generateContent(ctx, c.imageModel, generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: aspect, ImageSize: size},
		},
	})
	if err != nil {
		return "", err
	}

	_, images := extractParts(resp)
	if len(images) == 0 {
		return "", newError(KindNoImageReturned, msgNoImage, nil)
	}
	return images[0], nil
}

type PlanRequest struct {
	ProductImages []string // data URIs
	Market        string
	Dialect       string
	Reason        string
}

// GenerateCampaignPlan runs a schema-constrained generation and parses the
// reply into a CampaignResult. Markdown code fences around the JSON body are
// stripped before parsing.
func (c *Client) GenerateCampaignPlan(ctx context.Context, req PlanRequest) (*models.CampaignResult, error) {
	parts := make([]part, 0, len(req.ProductImages)+1)
	for _, img := range req.ProductImages {
		mime, data := splitDataURI(img)
		parts = append(parts, part{InlineData: &blob{Data: data, MimeType: mime}})
	}
	parts = append(parts, part{Text: fmt.Sprintf(planSystemPrompt, req.Market, req.Dialect, req.Reason)})

	resp, err := c.generateContent(ctx, c.textModel, generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   campaignPlanSchema(),
		},
	})
	if err != nil {
		return nil, err
	}

	text, _ := extractParts(resp)
	text = cleanJSONString(text)
	if text == "" {
		return nil, newError(KindEmptyResponse, msgEmpty, nil)
	}

	var plan models.CampaignResult
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, newError(KindMalformedResponse, msgMalformed, err)
	}
	if err := plan.ValidatePosts(); err != nil {
		return nil, newError(KindMalformedResponse, msgMalformed, err)
	}
	plan.SortPostsByDay()
	return &plan, nil
}

func campaignPlanSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]*schema{
			"campaign_name":   {Type: "STRING"},
			"slogan":          {Type: "STRING"},
			"target_audience": {Type: "STRING"},
			"posts": {
				Type: "ARRAY",
				Items: &schema{
					Type: "OBJECT",
					Properties: map[string]*schema{
						"day":          {Type: "INTEGER"},
						"title":        {Type: "STRING"},
						"content":      {Type: "STRING"},
						"image_prompt": {Type: "STRING"},
					},
					Required: []string{"day", "title", "content", "image_prompt"},
				},
			},
		},
		Required: []string{"campaign_name", "slogan", "target_audience", "posts"},
	}
}

// EditResult is the tagged outcome of a single-turn edit: the model either
// returns an edited image or explains itself in text.
type EditResult struct {
	Kind string `json:"kind"` // image / text
	Data string `json:"data"` // data URI or raw text
}

const (
	EditKindImage = "image"
	EditKindText  = "text"
)

func (c *Client) EditImage(ctx context.Context, image, prompt string) (EditResult, error) {
	mime, data := splitDataURI(image)
	resp, err := c.generateContent(ctx, c.editModel, generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &blob{Data: data, MimeType: mime}},
				{Text: prompt},
			},
		}},
	})
	if err != nil {
		return EditResult{}, err
	}

	text, images := extractParts(resp)
	if len(images) > 0 {
		return EditResult{Kind: EditKindImage, Data: images[0]}, nil
	}
	return EditResult{Kind: EditKindText, Data: text}, nil
}

// MimicDesign re-renders the product image in the mood, palette and lighting
// of the style image.
func (c *Client) MimicDesign(ctx context.Context, productImage, styleImage, prompt string) (string, error) {
	prodMime, prodData := splitDataURI(productImage)
	styleMime, styleData := splitDataURI(styleImage)

	resp, err := c.generateContent(ctx, c.imageModel, generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &blob{Data: prodData, MimeType: prodMime}},
				{InlineData: &blob{Data: styleData, MimeType: styleMime}},
				{Text: "إعادة تصميم المنتج الأول بروح وألوان وإضاءة الصورة الثانية. " + prompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: "1:1", ImageSize: "1K"},
		},
	})
	if err != nil {
		return "", err
	}

	_, images := extractParts(resp)
	if len(images) == 0 {
		return "", newError(KindNoImageReturned, msgNoImage, nil)
	}
	return images[0], nil
}

type ChatReply struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// Chat runs one multi-turn exchange. The caller owns the history; the
// gateway replays it in full on every call, so the session state never
// leaves this process.
func (c *Client) Chat(ctx context.Context, history []models.ChatMessage, text string, images []string) (ChatReply, error) {
	contents := make([]content, 0, len(history)+1)
	for _, msg := range history {
		parts := []part{{Text: msg.Text}}
		for _, img := range msg.Images {
			mime, data := splitDataURI(img)
			parts = append(parts, part{InlineData: &blob{Data: data, MimeType: mime}})
		}
		contents = append(contents, content{Role: msg.Role, Parts: parts})
	}

	parts := []part{{Text: text}}
	for _, img := range images {
		mime, data := splitDataURI(img)
		parts = append(parts, part{InlineData: &blob{Data: data, MimeType: mime}})
	}
	contents = append(contents, content{Role: models.ChatRoleUser, Parts: parts})

	resp, err := c.generateContent(ctx, c.textModel, generateContentRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: chatSystemInstruction}}},
	})
	if err != nil {
		return ChatReply{}, err
	}

	replyText, replyImages := extractParts(resp)
	if replyText == "" && len(replyImages) == 0 {
		return ChatReply{}, newError(KindEmptyResponse, msgEmpty, nil)
	}
	return ChatReply{Text: replyText, Images: replyImages}, nil
}

// generateContent does one POST to the generateContent endpoint and funnels
// every failure through the error classifier.
func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (generateContentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return generateContentResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	rawBody, statusCode, err := c.post(ctx, url, body)
	if err != nil {
		return generateContentResponse{}, err
	}
	if statusCode != http.StatusOK {
		return generateContentResponse{}, c.classifyHTTP(statusCode, rawBody)
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return generateContentResponse{}, newError(KindMalformedResponse, msgMalformed, err)
	}
	return decoded, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.currentKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return rawBody, resp.StatusCode, nil
}

// classifyHTTP turns a non-200 API reply into a typed error. Quota and
// credential failures rotate the key ring before surfacing.
func (c *Client) classifyHTTP(statusCode int, body []byte) error {
	message := strings.TrimSpace(string(body))
	var decoded apiError
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
		message = decoded.Error.Message
	}

	if isQuotaOrAuth(statusCode, string(body)) {
		c.rotateKey()
		return newError(KindQuotaOrAuth, msgQuotaOrAuth, fmt.Errorf("gemini API %d: %s", statusCode, message))
	}
	return fmt.Errorf("gemini API %d: %s", statusCode, message)
}

func extractParts(resp generateContentResponse) (string, []string) {
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var textBuilder strings.Builder
	var images []string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			textBuilder.WriteString(p.Text)
		}
		if p.InlineData != nil && p.InlineData.Data != "" {
			images = append(images, fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data))
		}
	}
	return textBuilder.String(), images
}

// cleanJSONString strips markdown code fences the model sometimes wraps its
// JSON body in.
func cleanJSONString(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// splitDataURI splits "data:<mime>;base64,<data>" into its parts. A bare
// base64 string passes through with the png fallback mime.
func splitDataURI(uri string) (mime, data string) {
	mime = "image/png"
	data = uri
	if idx := strings.IndexByte(uri, ','); idx >= 0 {
		header := uri[:idx]
		data = uri[idx+1:]
		if strings.HasPrefix(header, "data:") {
			if semi := strings.IndexByte(header, ';'); semi > 5 {
				mime = header[5:semi]
			}
		}
	}
	return mime, data
}
