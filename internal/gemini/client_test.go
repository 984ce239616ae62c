package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/omer-studio/backend/internal/models"
)

func TestSplitDataURI(t *testing.T) {
	tests := []struct {
		input    string
		wantMime string
		wantData string
	}{
		{"data:image/png;base64,AAAA", "image/png", "AAAA"},
		{"data:image/jpeg;base64,QkJC", "image/jpeg", "QkJC"},
		{"bareBase64", "image/png", "bareBase64"},
		{"data:;base64,AAAA", "image/png", "AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mime, data := splitDataURI(tt.input)
			if mime != tt.wantMime || data != tt.wantData {
				t.Errorf("splitDataURI(%q) = (%q, %q), want (%q, %q)", tt.input, mime, data, tt.wantMime, tt.wantData)
			}
		})
	}
}

func TestCleanJSONString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := cleanJSONString(tt.input); got != tt.expected {
				t.Errorf("cleanJSONString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsQuotaOrAuth(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected bool
	}{
		{"429", http.StatusTooManyRequests, "", true},
		{"401", http.StatusUnauthorized, "", true},
		{"403", http.StatusForbidden, "", true},
		{"resource exhausted", http.StatusBadRequest, `{"error":{"status":"RESOURCE_EXHAUSTED"}}`, true},
		{"quota wording", http.StatusBadRequest, "quota exceeded for project", true},
		{"entity not found", http.StatusNotFound, "Requested entity was not found", true},
		{"invalid key", http.StatusBadRequest, "API key not valid. Please pass a valid API key.", true},
		{"plain 500", http.StatusInternalServerError, "internal error", false},
		{"plain 400", http.StatusBadRequest, "invalid argument", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuotaOrAuth(tt.status, tt.body); got != tt.expected {
				t.Errorf("isQuotaOrAuth(%d, %q) = %v, want %v", tt.status, tt.body, got, tt.expected)
			}
		})
	}
}

func contentResponse(parts ...part) generateContentResponse {
	return generateContentResponse{
		Candidates: []candidate{{Content: content{Role: "model", Parts: parts}}},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, keys ...string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if len(keys) == 0 {
		keys = []string{"test-key"}
	}
	return New(Options{
		APIKeys:    keys,
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	}), srv
}

func TestGenerateImageReturnsFirstInlinePart(t *testing.T) {
	var gotPath, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewEncoder(w).Encode(contentResponse(
			part{Text: "here you go"},
			part{InlineData: &blob{Data: "QUJD", MimeType: "image/png"}},
			part{InlineData: &blob{Data: "ignored", MimeType: "image/png"}},
		))
	})

	uri, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "a cat"})
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if uri != "data:image/png;base64,QUJD" {
		t.Errorf("GenerateImage() = %q", uri)
	}
	if !strings.Contains(gotPath, defaultImageModel+":generateContent") {
		t.Errorf("request path = %q, want image model generateContent", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
}

func TestGenerateImageNoImageReturned(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(contentResponse(part{Text: "sorry, text only"}))
	})

	_, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "a cat"})
	if err == nil {
		t.Fatal("GenerateImage() expected error")
	}
	if KindOf(err) != KindNoImageReturned {
		t.Errorf("KindOf(err) = %q, want %q", KindOf(err), KindNoImageReturned)
	}
}

func planJSON() string {
	posts := make([]map[string]any, models.CampaignPostCount)
	for i := range posts {
		posts[i] = map[string]any{
			"day":          i + 1,
			"title":        fmt.Sprintf("يوم %d", i+1),
			"content":      "محتوى المنشور",
			"image_prompt": "studio product shot",
		}
	}
	body, _ := json.Marshal(map[string]any{
		"campaign_name":   "حملة الشتاء",
		"slogan":          "دفء يليق بك",
		"target_audience": "الشباب",
		"posts":           posts,
	})
	return string(body)
}

func TestGenerateCampaignPlanParsesFencedJSON(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(contentResponse(part{Text: "```json\n" + planJSON() + "\n```"}))
	})

	plan, err := client.GenerateCampaignPlan(context.Background(), PlanRequest{
		ProductImages: []string{"data:image/png;base64,AAAA"},
		Market:        "السعودية",
		Dialect:       "فصحى",
		Reason:        "إطلاق منتج جديد",
	})
	if err != nil {
		t.Fatalf("GenerateCampaignPlan() error = %v", err)
	}
	if plan.CampaignName != "حملة الشتاء" {
		t.Errorf("CampaignName = %q", plan.CampaignName)
	}
	if len(plan.Posts) != models.CampaignPostCount {
		t.Fatalf("len(Posts) = %d", len(plan.Posts))
	}
	for i, p := range plan.Posts {
		if p.Day != i+1 {
			t.Errorf("posts[%d].Day = %d, want %d", i, p.Day, i+1)
		}
	}
}

func TestGenerateCampaignPlanFailureKinds(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		wantKind ErrorKind
	}{
		{"empty body", "", KindEmptyResponse},
		{"not json", "I cannot do that", KindMalformedResponse},
		{"wrong post count", `{"campaign_name":"x","slogan":"y","target_audience":"z","posts":[{"day":1,"title":"a","content":"b","image_prompt":"c"}]}`, KindMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(contentResponse(part{Text: tt.reply}))
			})
			_, err := client.GenerateCampaignPlan(context.Background(), PlanRequest{
				ProductImages: []string{"data:image/png;base64,AAAA"},
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != tt.wantKind {
				t.Errorf("KindOf(err) = %q, want %q", KindOf(err), tt.wantKind)
			}
		})
	}
}

func TestQuotaErrorRotatesKey(t *testing.T) {
	var keys []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("x-goog-api-key"))
		if len(keys) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"status":"RESOURCE_EXHAUSTED","message":"quota"}}`)
			return
		}
		json.NewEncoder(w).Encode(contentResponse(part{InlineData: &blob{Data: "QUJD", MimeType: "image/png"}}))
	}, "key-a", "key-b")

	_, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("first call should fail")
	}
	if KindOf(err) != KindQuotaOrAuth {
		t.Fatalf("KindOf(err) = %q, want %q", KindOf(err), KindQuotaOrAuth)
	}
	if UserMessage(err) != msgQuotaOrAuth {
		t.Errorf("UserMessage(err) = %q, want localized quota message", UserMessage(err))
	}

	if _, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "x"}); err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "key-a" || keys[1] != "key-b" {
		t.Errorf("keys used = %v, want rotation from key-a to key-b", keys)
	}
}

func TestEditImageTaggedResult(t *testing.T) {
	tests := []struct {
		name     string
		parts    []part
		wantKind string
		wantData string
	}{
		{
			"image reply",
			[]part{{InlineData: &blob{Data: "QUJD", MimeType: "image/png"}}},
			EditKindImage,
			"data:image/png;base64,QUJD",
		},
		{
			"text reply",
			[]part{{Text: "لا يمكن تعديل هذه الصورة"}},
			EditKindText,
			"لا يمكن تعديل هذه الصورة",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(contentResponse(tt.parts...))
			})
			res, err := client.EditImage(context.Background(), "data:image/png;base64,AAAA", "make it blue")
			if err != nil {
				t.Fatalf("EditImage() error = %v", err)
			}
			if res.Kind != tt.wantKind || res.Data != tt.wantData {
				t.Errorf("EditImage() = %+v, want kind %q data %q", res, tt.wantKind, tt.wantData)
			}
		})
	}
}

func TestChatReplaysHistory(t *testing.T) {
	var got generateContentRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(contentResponse(part{Text: "أهلاً"}))
	})

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Text: "مرحبا"},
		{Role: models.ChatRoleModel, Text: "أهلاً بك"},
	}
	reply, err := client.Chat(context.Background(), history, "ساعدني", nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Text != "أهلاً" {
		t.Errorf("reply.Text = %q", reply.Text)
	}
	if len(got.Contents) != 3 {
		t.Fatalf("len(Contents) = %d, want history plus current turn", len(got.Contents))
	}
	if got.Contents[0].Role != models.ChatRoleUser || got.Contents[1].Role != models.ChatRoleModel {
		t.Errorf("history roles not preserved: %q, %q", got.Contents[0].Role, got.Contents[1].Role)
	}
	if got.SystemInstruction == nil {
		t.Error("system instruction missing")
	}
}
