package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/omer-studio/backend/internal/events"
	"github.com/omer-studio/backend/internal/gemini"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// fakeGateway records calls and delegates to per-method hooks. A nil hook
// returns a canned success.
type fakeGateway struct {
	mu           sync.Mutex
	imageCalls   []gemini.ImageRequest
	planCalls    []gemini.PlanRequest
	chatCalls    int
	onImage      func(req gemini.ImageRequest) (string, error)
	onPlan       func(req gemini.PlanRequest) (*models.CampaignResult, error)
	onVideo      func(req gemini.VideoRequest) ([]byte, string, error)
	onEdit       func(image, prompt string) (gemini.EditResult, error)
	onMimic      func(productImage, styleImage, prompt string) (string, error)
	onChat       func(history []models.ChatMessage, text string, images []string) (gemini.ChatReply, error)
}

func (f *fakeGateway) GenerateImage(_ context.Context, req gemini.ImageRequest) (string, error) {
	f.mu.Lock()
	f.imageCalls = append(f.imageCalls, req)
	f.mu.Unlock()
	if f.onImage != nil {
		return f.onImage(req)
	}
	return "data:image/png;base64,Zg==", nil
}

func (f *fakeGateway) GenerateCampaignPlan(_ context.Context, req gemini.PlanRequest) (*models.CampaignResult, error) {
	f.mu.Lock()
	f.planCalls = append(f.planCalls, req)
	f.mu.Unlock()
	if f.onPlan != nil {
		return f.onPlan(req)
	}
	return testPlan(), nil
}

func (f *fakeGateway) GenerateVideo(_ context.Context, req gemini.VideoRequest) ([]byte, string, error) {
	if f.onVideo != nil {
		return f.onVideo(req)
	}
	return []byte("video-bytes"), "video/mp4", nil
}

func (f *fakeGateway) EditImage(_ context.Context, image, prompt string) (gemini.EditResult, error) {
	if f.onEdit != nil {
		return f.onEdit(image, prompt)
	}
	return gemini.EditResult{Kind: gemini.EditKindImage, Data: "data:image/png;base64,Zg=="}, nil
}

func (f *fakeGateway) MimicDesign(_ context.Context, productImage, styleImage, prompt string) (string, error) {
	if f.onMimic != nil {
		return f.onMimic(productImage, styleImage, prompt)
	}
	return "data:image/png;base64,Zg==", nil
}

func (f *fakeGateway) Chat(_ context.Context, history []models.ChatMessage, text string, images []string) (gemini.ChatReply, error) {
	f.mu.Lock()
	f.chatCalls++
	f.mu.Unlock()
	if f.onChat != nil {
		return f.onChat(history, text, images)
	}
	return gemini.ChatReply{Text: "reply"}, nil
}

func (f *fakeGateway) imageRequests() []gemini.ImageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gemini.ImageRequest, len(f.imageCalls))
	copy(out, f.imageCalls)
	return out
}

func testPlan() *models.CampaignResult {
	plan := &models.CampaignResult{
		CampaignName:   "إطلاق المنتج",
		Slogan:         "تسعة أيام من الإبداع",
		TargetAudience: "أصحاب المشاريع الصغيرة",
	}
	for day := 1; day <= models.CampaignPostCount; day++ {
		plan.Posts = append(plan.Posts, models.Post{
			Day:         day,
			Title:       fmt.Sprintf("اليوم %d", day),
			Content:     fmt.Sprintf("محتوى اليوم %d", day),
			ImagePrompt: fmt.Sprintf("prompt-%d", day),
		})
	}
	return plan
}

// memPublisher collects published events.
type memPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *memPublisher) Publish(_ context.Context, _ string, event events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	return nil
}

func (p *memPublisher) all() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// memLibraryStore is an in-memory LibraryStore.
type memLibraryStore struct {
	mu      sync.Mutex
	items   []models.SavedItem
	loadErr error
	failed  bool
}

func (s *memLibraryStore) LoadAll(context.Context) ([]models.SavedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]models.SavedItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memLibraryStore) StoreAll(_ context.Context, items []models.SavedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return fmt.Errorf("store unavailable")
	}
	s.items = make([]models.SavedItem, len(items))
	copy(s.items, items)
	return nil
}

func newTestRunManager() *RunManager {
	return NewRunManager(nil, time.Minute, zap.NewNop())
}

// waitRun polls until the run reaches a terminal status.
func waitRun(t *testing.T, runs *RunManager, id string) models.Run {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		run, ok := runs.Get(id)
		if !ok {
			t.Fatalf("run %s disappeared", id)
		}
		if models.IsTerminalRunStatus(run.Status) {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s never finished", id)
	return models.Run{}
}
