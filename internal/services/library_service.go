package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

// LibraryStore is the persistence slice the library needs; *repositories.LibraryRepo
// satisfies it.
type LibraryStore interface {
	LoadAll(ctx context.Context) ([]models.SavedItem, error)
	StoreAll(ctx context.Context, items []models.SavedItem) error
}

// LibraryService keeps the user's saved campaigns and photoshoots. The whole
// list lives in memory behind a mutex and is written back in full on every
// mutation; newest items come first.
type LibraryService struct {
	store LibraryStore
	audit Auditor
	log   *zap.Logger

	mu     sync.Mutex
	items  []models.SavedItem
	lastID int64
}

// NewLibraryService loads the persisted list once. A store read failure
// starts the library empty rather than blocking startup.
func NewLibraryService(ctx context.Context, store LibraryStore, audit Auditor, log *zap.Logger) *LibraryService {
	s := &LibraryService{store: store, audit: audit, log: log}
	items, err := store.LoadAll(ctx)
	if err != nil {
		log.Warn("library load failed, starting empty", zap.Error(err))
		items = nil
	}
	s.items = items
	for _, item := range items {
		if id, err := strconv.ParseInt(item.ID, 10, 64); err == nil && id > s.lastID {
			s.lastID = id
		}
	}
	return s
}

// nextID returns a millisecond timestamp, bumped past the previous id when
// two saves land in the same millisecond. Callers hold s.mu.
func (s *LibraryService) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// Save snapshots a result under the given name. An empty name falls back to
// a type-derived default; the preview is pulled out of the payload by
// convention.
func (s *LibraryService) Save(ctx context.Context, typ, name string, payload json.RawMessage) (*models.SavedItem, error) {
	now := time.Now()

	data := make(json.RawMessage, len(payload))
	copy(data, payload)

	item := models.SavedItem{
		Type:         typ,
		Name:         strings.TrimSpace(name),
		Date:         now.Format("2006-01-02 15:04"),
		Data:         data,
		PreviewImage: previewFromPayload(typ, payload),
	}
	if item.Name == "" {
		item.Name = defaultItemName(typ, payload, now)
	}

	s.mu.Lock()
	item.ID = s.nextID()
	next := make([]models.SavedItem, 0, len(s.items)+1)
	next = append(next, item)
	next = append(next, s.items...)
	if err := s.store.StoreAll(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.items = next
	s.mu.Unlock()

	if err := s.audit.Log(ctx, models.AuditLog{
		ActorType:  "api",
		Action:     models.AuditActionLibraryItemSaved,
		EntityType: "library_item",
		EntityID:   strPtr(item.ID),
		Meta:       map[string]any{"type": typ, "name": item.Name},
	}); err != nil {
		s.log.Warn("audit log failed", zap.Error(err))
	}
	return &item, nil
}

// List returns the current items, newest first.
func (s *LibraryService) List(context.Context) []models.SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SavedItem, len(s.items))
	copy(out, s.items)
	return out
}

// Load returns one item by id.
func (s *LibraryService) Load(_ context.Context, id string) (*models.SavedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

// Delete removes one item and persists the shortened list.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			next := make([]models.SavedItem, 0, len(s.items)-1)
			next = append(next, s.items[:i]...)
			next = append(next, s.items[i+1:]...)
			if err := s.store.StoreAll(ctx, next); err != nil {
				return err
			}
			s.items = next
			return nil
		}
	}
	return ErrItemNotFound
}

// previewFromPayload picks the thumbnail by convention: a campaign shows its
// first post image, a photoshoot its first shot.
func previewFromPayload(typ string, payload json.RawMessage) string {
	switch typ {
	case models.SavedTypeCampaign:
		var campaign models.CampaignResult
		if err := json.Unmarshal(payload, &campaign); err == nil {
			return campaign.FirstImage()
		}
	case models.SavedTypePhotoshoot:
		var shots []models.ShootResult
		if err := json.Unmarshal(payload, &shots); err == nil && len(shots) > 0 {
			return shots[0].URL
		}
	}
	return ""
}

func defaultItemName(typ string, payload json.RawMessage, now time.Time) string {
	if typ == models.SavedTypeCampaign {
		var campaign models.CampaignResult
		if err := json.Unmarshal(payload, &campaign); err == nil && campaign.CampaignName != "" {
			return campaign.CampaignName
		}
		return "حملة بدون اسم"
	}
	return "جلسة تصوير " + now.Format("2006-01-02")
}
