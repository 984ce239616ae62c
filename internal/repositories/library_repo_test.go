package repositories

import (
	"encoding/json"
	"testing"

	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLibraryDecodeCorruptBlob(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"truncated json", `[{"id":"1","type":"campaign"`},
		{"wrong shape", `{"id":"1"}`},
		{"garbage", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			repo := &LibraryRepo{log: zap.New(core)}

			items := repo.decode([]byte(tt.raw))
			if len(items) != 0 {
				t.Errorf("corrupt blob decoded to %d items, want 0", len(items))
			}
			if logs.FilterMessage("saved library blob is corrupt, starting empty").Len() != 1 {
				t.Error("degradation was not logged at warn")
			}
		})
	}
}

func TestLibraryDecodeValidBlob(t *testing.T) {
	stored := []models.SavedItem{
		{ID: "1700000000000", Type: models.SavedTypeCampaign, Name: "حملتي", Data: json.RawMessage(`{"posts":[]}`)},
		{ID: "1699999999999", Type: models.SavedTypePhotoshoot, Name: "جلسة", Data: json.RawMessage(`[]`)},
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zap.WarnLevel)
	repo := &LibraryRepo{log: zap.New(core)}

	items := repo.decode(raw)
	if len(items) != 2 {
		t.Fatalf("decoded %d items, want 2", len(items))
	}
	if items[0].ID != "1700000000000" || items[1].Type != models.SavedTypePhotoshoot {
		t.Errorf("decoded items do not round-trip: %+v", items)
	}
	if logs.Len() != 0 {
		t.Errorf("valid blob produced %d warnings", logs.Len())
	}
}
