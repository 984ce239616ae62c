package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/omer-studio/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LibraryKey is the single storage key holding the whole saved-item array.
// The library is small and user-mutated only, so the entire list is
// re-serialized on every write.
const LibraryKey = "omer:saved_library"

type LibraryRepo struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewLibraryRepo(rdb *redis.Client, log *zap.Logger) *LibraryRepo {
	return &LibraryRepo{rdb: rdb, log: log}
}

// LoadAll reads the stored array. A missing key is an empty library; a
// corrupt blob degrades to an empty library rather than failing startup.
func (r *LibraryRepo) LoadAll(ctx context.Context) ([]models.SavedItem, error) {
	raw, err := r.rdb.Get(ctx, LibraryKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.decode([]byte(raw)), nil
}

// decode parses the stored array. Invalid syntax means the blob was damaged
// outside this process; the library restarts empty instead of refusing to
// boot.
func (r *LibraryRepo) decode(raw []byte) []models.SavedItem {
	var items []models.SavedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		r.log.Warn("saved library blob is corrupt, starting empty", zap.Error(err))
		return nil
	}
	return items
}

// StoreAll replaces the stored array with the given list.
func (r *LibraryRepo) StoreAll(ctx context.Context, items []models.SavedItem) error {
	if items == nil {
		items = []models.SavedItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, LibraryKey, data, 0).Err()
}
