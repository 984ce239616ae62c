package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MediaStore writes generated binary assets under the media directory. Files
// are served back over the static /media route, so Save returns the public
// path, not the filesystem one.
type MediaStore struct {
	dir string
}

func NewMediaStore(dir string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &MediaStore{dir: dir}, nil
}

func (s *MediaStore) Dir() string { return s.dir }

func (s *MediaStore) Save(data []byte, mime string) (string, error) {
	name := uuid.New().String() + extensionFor(mime)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return "/media/" + name, nil
}

func extensionFor(mime string) string {
	switch mime {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}
