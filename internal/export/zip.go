package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// ZipItem is one image destined for the archive. Data is a data URI or bare
// base64 payload.
type ZipItem struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// ZipFileName derives the download name for an archive built now.
func ZipFileName(now time.Time) string {
	return fmt.Sprintf("omer-design-%d.zip", now.UnixMilli())
}

// BuildZip decodes every item into binary and returns the finished archive.
// Duplicate names get a numeric suffix so no entry silently overwrites
// another.
func BuildZip(items []ZipItem) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no images to archive")
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	seen := make(map[string]int)

	for i, item := range items {
		data, err := decodeImage(item.Data)
		if err != nil {
			return nil, fmt.Errorf("decode item %d: %w", i, err)
		}
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("image-%d.png", i+1)
		}
		// Track by the name actually written, so a suffixed name cannot in
		// turn collide with an entry that carried that name literally.
		for seen[name] > 0 {
			seen[name]++
			name = fmt.Sprintf("%d-%s", seen[name], name)
		}
		seen[name]++

		f, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create entry %q: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("write entry %q: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeImage strips an optional data-URI prefix and base64-decodes the
// payload.
func decodeImage(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
