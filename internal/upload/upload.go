package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
}

const maxFileSize = 10 << 20 // 10 MiB decoded

type Request struct {
	Filename string `json:"filename" binding:"required"`
	Data     string `json:"data" binding:"required"`
}

type Response struct {
	URL string `json:"url"`
}

type Service struct {
	dir string
}

func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Service{dir: dir}, nil
}

// Save decodes a base64 data URL and writes it under the upload dir.
// The stored name is always freshly generated; the client-supplied
// filename only contributes its extension, so traversal in the name
// cannot escape the directory.
func (s *Service) Save(filename, data string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !allowedExtensions[ext] {
		return "", api.Validation("Unsupported file type")
	}

	raw, err := decodeDataURL(data)
	if err != nil {
		return "", api.Validation("Invalid file data")
	}
	if len(raw) > maxFileSize {
		return "", api.Validation("File too large")
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", api.Internal("Failed to store file", err)
	}

	return "/uploads/" + name, nil
}

func decodeDataURL(data string) ([]byte, error) {
	// Accept both a bare base64 payload and a data URL prefix.
	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx < 0 {
			return nil, errors.New("malformed data url")
		}
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
