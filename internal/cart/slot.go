package cart

import (
	"encoding/json"
	"os"
	"path/filepath"

	"lammastore/internal/models"
)

// Slot is the durable slot holding one client's cart between page loads:
// a single JSON blob under a fixed key, no expiry. It is private to one
// session and needs no locking.
type Slot interface {
	Load() ([]models.CartItem, error)
	Save(items []models.CartItem) error
	Clear() error
}

// FileSlot persists the cart as one JSON file.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

func (s *FileSlot) Load() ([]models.CartItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.CartItem{}, nil
		}
		return nil, err
	}

	items := []models.CartItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FileSlot) Save(items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileSlot) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
