// Package uploads хранит документы заявок в каталогах по слотам.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"academic/models"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlot = errors.New("invalid document slot")
	ErrInvalidPath = errors.New("invalid document path")
)

type Store struct {
	root string
}

// NewStore создаёт корень и каталоги всех слотов.
func NewStore(root string) (*Store, error) {
	for _, slot := range models.DocumentSlots {
		if err := os.MkdirAll(filepath.Join(root, string(slot)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", slot, err)
		}
	}
	return &Store{root: root}, nil
}

// Save сохраняет файл под сгенерированным именем и возвращает относительный путь "slot/имя".
// Расширение исходного имени сохраняется.
func (s *Store) Save(slot models.DocumentSlot, filename string, src io.Reader) (string, error) {
	if !slot.Valid() {
		return "", ErrInvalidSlot
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(filename)))
	rel := path.Join(string(slot), name)

	dst, err := os.OpenFile(filepath.Join(s.root, string(slot), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", rel, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", rel, err)
	}
	return rel, nil
}

// Open открывает ранее сохранённый документ по относительному пути.
func (s *Store) Open(rel string) (*os.File, error) {
	clean := path.Clean(rel)
	slot, name, ok := strings.Cut(clean, "/")
	if !ok || !models.DocumentSlot(slot).Valid() || name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
		return nil, ErrInvalidPath
	}
	return os.Open(filepath.Join(s.root, slot, name))
}
