package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tatianab/text-rpg/internal/models"
)

// FileStore keeps each session in its own directory as one YAML file per
// part. world.yaml marks a complete save.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func partFile(part string) string {
	return part + ".yaml"
}

func (f *FileStore) Save(s *models.Session) error {
	dir := filepath.Join(f.dir, s.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	parts, err := s.EncodeParts()
	if err != nil {
		return err
	}

	// The world goes last so a half-written save is not listed.
	for _, name := range models.Parts {
		if err := os.WriteFile(filepath.Join(dir, partFile(name)), parts[name], 0644); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}

func (f *FileStore) Load(id string) (*models.Session, error) {
	dir := filepath.Join(f.dir, id)
	parts := make(map[string][]byte, len(models.Parts))
	for _, name := range models.Parts {
		data, err := os.ReadFile(filepath.Join(dir, partFile(name)))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		parts[name] = data
	}
	return models.DecodeParts(id, parts)
}

func (f *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	sessions := []string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		worldPath := filepath.Join(f.dir, entry.Name(), partFile(models.PartWorld))
		if _, err := os.Stat(worldPath); err == nil {
			sessions = append(sessions, entry.Name())
		}
	}
	sort.Strings(sessions)
	return sessions, nil
}

func (f *FileStore) Close() error { return nil }
