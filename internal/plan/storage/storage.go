package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage keeps the artifacts of each stored plan in its own directory.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) PlanDir(planID string) string {
	return filepath.Join(s.root, planID)
}

func (s *FileStorage) SourcePath(planID string) string {
	return filepath.Join(s.PlanDir(planID), "source.txt")
}

func (s *FileStorage) ModelPath(planID string) string {
	return filepath.Join(s.PlanDir(planID), "model.json")
}

func (s *FileStorage) SVGPath(planID string) string {
	return filepath.Join(s.PlanDir(planID), "plan.svg")
}

func (s *FileStorage) EnsureDir(planID string) error {
	if err := os.MkdirAll(s.PlanDir(planID), 0o755); err != nil {
		return fmt.Errorf("mkdir plan dir: %w", err)
	}
	return nil
}

// SaveFile writes data to target, creating the plan directory first.
func (s *FileStorage) SaveFile(planID, target string, data []byte) error {
	if err := s.EnsureDir(planID); err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	return nil
}

// Remove deletes every artifact of the plan.
func (s *FileStorage) Remove(planID string) error {
	if planID == "" || filepath.Base(planID) != planID {
		return fmt.Errorf("invalid plan id %q", planID)
	}
	if err := os.RemoveAll(s.PlanDir(planID)); err != nil {
		return fmt.Errorf("remove plan dir: %w", err)
	}
	return nil
}

// Exists reports whether the file at path is present.
func (s *FileStorage) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
