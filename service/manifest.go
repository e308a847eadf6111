package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uplift-tools/uplift/domain"
)

// ManifestFileName is the migration state file written into the output dir
const ManifestFileName = ".uplift-manifest.json"

// ManifestEntry records one migrated component
type ManifestEntry struct {
	ComponentID string `json:"component_id"`
	Name        string `json:"name"`
	OutputPath  string `json:"output_path"`
	MigratedAt  string `json:"migrated_at"`
	Score       int    `json:"score"`
}

// Manifest is the persisted migration state, used for resume and rollback
type Manifest struct {
	Version   string          `json:"version"`
	Target    string          `json:"target"`
	Root      string          `json:"root"`
	UpdatedAt string          `json:"updated_at"`
	Entries   []ManifestEntry `json:"entries"`
}

// Contains reports whether a component was already migrated
func (m *Manifest) Contains(componentID string) bool {
	for _, e := range m.Entries {
		if e.ComponentID == componentID {
			return true
		}
	}
	return false
}

// Add records a migrated component, replacing any previous entry
func (m *Manifest) Add(entry ManifestEntry) {
	entry.MigratedAt = time.Now().UTC().Format(time.RFC3339)
	for i, e := range m.Entries {
		if e.ComponentID == entry.ComponentID {
			m.Entries[i] = entry
			return
		}
	}
	m.Entries = append(m.Entries, entry)
}

// ManifestStore persists manifests under an output directory
type ManifestStore struct {
	dir string
}

// NewManifestStore creates a store rooted at the output directory
func NewManifestStore(dir string) *ManifestStore {
	return &ManifestStore{dir: dir}
}

func (s *ManifestStore) path() string {
	return filepath.Join(s.dir, ManifestFileName)
}

// Load reads the manifest, returning an empty one when none exists
func (s *ManifestStore) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, domain.NewFileSystemError("cannot read migration manifest", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, domain.NewConfigurationError("migration manifest is corrupt", err).
			WithRemediation(fmt.Sprintf("delete %s and re-run the migration", s.path()))
	}
	return &m, nil
}

// Save writes the manifest atomically
func (s *ManifestStore) Save(m *Manifest) error {
	m.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return domain.NewGenerationError("cannot encode migration manifest", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return domain.NewFileSystemError("cannot create output directory", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return domain.NewFileSystemError("cannot write migration manifest", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return domain.NewFileSystemError("cannot replace migration manifest", err)
	}
	return nil
}

// Cleanup removes output directories the manifest does not reference.
// Recorded artifacts and the manifest itself are kept.
func (s *ManifestStore) Cleanup(m *Manifest) error {
	keep := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		if e.OutputPath != "" {
			keep[filepath.Clean(e.OutputPath)] = true
		}
	}
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return domain.NewFileSystemError("cannot scan output directory", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if keep[filepath.Clean(path)] {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			return domain.NewFileSystemError(
				fmt.Sprintf("cannot remove orphaned directory %s", path), err)
		}
	}
	return nil
}

// Delete removes the manifest and every artifact it references. Used by
// rollback.
func (s *ManifestStore) Delete() error {
	m, err := s.Load()
	if err != nil {
		return err
	}
	for _, e := range m.Entries {
		if e.OutputPath == "" {
			continue
		}
		if err := os.RemoveAll(e.OutputPath); err != nil {
			return domain.NewFileSystemError(
				fmt.Sprintf("cannot remove migrated artifact %s", e.OutputPath), err)
		}
	}
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return domain.NewFileSystemError("cannot remove migration manifest", err)
	}
	return nil
}
