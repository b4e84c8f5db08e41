// Package memory provides the in-memory ProjectStore used in tests and as
// the hydration target for the durable adapters.
package memory

import (
	"context"
	"sort"
	"sync"

	"coolingcore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.ProjectStore = (*Store)(nil)

// Store keeps project records in process memory, keyed owner then name.
// Records are copied on the way in and out so callers can never alias the
// stored state.
type Store struct {
	mu       sync.RWMutex
	projects map[string]map[string]domain.ProjectRecord
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{projects: make(map[string]map[string]domain.ProjectRecord)}
}

// Put implements domain.ProjectStore as a plain upsert.
func (s *Store) Put(_ context.Context, record domain.ProjectRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName, ok := s.projects[record.Owner]
	if !ok {
		byName = make(map[string]domain.ProjectRecord)
		s.projects[record.Owner] = byName
	}
	byName[record.Name] = record.Clone()
	return nil
}

// Get implements domain.ProjectStore.
func (s *Store) Get(_ context.Context, owner, name string) (domain.ProjectRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.projects[owner][name]
	if !ok {
		return domain.ProjectRecord{}, false, nil
	}
	return record.Clone(), true, nil
}

// List implements domain.ProjectStore, ordered by project name.
func (s *Store) List(_ context.Context, owner string) ([]domain.ProjectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byName := s.projects[owner]
	out := make([]domain.ProjectRecord, 0, len(byName))
	for _, record := range byName {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete implements domain.ProjectStore; reports whether the key existed.
func (s *Store) Delete(_ context.Context, owner, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName := s.projects[owner]
	if _, ok := byName[name]; !ok {
		return false, nil
	}
	delete(byName, name)
	if len(byName) == 0 {
		delete(s.projects, owner)
	}
	return true, nil
}

// Snapshot is a point-in-time copy of every stored record.
type Snapshot struct {
	Projects []domain.ProjectRecord `json:"projects"`
}

// ExportState captures the full store state for durable snapshotting.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var snap Snapshot
	for _, byName := range s.projects {
		for _, record := range byName {
			snap.Projects = append(snap.Projects, record.Clone())
		}
	}
	sort.Slice(snap.Projects, func(i, j int) bool {
		if snap.Projects[i].Owner != snap.Projects[j].Owner {
			return snap.Projects[i].Owner < snap.Projects[j].Owner
		}
		return snap.Projects[i].Name < snap.Projects[j].Name
	})
	return snap
}

// ImportState replaces the store state with the snapshot contents.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]map[string]domain.ProjectRecord, len(snap.Projects))
	for _, record := range snap.Projects {
		byName, ok := s.projects[record.Owner]
		if !ok {
			byName = make(map[string]domain.ProjectRecord)
			s.projects[record.Owner] = byName
		}
		byName[record.Name] = record.Clone()
	}
}
