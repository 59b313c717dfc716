package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

// MemoryStore keeps all aggregates in process memory. It is the default
// backend and the one the engine tests run against. Every read hands out a
// deep clone and every write stores one, so no two callers ever share live
// aggregate state. Audit events are held in a separate append-only slice per
// project; reads stitch a copy back onto the aggregate.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*project.Project
	audit    map[uuid.UUID][]*project.AuditEvent

	// deliverable id -> owning project id
	deliverableIndex map[uuid.UUID]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects:         make(map[uuid.UUID]*project.Project),
		audit:            make(map[uuid.UUID][]*project.AuditEvent),
		deliverableIndex: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *MemoryStore) CreateProject(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := p.Clone()
	// Any events riding on a fresh aggregate seed the append-only log.
	s.audit[p.ID] = append(s.audit[p.ID], stored.AuditLog...)
	stored.AuditLog = nil
	s.projects[p.ID] = stored
	for _, d := range p.Deliverables {
		s.deliverableIndex[d.ID] = p.ID
	}
	return nil
}

func (s *MemoryStore) GetProject(_ context.Context, id uuid.UUID) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked(id), nil
}

func (s *MemoryStore) ListProjects(_ context.Context) ([]*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*project.Project, 0, len(s.projects))
	for id := range s.projects {
		out = append(out, s.cloneLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now()
	stored := p.Clone()
	stored.AuditLog = nil
	s.projects[p.ID] = stored
	for _, d := range p.Deliverables {
		s.deliverableIndex[d.ID] = p.ID
	}
	return nil
}

func (s *MemoryStore) FindProjectByDeliverable(_ context.Context, deliverableID uuid.UUID) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.deliverableIndex[deliverableID]
	if !ok {
		return nil, nil
	}
	return s.cloneLocked(pid), nil
}

func (s *MemoryStore) AppendAuditEvent(_ context.Context, e *project.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit[e.ProjectID] = append(s.audit[e.ProjectID], e)
	return nil
}

func (s *MemoryStore) GetAuditEvents(_ context.Context, projectID uuid.UUID) ([]*project.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.audit[projectID]
	out := make([]*project.AuditEvent, len(events))
	copy(out, events)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// cloneLocked deep-copies an aggregate and stitches its audit trail. Caller
// holds at least a read lock. Returns nil when the project is unknown.
func (s *MemoryStore) cloneLocked(id uuid.UUID) *project.Project {
	p, ok := s.projects[id]
	if !ok {
		return nil
	}
	clone := p.Clone()
	clone.AuditLog = append([]*project.AuditEvent(nil), s.audit[id]...)
	return clone
}
