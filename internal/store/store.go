package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

// Store is the project repository. UpdateProject replaces the whole aggregate;
// audit events are appended separately so the audit trail stays append-only at
// the storage layer too.
type Store interface {
	CreateProject(ctx context.Context, p *project.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error)
	ListProjects(ctx context.Context) ([]*project.Project, error)
	UpdateProject(ctx context.Context, p *project.Project) error

	// FindProjectByDeliverable resolves the owning project of a deliverable.
	// Returns nil, nil when no project owns it.
	FindProjectByDeliverable(ctx context.Context, deliverableID uuid.UUID) (*project.Project, error)

	AppendAuditEvent(ctx context.Context, e *project.AuditEvent) error
	GetAuditEvents(ctx context.Context, projectID uuid.UUID) ([]*project.AuditEvent, error)

	Close() error
}
