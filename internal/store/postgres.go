package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists aggregates as JSONB columns on one row per project,
// with audit events in a separate append-only table and a deliverable index
// table for reverse lookups.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const projectColumns = `project_id, name, description, current_phase,
	phase_started_at, created_at, updated_at,
	deliverables, quality_gates, approvals, metrics`

// CreateProject inserts the aggregate, any audit events it carries (the
// creation record), and the deliverable index in one transaction, so a
// project never exists without its creation event.
func (s *PostgresStore) CreateProject(ctx context.Context, p *project.Project) error {
	deliverablesJSON, _ := json.Marshal(p.Deliverables)
	gatesJSON, _ := json.Marshal(p.QualityGates)
	approvalsJSON, _ := json.Marshal(p.Approvals)
	metricsJSON, _ := json.Marshal(p.Metrics)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO lifecycle_projects (project_id, name, description, current_phase,
			phase_started_at, created_at, updated_at,
			deliverables, quality_gates, approvals, metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Name, p.Description, p.CurrentPhase.String(),
		p.PhaseStartedAt, p.CreatedAt, p.UpdatedAt,
		deliverablesJSON, gatesJSON, approvalsJSON, metricsJSON,
	)
	if err != nil {
		return err
	}
	for _, e := range p.AuditLog {
		if err := insertAuditEvent(ctx, tx, e); err != nil {
			return err
		}
	}
	if err := s.indexDeliverables(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM lifecycle_projects WHERE project_id = $1`, id)
	p, err := scanProject(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.AuditLog, err = s.GetAuditEvents(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM lifecycle_projects ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) UpdateProject(ctx context.Context, p *project.Project) error {
	deliverablesJSON, _ := json.Marshal(p.Deliverables)
	gatesJSON, _ := json.Marshal(p.QualityGates)
	approvalsJSON, _ := json.Marshal(p.Approvals)
	metricsJSON, _ := json.Marshal(p.Metrics)

	_, err := s.pool.Exec(ctx, `
		UPDATE lifecycle_projects SET
			name = $2, description = $3, current_phase = $4,
			phase_started_at = $5, updated_at = now(),
			deliverables = $6, quality_gates = $7, approvals = $8, metrics = $9
		WHERE project_id = $1`,
		p.ID, p.Name, p.Description, p.CurrentPhase.String(),
		p.PhaseStartedAt,
		deliverablesJSON, gatesJSON, approvalsJSON, metricsJSON,
	)
	if err != nil {
		return err
	}
	return s.indexDeliverables(ctx, s.pool, p)
}

func (s *PostgresStore) FindProjectByDeliverable(ctx context.Context, deliverableID uuid.UUID) (*project.Project, error) {
	var projectID uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT project_id FROM lifecycle_deliverable_index
		WHERE deliverable_id = $1`, deliverableID,
	).Scan(&projectID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GetProject(ctx, projectID)
}

func (s *PostgresStore) AppendAuditEvent(ctx context.Context, e *project.AuditEvent) error {
	return insertAuditEvent(ctx, s.pool, e)
}

func insertAuditEvent(ctx context.Context, db execer, e *project.AuditEvent) error {
	detailsJSON, _ := json.Marshal(e.Details)
	_, err := db.Exec(ctx, `
		INSERT INTO lifecycle_audit_events (id, project_id, phase, event_type, actor, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ProjectID, e.Phase.String(), string(e.EventType), e.Actor, detailsJSON, e.Timestamp,
	)
	return err
}

func (s *PostgresStore) GetAuditEvents(ctx context.Context, projectID uuid.UUID) ([]*project.AuditEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, project_id, phase, event_type, actor, details, created_at
		FROM lifecycle_audit_events WHERE project_id = $1
		ORDER BY seq ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*project.AuditEvent
	for rows.Next() {
		e := &project.AuditEvent{}
		var phase, eventType string
		var detailsJSON []byte
		if err := rows.Scan(&e.ID, &e.ProjectID, &phase, &eventType, &e.Actor, &detailsJSON, &e.Timestamp); err != nil {
			return nil, err
		}
		if e.Phase, err = project.ParsePhase(phase); err != nil {
			return nil, err
		}
		e.EventType = project.EventType(eventType)
		if detailsJSON != nil {
			_ = json.Unmarshal(detailsJSON, &e.Details)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) indexDeliverables(ctx context.Context, db execer, p *project.Project) error {
	for _, d := range p.Deliverables {
		_, err := db.Exec(ctx, `
			INSERT INTO lifecycle_deliverable_index (deliverable_id, project_id)
			VALUES ($1, $2)
			ON CONFLICT (deliverable_id) DO NOTHING`,
			d.ID, p.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	var phase string
	var deliverablesJSON, gatesJSON, approvalsJSON, metricsJSON []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &phase,
		&p.PhaseStartedAt, &p.CreatedAt, &p.UpdatedAt,
		&deliverablesJSON, &gatesJSON, &approvalsJSON, &metricsJSON,
	)
	if err != nil {
		return nil, err
	}
	if p.CurrentPhase, err = project.ParsePhase(phase); err != nil {
		return nil, err
	}
	if deliverablesJSON != nil {
		_ = json.Unmarshal(deliverablesJSON, &p.Deliverables)
	}
	if gatesJSON != nil {
		_ = json.Unmarshal(gatesJSON, &p.QualityGates)
	}
	if approvalsJSON != nil {
		_ = json.Unmarshal(approvalsJSON, &p.Approvals)
	}
	if metricsJSON != nil {
		_ = json.Unmarshal(metricsJSON, &p.Metrics)
	}
	return p, nil
}
