package incident

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/apperror"
	"statuspulse/pkg/db"
	"statuspulse/pkg/utils"
)

type Repository interface {
	// CreateActive opens an incident unless one is already active for the
	// same monitor and category; created reports which case happened.
	CreateActive(ctx context.Context, monitorID int, category monitor.Category, message string) (inc *Incident, created bool, err error)
	// ResolveActive resolves every active incident of the category and
	// returns them. Nothing active is not an error.
	ResolveActive(ctx context.Context, monitorID int, category monitor.Category) ([]Incident, error)
	FindActive(ctx context.Context, monitorID int, category monitor.Category) (*Incident, error)
	// ListRecent returns incidents that are active or were created at or
	// after since, newest first.
	ListRecent(ctx context.Context, since time.Time) ([]Incident, error)
}

type PgRepository struct {
	db     db.DBTX
	logger *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *PgRepository {
	return &PgRepository{
		db:     dbExecutor,
		logger: logger,
	}
}

const incidentColumns = `id, monitor_id, type, status, COALESCE(message, ''), created, modified`

func scanIncident(row pgx.Row) (Incident, error) {
	var (
		inc       Incident
		monitorID int32
		typ       string
		status    string
	)
	if err := row.Scan(&inc.ID, &monitorID, &typ, &status, &inc.Message, &inc.Created, &inc.Modified); err != nil {
		return Incident{}, err
	}
	cat, err := monitor.ParseCategory(typ)
	if err != nil {
		return Incident{}, err
	}
	inc.MonitorID = int(monitorID)
	inc.Type = cat
	inc.Status = Status(status)
	return inc, nil
}

// the partial unique index uq_incidents_active makes this atomic
const createActiveSQL = `
INSERT INTO incidents (monitor_id, type, status, message)
VALUES ($1, $2, 'active', $3)
ON CONFLICT (monitor_id, type) WHERE status = 'active' DO NOTHING
RETURNING ` + incidentColumns

func (r *PgRepository) CreateActive(ctx context.Context, monitorID int, category monitor.Category, message string) (*Incident, bool, error) {
	const op string = "repo.incident.create_active"

	inc, err := scanIncident(r.db.QueryRow(ctx, createActiveSQL, monitorID, category.String(), message))
	if err == nil {
		return &inc, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, utils.WrapRepoError(op, err, false, r.logger)
	}

	existing, err := r.FindActive(ctx, monitorID, category)
	if apperror.IsKind(err, apperror.NotFound) {
		// the conflicting incident was resolved between the two statements
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

const resolveActiveSQL = `
UPDATE incidents
SET status = 'resolved', modified = now()
WHERE monitor_id = $1 AND type = $2 AND status = 'active'
RETURNING ` + incidentColumns

func (r *PgRepository) ResolveActive(ctx context.Context, monitorID int, category monitor.Category) ([]Incident, error) {
	const op string = "repo.incident.resolve_active"

	rows, err := r.db.Query(ctx, resolveActiveSQL, monitorID, category.String())
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	resolved, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Incident, error) {
		return scanIncident(row)
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return resolved, nil
}

const findActiveSQL = `
SELECT ` + incidentColumns + `
FROM incidents
WHERE monitor_id = $1 AND type = $2 AND status = 'active'
LIMIT 1`

func (r *PgRepository) FindActive(ctx context.Context, monitorID int, category monitor.Category) (*Incident, error) {
	const op string = "repo.incident.find_active"

	inc, err := scanIncident(r.db.QueryRow(ctx, findActiveSQL, monitorID, category.String()))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, true, r.logger)
	}
	return &inc, nil
}

const listRecentSQL = `
SELECT ` + incidentColumns + `
FROM incidents
WHERE status = 'active' OR created >= $1
ORDER BY id DESC`

func (r *PgRepository) ListRecent(ctx context.Context, since time.Time) ([]Incident, error) {
	const op string = "repo.incident.list_recent"

	rows, err := r.db.Query(ctx, listRecentSQL, since)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Incident, error) {
		return scanIncident(row)
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return list, nil
}
