package subscriber

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"statuspulse/pkg/apperror"
	"statuspulse/pkg/db"
	"statuspulse/pkg/utils"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Subscriber, error)
	Insert(ctx context.Context, email string) (*Subscriber, error)
	RefreshCreated(ctx context.Context, id int64) error
	Activate(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) (int64, error)
	ListActive(ctx context.Context) ([]Subscriber, error)
	DeletePendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
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

func scanSubscriber(row pgx.Row) (Subscriber, error) {
	var s Subscriber
	err := row.Scan(&s.ID, &s.Email, &s.Active, &s.Created)
	return s, err
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Subscriber, error) {
	const op string = "repo.subscriber.get_by_email"

	s, err := scanSubscriber(r.db.QueryRow(ctx,
		`SELECT id, email, active, created FROM subscribers WHERE email = $1 ORDER BY id LIMIT 1`, email))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, true, r.logger)
	}
	return &s, nil
}

func (r *PgRepository) Insert(ctx context.Context, email string) (*Subscriber, error) {
	const op string = "repo.subscriber.insert"

	s, err := scanSubscriber(r.db.QueryRow(ctx,
		`INSERT INTO subscribers (email, active) VALUES ($1, FALSE) RETURNING id, email, active, created`, email))
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return &s, nil
}

func (r *PgRepository) RefreshCreated(ctx context.Context, id int64) error {
	const op string = "repo.subscriber.refresh_created"

	if _, err := r.db.Exec(ctx, `UPDATE subscribers SET created = now() WHERE id = $1`, id); err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}

func (r *PgRepository) Activate(ctx context.Context, email string) error {
	const op string = "repo.subscriber.activate"

	tag, err := r.db.Exec(ctx, `UPDATE subscribers SET active = TRUE WHERE email = $1`, email)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if tag.RowsAffected() == 0 {
		return &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "resource not found",
		}
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, email string) (int64, error) {
	const op string = "repo.subscriber.delete"

	tag, err := r.db.Exec(ctx, `DELETE FROM subscribers WHERE email = $1`, email)
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return tag.RowsAffected(), nil
}

func (r *PgRepository) ListActive(ctx context.Context) ([]Subscriber, error) {
	const op string = "repo.subscriber.list_active"

	rows, err := r.db.Query(ctx, `SELECT id, email, active, created FROM subscribers WHERE active ORDER BY id`)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Subscriber, error) {
		return scanSubscriber(row)
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	return list, nil
}

func (r *PgRepository) DeletePendingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const op string = "repo.subscriber.delete_pending"

	tag, err := r.db.Exec(ctx, `DELETE FROM subscribers WHERE NOT active AND created < $1`, cutoff)
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return tag.RowsAffected(), nil
}
