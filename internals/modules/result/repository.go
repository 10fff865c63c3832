package result

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/db"
	"statuspulse/pkg/utils"
)

type Repository interface {
	Append(ctx context.Context, o Observation) error
	// LatestStatuses returns the newest status per monitor among observations
	// created at or after since.
	LatestStatuses(ctx context.Context, since time.Time) (map[int]monitor.Status, error)
	// DailyCounts returns per-day counts for days that have observations,
	// oldest first.
	DailyCounts(ctx context.Context, monitorID int, from time.Time) ([]DayCounts, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type CheckRepository struct {
	db     db.DBTX
	logger *zerolog.Logger
}

func NewCheckRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *CheckRepository {
	return &CheckRepository{
		db:     dbExecutor,
		logger: logger,
	}
}

const appendCheckSQL = `
INSERT INTO monitor_checks (monitor_id, status, val, created)
VALUES ($1, $2, $3, COALESCE($4, now()))`

func (r *CheckRepository) Append(ctx context.Context, o Observation) error {
	const op string = "repo.check.append"

	_, err := r.db.Exec(ctx, appendCheckSQL, o.MonitorID, string(o.Status), o.Value, utils.ToPgTimestamptz(o.Created))
	if err == nil {
		return nil
	}

	return utils.WrapRepoError(op, err, false, r.logger)
}

const latestStatusesSQL = `
SELECT DISTINCT ON (monitor_id) monitor_id, status
FROM monitor_checks
WHERE created >= $1
ORDER BY monitor_id, created DESC, id DESC`

func (r *CheckRepository) LatestStatuses(ctx context.Context, since time.Time) (map[int]monitor.Status, error) {
	const op string = "repo.check.latest_statuses"

	rows, err := r.db.Query(ctx, latestStatusesSQL, since)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}
	defer rows.Close()

	out := make(map[int]monitor.Status)
	for rows.Next() {
		var (
			id     int32
			status string
		)
		if err := rows.Scan(&id, &status); err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		out[int(id)] = monitor.Status(status)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	return out, nil
}

const dailyCountsSQL = `
SELECT date_trunc('day', created AT TIME ZONE 'UTC') AS day,
       count(*) FILTER (WHERE status = 'up'),
       count(*) FILTER (WHERE status = 'degraded'),
       count(*) FILTER (WHERE status = 'down')
FROM monitor_checks
WHERE monitor_id = $1 AND created >= $2
GROUP BY day
ORDER BY day`

func (r *CheckRepository) DailyCounts(ctx context.Context, monitorID int, from time.Time) ([]DayCounts, error) {
	const op string = "repo.check.daily_counts"

	rows, err := r.db.Query(ctx, dailyCountsSQL, monitorID, from)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DayCounts, error) {
		var (
			c                  DayCounts
			up, degraded, down int64
		)
		if err := row.Scan(&c.Day, &up, &degraded, &down); err != nil {
			return DayCounts{}, err
		}
		c.Day = utils.StartOfDayUTC(c.Day)
		c.Up, c.Degraded, c.Down = int(up), int(degraded), int(down)
		return c, nil
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	return counts, nil
}

func (r *CheckRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const op string = "repo.check.delete_older_than"

	tag, err := r.db.Exec(ctx, `DELETE FROM monitor_checks WHERE created < $1`, cutoff)
	if err != nil {
		return 0, utils.WrapRepoError(op, err, false, r.logger)
	}
	return tag.RowsAffected(), nil
}
