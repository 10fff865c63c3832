package result

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/monitor"
)

// LatestReader resolves the latest status of monitors within a lookback
// window, reading the cache first and falling back to the check log for
// monitors the cache does not know.
type LatestReader struct {
	repo     Repository
	cache    StatusCache
	lookback time.Duration
	logger   *zerolog.Logger
}

func NewLatestReader(repo Repository, cache StatusCache, lookback time.Duration, logger *zerolog.Logger) *LatestReader {
	return &LatestReader{
		repo:     repo,
		cache:    cache,
		lookback: lookback,
		logger:   logger,
	}
}

// Latest returns a status for every id; monitors without an observation in
// the window are unknown.
func (r *LatestReader) Latest(ctx context.Context, ids []int, now time.Time) (map[int]monitor.Status, error) {
	out := make(map[int]monitor.Status, len(ids))
	missing := ids

	if r.cache != nil && len(ids) > 0 {
		cached, err := r.cache.GetStatuses(ctx, ids)
		if err != nil {
			r.logger.Warn().Err(err).Msg("status cache read failed, using check log")
		} else {
			missing = missing[:0:0]
			for _, id := range ids {
				if s, ok := monitor.ParseStatus(cached[id]); ok {
					out[id] = s
					continue
				}
				missing = append(missing, id)
			}
		}
	}

	if len(missing) > 0 {
		fromDB, err := r.repo.LatestStatuses(ctx, now.Add(-r.lookback))
		if err != nil {
			return nil, err
		}
		for _, id := range missing {
			if s, ok := fromDB[id]; ok {
				out[id] = s
			}
		}
	}

	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = monitor.StatusUnknown
		}
	}
	return out, nil
}
