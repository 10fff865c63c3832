package result

import (
	"context"
	"math"
	"time"

	"statuspulse/internals/modules/monitor"
	"statuspulse/pkg/utils"
)

// Day label thresholds, relative to the number of up observations.
const (
	downRatio     = 0.001
	degradedRatio = 0.005
)

// Aggregator derives the per-day uptime series shown on the status page.
type Aggregator struct {
	repo Repository
	days int
}

func NewAggregator(repo Repository, days int) *Aggregator {
	return &Aggregator{repo: repo, days: days}
}

// History returns days+1 entries, from today minus days up to today (UTC),
// oldest first. Days without observations are unknown.
func (a *Aggregator) History(ctx context.Context, monitorID int, now time.Time) ([]DayAggregate, error) {
	today := utils.StartOfDayUTC(now)
	from := today.AddDate(0, 0, -a.days)

	counts, err := a.repo.DailyCounts(ctx, monitorID, from)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]DayCounts, len(counts))
	for _, c := range counts {
		byDay[utils.StartOfDayUTC(c.Day)] = c
	}

	out := make([]DayAggregate, 0, a.days+1)
	for i := 0; i <= a.days; i++ {
		day := from.AddDate(0, 0, i)
		c, ok := byDay[day]
		if !ok {
			c = DayCounts{Day: day}
		}
		out = append(out, Summarize(c))
	}
	return out, nil
}

// Summarize turns the counts of one day into its reporting view.
func Summarize(c DayCounts) DayAggregate {
	agg := DayAggregate{
		Date:   c.Day.Format(time.DateOnly),
		Status: monitor.StatusUnknown,
	}

	total := c.Total()
	if total == 0 {
		return agg
	}

	agg.Uptime = percent(c.Up+c.Degraded, total)
	agg.Degraded = percent(c.Degraded, total)

	switch {
	case float64(c.Down) > float64(c.Up)*downRatio:
		agg.Status = monitor.StatusDown
	case float64(c.Degraded) > float64(c.Up)*degradedRatio:
		agg.Status = monitor.StatusDegraded
	default:
		agg.Status = monitor.StatusUp
	}
	return agg
}

// percent rounds n/total to two decimals.
func percent(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*100*100) / 100
}
