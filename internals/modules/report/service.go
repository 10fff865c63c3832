package report

import (
	"context"
	"time"

	"statuspulse/config"
	"statuspulse/internals/modules/incident"
	"statuspulse/internals/modules/monitor"
	"statuspulse/internals/modules/result"
	"statuspulse/pkg/apperror"
)

type IncidentLister interface {
	ListRecent(ctx context.Context, since time.Time) ([]incident.Incident, error)
}

// Service builds the read models of the status page.
type Service struct {
	registry       *monitor.Registry
	latest         *result.LatestReader
	aggregator     *result.Aggregator
	incidents      IncidentLister
	public         config.PublicConfig
	incidentWindow time.Duration
	now            func() time.Time
}

func NewService(
	registry *monitor.Registry,
	latest *result.LatestReader,
	aggregator *result.Aggregator,
	incidents IncidentLister,
	public config.PublicConfig,
	incidentWindowDays int,
) *Service {
	return &Service{
		registry:       registry,
		latest:         latest,
		aggregator:     aggregator,
		incidents:      incidents,
		public:         public,
		incidentWindow: time.Duration(incidentWindowDays) * 24 * time.Hour,
		now:            time.Now,
	}
}

// Overview lists visible monitors that belong to a group, with their latest
// status, plus the non-empty groups.
func (s *Service) Overview(ctx context.Context) (OverviewResponse, error) {
	now := s.now()

	var published []*monitor.Monitor
	for _, m := range s.registry.All() {
		if s.registry.Published(m.ID) {
			published = append(published, m)
		}
	}

	ids := make([]int, 0, len(published))
	for _, m := range published {
		ids = append(ids, m.ID)
	}
	statuses, err := s.latest.Latest(ctx, ids, now)
	if err != nil {
		return OverviewResponse{}, err
	}

	resp := OverviewResponse{
		Public:   s.public,
		Groups:   []monitor.Group{},
		Monitors: make([]MonitorSummary, 0, len(published)),
	}
	for _, g := range s.registry.Groups() {
		if len(g.Monitors) > 0 {
			resp.Groups = append(resp.Groups, g)
		}
	}
	for _, m := range published {
		resp.Monitors = append(resp.Monitors, MonitorSummary{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			UptimeWording: m.UptimeWording,
			Status:        statuses[m.ID],
			TS:            now.UnixMilli(),
		})
	}
	return resp, nil
}

// History returns the daily series of a visible monitor.
func (s *Service) History(ctx context.Context, monitorID int) (HistoryResponse, error) {
	const op string = "service.report.history"

	m, ok := s.registry.Get(monitorID)
	if !ok || !m.Visible {
		return HistoryResponse{}, &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "monitor not found",
		}
	}

	days, err := s.aggregator.History(ctx, monitorID, s.now())
	if err != nil {
		return HistoryResponse{}, err
	}
	return HistoryResponse{ID: m.ID, Name: m.Name, Days: days}, nil
}

// Incidents lists incidents that are active or inside the reporting window,
// newest first.
func (s *Service) Incidents(ctx context.Context) ([]IncidentResponse, error) {
	list, err := s.incidents.ListRecent(ctx, s.now().Add(-s.incidentWindow))
	if err != nil {
		return nil, err
	}

	out := make([]IncidentResponse, 0, len(list))
	for _, inc := range list {
		out = append(out, IncidentResponse{
			ID:          inc.ID,
			MonitorID:   inc.MonitorID,
			MonitorName: s.registry.Name(inc.MonitorID),
			Type:        inc.Type.String(),
			Status:      string(inc.Status),
			Message:     inc.Message,
			Created:     inc.Created,
			Modified:    inc.Modified,
		})
	}
	return out, nil
}
