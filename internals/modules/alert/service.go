package alert

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"statuspulse/internals/modules/incident"
	"statuspulse/internals/modules/subscriber"
	"statuspulse/pkg/mailer"
	"statuspulse/pkg/telemetry"
)

type SubscriberLister interface {
	ListActive(ctx context.Context) ([]subscriber.Subscriber, error)
}

// AlertService fans incident events out to every active subscriber. Events
// are queued by the tracker and delivered by a fixed pool of workers, so a
// slow mail transport never holds up a monitor.
type AlertService struct {
	// lifecycle
	workerCount int
	workerWG    sync.WaitGroup
	closeOnce   sync.Once

	// channels
	alertChan chan incident.Event

	// collaborators
	subscribers SubscriberLister
	mailer      mailer.Mailer
	composer    *Composer
	sendTimeout time.Duration

	// misc
	metrics *telemetry.Metrics
	logger  *zerolog.Logger
}

func NewAlertService(
	workerCount, queueSize int,
	subscribers SubscriberLister,
	m mailer.Mailer,
	composer *Composer,
	metrics *telemetry.Metrics,
	logger *zerolog.Logger,
) *AlertService {
	return &AlertService{
		workerCount: workerCount,
		alertChan:   make(chan incident.Event, queueSize),
		subscribers: subscribers,
		mailer:      m,
		composer:    composer,
		sendTimeout: 2 * time.Minute,
		metrics:     metrics,
		logger:      logger,
	}
}

// Notify queues an event without blocking. When the queue is full the event
// is dropped and logged; delivery is best effort.
func (s *AlertService) Notify(_ context.Context, e incident.Event) {
	select {
	case s.alertChan <- e:
	default:
		s.logger.Error().
			Int64("incident_id", e.Incident.ID).
			Int("monitor_id", e.Incident.MonitorID).
			Str("lifecycle", e.Lifecycle.String()).
			Msg("alert queue full, notification dropped")
	}
}

// Start starts the alert workers.
func (s *AlertService) Start(ctx context.Context) {
	s.workerWG.Add(s.workerCount)

	for range s.workerCount {
		go s.handleAlerts(ctx)
	}
}

// Close stops accepting events; workers drain what is queued and exit.
// Call it only after every producer has stopped.
func (s *AlertService) Close() {
	s.closeOnce.Do(func() { close(s.alertChan) })
}

// WorkerClosingWait waits for alert workers to complete
func (s *AlertService) WorkerClosingWait() {
	s.workerWG.Wait()
}

func (s *AlertService) handleAlerts(ctx context.Context) {
	defer s.workerWG.Done()

	for e := range s.alertChan {
		s.dispatch(ctx, e)
	}
}

func (s *AlertService) dispatch(ctx context.Context, e incident.Event) {
	// queued events are still delivered during shutdown
	ctx = context.WithoutCancel(ctx)

	subs, err := s.subscribers.ListActive(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("incident_id", e.Incident.ID).
			Msg("failed to load subscribers")
		return
	}

	failed := 0
	for _, sub := range subs {
		if err := s.send(ctx, e, sub.Email); err != nil {
			failed++
			s.metrics.RecordNotification(ctx, false)
			s.logger.Warn().
				Err(err).
				Int64("incident_id", e.Incident.ID).
				Int64("subscriber_id", sub.ID).
				Msg("notification delivery failed")
			continue
		}
		s.metrics.RecordNotification(ctx, true)
	}

	s.logger.Info().
		Int64("incident_id", e.Incident.ID).
		Int("monitor_id", e.Incident.MonitorID).
		Str("lifecycle", e.Lifecycle.String()).
		Int("recipients", len(subs)).
		Int("failed", failed).
		Msg("incident notifications dispatched")
}

func (s *AlertService) send(ctx context.Context, e incident.Event, to string) error {
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	return s.mailer.Send(ctx, s.composer.Compose(e, to))
}
