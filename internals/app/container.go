package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"statuspulse/config"
	"statuspulse/internals/modules/alert"
	"statuspulse/internals/modules/incident"
	"statuspulse/internals/modules/monitor"
	"statuspulse/internals/modules/report"
	"statuspulse/internals/modules/result"
	"statuspulse/internals/modules/scheduler"
	"statuspulse/internals/modules/subscriber"
	"statuspulse/pkg/db"
	"statuspulse/pkg/httpclient"
	"statuspulse/pkg/logger"
	"statuspulse/pkg/mailer"
	"statuspulse/pkg/rabbitmq"
	"statuspulse/pkg/redisstore"
	"statuspulse/pkg/telemetry"
)

type Container struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	AMQPConn    *amqp091.Connection
	Publisher   *rabbitmq.Publisher
	Consumer    *rabbitmq.Consumer
	MailHandler *rabbitmq.MailHandler
	// MailTransport delivers mail directly; with RabbitMQ it runs behind the consumer
	MailTransport mailer.Mailer
	Telemetry   *telemetry.Provider
	Metrics     *telemetry.Metrics
	Logger      *zerolog.Logger

	Scheduler *scheduler.Scheduler
	Janitor   *scheduler.Janitor
	AlertSvc  *alert.AlertService

	subscriberHandler *subscriber.Handler
	reportHandler     *report.Handler
	pushHandler       *scheduler.Handler
}

func NewContainer(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, log *zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, DB: dbPool, Logger: log}

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		return nil, err
	}

	registry, err := monitor.NewRegistry(cfg.Monitors, cfg.Groups)
	if err != nil {
		return nil, err
	}

	// telemetry
	provider, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Enabled:      cfg.Telemetry.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	c.Telemetry = provider
	metrics, err := telemetry.NewMetrics(provider.Meter)
	if err != nil {
		return nil, fmt.Errorf("create instruments: %w", err)
	}
	c.Metrics = metrics

	// status cache
	var statusCache result.StatusCache
	if cfg.Redis.Enabled {
		c.RedisClient, err = redisstore.New(ctx, &cfg.Redis, cfg.Reporting.LatestStatusLookback)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		statusCache = c.RedisClient
		log.Info().Msg("redis status cache enabled")
	}

	// mail transport
	transport, err := mailer.New(&cfg.Mail, logger.Component(log, "mailer"))
	if err != nil {
		return nil, err
	}
	c.MailTransport = transport
	outbound := transport
	if cfg.RabbitMQ.Enabled {
		if outbound, err = c.setupMailQueue(ctx, cfg, transport); err != nil {
			return nil, err
		}
	}

	validate := validator.New()

	// repositories
	checkRepo := result.NewCheckRepository(dbPool, log)
	incidentRepo := incident.NewRepository(dbPool, log)
	subscriberRepo := subscriber.NewRepository(dbPool, log)

	// services
	subscriberSvc := subscriber.NewService(
		subscriberRepo,
		outbound,
		validate,
		cfg.Salt,
		cfg.Public.BaseDomain,
		cfg.Public.CompanyName,
		logger.Component(log, "subscriber"),
	)
	c.AlertSvc = alert.NewAlertService(
		cfg.Alert.WorkerCount,
		cfg.Alert.QueueSize,
		subscriberRepo,
		outbound,
		alert.NewComposer(cfg.Public.BaseDomain, cfg.Salt),
		metrics,
		logger.Component(log, "alert"),
	)
	tracker := incident.NewTracker(registry.All(), incidentRepo, c.AlertSvc, metrics, logger.Component(log, "incident"))
	processor := result.NewProcessor(checkRepo, statusCache, tracker, metrics, logger.Component(log, "result"))

	c.Scheduler = scheduler.NewScheduler(
		registry,
		httpclient.NewHttpClient(),
		processor,
		metrics,
		logger.Component(log, "scheduler"),
	)
	c.Janitor = scheduler.NewJanitor(&cfg.Retention, checkRepo, subscriberRepo, logger.Component(log, "janitor"))

	reportSvc := report.NewService(
		registry,
		result.NewLatestReader(checkRepo, statusCache, cfg.Reporting.LatestStatusLookback, log),
		result.NewAggregator(checkRepo, cfg.Reporting.HistoryDays),
		incidentRepo,
		cfg.Public,
		cfg.Reporting.IncidentWindowDays,
	)

	// handlers
	c.subscriberHandler = subscriber.NewHandler(subscriberSvc, validate)
	c.reportHandler = report.NewHandler(reportSvc)
	c.pushHandler = scheduler.NewHandler(c.Scheduler)

	return c, nil
}

// setupMailQueue routes outgoing mail through RabbitMQ. The returned mailer
// publishes; the consumer started later delivers with transport.
func (c *Container) setupMailQueue(ctx context.Context, cfg *config.Config, transport mailer.Mailer) (mailer.Mailer, error) {
	rmqLog := logger.Component(c.Logger, "rabbitmq")

	conn, err := rabbitmq.NewConnection(ctx, &cfg.RabbitMQ, rmqLog)
	if err != nil {
		return nil, err
	}
	c.AMQPConn = conn

	if err := rabbitmq.SetupTopology(conn, &cfg.RabbitMQ); err != nil {
		return nil, fmt.Errorf("rabbitmq topology: %w", err)
	}

	c.Publisher, err = rabbitmq.NewPublisher(conn, cfg.RabbitMQ.ExchangeName, cfg.RabbitMQ.RoutingKey)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq publisher: %w", err)
	}

	c.Consumer, err = rabbitmq.NewConsumer(conn, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.WorkerCount, rmqLog)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consumer: %w", err)
	}
	c.MailHandler = rabbitmq.NewMailHandler(transport)

	rmqLog.Info().Msg("mail delivery routed through rabbitmq")
	return rabbitmq.NewMailQueue(c.Publisher), nil
}

// Shutdown releases infrastructure. Background workers must already be
// stopped.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Consumer != nil {
		if err := c.Consumer.Shutdown(ctx); err != nil {
			c.Logger.Error().Err(err).Msg("rabbitmq consumer shutdown failed")
		}
	}
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	if c.AMQPConn != nil {
		_ = c.AMQPConn.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.Telemetry != nil {
		if err := c.Telemetry.Shutdown(ctx); err != nil {
			c.Logger.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}
	return nil
}
