package config

import "time"

type PublicConfig struct {
	CompanyName     string `mapstructure:"company_name" json:"companyName" validate:"required"`
	BaseDomain      string `mapstructure:"base_domain" json:"basedomain" validate:"required,url"`
	Logo            string `mapstructure:"logo" json:"logo"`
	Favicon         string `mapstructure:"favicon" json:"favicon"`
	RefreshInterval int    `mapstructure:"refresh_interval" json:"refreshInterval" validate:"gte=0"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns" validate:"gte=1"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout" validate:"gt=0"`
}

type RedisConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	URL             string        `mapstructure:"url" validate:"required_if=Enabled true"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RabbitMQConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	URL          string `mapstructure:"url" validate:"required_if=Enabled true"`
	ExchangeName string `mapstructure:"exchange_name" validate:"required_if=Enabled true"`
	ExchangeType string `mapstructure:"exchange_type"`
	QueueName    string `mapstructure:"queue_name" validate:"required_if=Enabled true"`
	RoutingKey   string `mapstructure:"routing_key" validate:"required_if=Enabled true"`
	WorkerCount  int    `mapstructure:"worker_count" validate:"gte=1"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type APIKeyConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type RetryConfig struct {
	MaxRetries      uint64        `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

type MailConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=smtp sendgrid brevo"`
	From     string        `mapstructure:"from" validate:"required,email"`
	FromName string        `mapstructure:"from_name"`
	SMTP     SMTPConfig    `mapstructure:"smtp"`
	SendGrid APIKeyConfig  `mapstructure:"sendgrid"`
	Brevo    APIKeyConfig  `mapstructure:"brevo"`
	Breaker  BreakerConfig `mapstructure:"breaker"`
	Retry    RetryConfig   `mapstructure:"retry"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"required_if=Enabled true"`
}

type AlertConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
}

type RetentionConfig struct {
	Interval                time.Duration `mapstructure:"interval" validate:"gt=0"`
	ChecksMaxAge            time.Duration `mapstructure:"checks_max_age" validate:"gt=0"`
	PendingSubscriberMaxAge time.Duration `mapstructure:"pending_subscriber_max_age" validate:"gt=0"`
}

type ReportingConfig struct {
	LatestStatusLookback time.Duration `mapstructure:"latest_status_lookback" validate:"gt=0"`
	IncidentWindowDays   int           `mapstructure:"incident_window_days" validate:"gte=1"`
	HistoryDays          int           `mapstructure:"history_days" validate:"gte=1"`
}

type RateLimitConfig struct {
	SubscribePerMinute int `mapstructure:"subscribe_per_minute" validate:"gte=1"`
}

type GroupConfig struct {
	Name     string `mapstructure:"name" json:"name" validate:"required"`
	Monitors []int  `mapstructure:"monitors" json:"monitors"`
}

type IncidentPolicyConfig struct {
	CreateAfter  int    `mapstructure:"create_after"`
	ResolveAfter int    `mapstructure:"resolve_after"`
	Message      string `mapstructure:"message"`
}

type IncidentsConfig struct {
	Down     *IncidentPolicyConfig `mapstructure:"down"`
	Degraded *IncidentPolicyConfig `mapstructure:"degraded"`
}

type MonitorConfig struct {
	ID                int              `mapstructure:"id" validate:"gte=1"`
	Name              string           `mapstructure:"name" validate:"required"`
	Description       string           `mapstructure:"description"`
	UUID              string           `mapstructure:"uuid" validate:"required_if=Type api"`
	Visible           bool             `mapstructure:"visible"`
	Type              string           `mapstructure:"type" validate:"oneof=http api"`
	URL               string           `mapstructure:"url" validate:"required_if=Type http"`
	CheckIntervalMs   int              `mapstructure:"check_interval" validate:"gte=1000"`
	Retries           int              `mapstructure:"retries" validate:"gte=0"`
	TimeoutDownMs     int              `mapstructure:"timeout_down_ms" validate:"gte=0"`
	TimeoutDegradedMs int              `mapstructure:"timeout_degraded_ms" validate:"gte=0"`
	UptimeWording     string           `mapstructure:"uptime_wording"`
	ValidStatusCodes  []int            `mapstructure:"valid_status_codes" validate:"dive,gte=100,lte=599"`
	Regexp            string           `mapstructure:"regexp"`
	Incidents         *IncidentsConfig `mapstructure:"incidents"`
}

type Config struct {
	Env         string          `mapstructure:"env"`
	ServiceName string          `mapstructure:"service_name"`
	Port        int             `mapstructure:"port" validate:"gte=1,lte=65535"`
	Salt        string          `mapstructure:"salt" validate:"required"`
	Public      PublicConfig    `mapstructure:"public"`
	DB          DBConfig        `mapstructure:"db"`
	Redis       RedisConfig     `mapstructure:"redis"`
	RabbitMQ    RabbitMQConfig  `mapstructure:"rabbitmq"`
	Mail        MailConfig      `mapstructure:"mail"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Alert       AlertConfig     `mapstructure:"alert"`
	Retention   RetentionConfig `mapstructure:"retention"`
	Reporting   ReportingConfig `mapstructure:"reporting"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Groups      []GroupConfig   `mapstructure:"groups" validate:"dive"`
	Monitors    []MonitorConfig `mapstructure:"monitors" validate:"required,min=1,dive"`
}
