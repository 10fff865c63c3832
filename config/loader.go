package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// default first
	setDefaults(v)

	// File Config
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Env Config
	v.SetEnvPrefix("STATUSPULSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read File
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "statuspulse")
	v.SetDefault("port", 3000)

	v.SetDefault("public.refresh_interval", 60)

	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.min_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")
	v.SetDefault("db.health_timeout", "5s")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.conn_max_lifetime", "2m")
	v.SetDefault("redis.conn_max_idle_time", "30s")

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.exchange_type", "direct")
	v.SetDefault("rabbitmq.worker_count", 5)

	v.SetDefault("mail.provider", "smtp")
	v.SetDefault("mail.from_name", "Status")
	v.SetDefault("mail.smtp.port", 587)
	v.SetDefault("mail.breaker.max_requests", 1)
	v.SetDefault("mail.breaker.timeout", "60s")
	v.SetDefault("mail.breaker.failure_ratio", 0.5)
	v.SetDefault("mail.breaker.min_requests", 5)
	v.SetDefault("mail.retry.max_retries", 3)
	v.SetDefault("mail.retry.initial_interval", "500ms")
	v.SetDefault("mail.retry.max_interval", "5s")

	v.SetDefault("alert.worker_count", 4)
	v.SetDefault("alert.queue_size", 500)

	v.SetDefault("retention.interval", "12h")
	v.SetDefault("retention.checks_max_age", "2184h") // 91 days
	v.SetDefault("retention.pending_subscriber_max_age", "336h")

	v.SetDefault("reporting.latest_status_lookback", "2h")
	v.SetDefault("reporting.incident_window_days", 90)
	v.SetDefault("reporting.history_days", 90)

	v.SetDefault("rate_limit.subscribe_per_minute", 10)
}

func validateConfig(cfg *Config) error {

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return validateMonitors(cfg)
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}

// validateMonitors checks the cross-field rules the struct tags cannot express.
func validateMonitors(cfg *Config) error {
	var problems []string

	ids := make(map[int]struct{}, len(cfg.Monitors))
	tokens := make(map[string]struct{})

	for _, m := range cfg.Monitors {
		if _, dup := ids[m.ID]; dup {
			problems = append(problems, fmt.Sprintf("monitor id %d is not unique", m.ID))
		}
		ids[m.ID] = struct{}{}

		switch m.Type {
		case "http":
			if u, err := url.Parse(m.URL); err != nil || u.Scheme == "" || u.Host == "" {
				problems = append(problems, fmt.Sprintf("monitor %d: invalid url %q", m.ID, m.URL))
			}
		case "api":
			if _, err := uuid.Parse(m.UUID); err != nil {
				problems = append(problems, fmt.Sprintf("monitor %d: uuid %q is not a valid uuid", m.ID, m.UUID))
			}
			if _, dup := tokens[m.UUID]; dup {
				problems = append(problems, fmt.Sprintf("monitor %d: uuid %q is not unique", m.ID, m.UUID))
			}
			tokens[m.UUID] = struct{}{}
		}

		if m.Regexp != "" {
			if _, err := regexp.Compile(m.Regexp); err != nil {
				problems = append(problems, fmt.Sprintf("monitor %d: regexp does not compile: %v", m.ID, err))
			}
		}
	}

	for _, g := range cfg.Groups {
		for _, id := range g.Monitors {
			if _, ok := ids[id]; !ok {
				problems = append(problems, fmt.Sprintf("group %q references unknown monitor %d", g.Name, id))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(problems, "\n- "))
}
