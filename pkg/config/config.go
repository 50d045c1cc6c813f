package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ksquareincmx/conference-server-sub000/pkg/client"
	"github.com/ksquareincmx/conference-server-sub000/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	// Scheduling window. Clock bounds are "HH:MM" in the business timezone.
	BusinessTimezone string
	OfficeStart      string
	OfficeEnd        string
	Location         *time.Location

	// External calendar provider.
	CalendarBaseURL string
	CalendarID      string

	// Booking event stream. Publishing is disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	RoomLockTTL    time.Duration
	RequestTimeout time.Duration
	MaxRequestSize int

	RateLimitPerCaller int
	RateLimitWindow    time.Duration
	IdempotencyTTL     time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BusinessTimezone: getEnvStr(EnvBusinessTimezone, DefaultBusinessTimezone),
		OfficeStart:      getEnvStr(EnvOfficeStart, DefaultOfficeStart),
		OfficeEnd:        getEnvStr(EnvOfficeEnd, DefaultOfficeEnd),

		CalendarBaseURL: getEnvStr(EnvCalendarBaseURL, DefaultCalendarBaseURL),
		CalendarID:      getEnvStr(EnvCalendarID, DefaultCalendarID),

		KafkaBrokers: splitList(getEnvStr(EnvKafkaBrokers, "")),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		RoomLockTTL:    getEnvDuration(EnvRoomLockTTL, DefaultRoomLockTTL),
		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		RateLimitPerCaller: getEnvNum(EnvRateLimitPerCaller, DefaultRateLimitPerCaller),
		RateLimitWindow:    getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		IdempotencyTTL:     getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		cfg.Log.Fatal("Invalid business timezone", "timezone", cfg.BusinessTimezone, "error", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !clockRegex.MatchString(cfg.OfficeStart) {
		errors = append(errors, fmt.Sprintf("OfficeStart must be in HH:MM format (00:00-23:59), got: %s", cfg.OfficeStart))
	}
	if !clockRegex.MatchString(cfg.OfficeEnd) {
		errors = append(errors, fmt.Sprintf("OfficeEnd must be in HH:MM format (00:00-23:59), got: %s", cfg.OfficeEnd))
	}
	if cfg.OfficeStart >= cfg.OfficeEnd {
		errors = append(errors, fmt.Sprintf("OfficeStart (%s) must be before OfficeEnd (%s)", cfg.OfficeStart, cfg.OfficeEnd))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.CalendarBaseURL == "" {
		errors = append(errors, "CalendarBaseURL cannot be empty")
	}
	if cfg.CalendarID == "" {
		errors = append(errors, "CalendarID cannot be empty")
	}

	if cfg.RoomLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("RoomLockTTL must be positive, got: %s", cfg.RoomLockTTL))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.RateLimitPerCaller <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitPerCaller must be positive, got: %d", cfg.RateLimitPerCaller))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"business_timezone", cfg.BusinessTimezone,
		"office_start", cfg.OfficeStart,
		"office_end", cfg.OfficeEnd,
		"calendar_base_url", cfg.CalendarBaseURL,
		"calendar_id", cfg.CalendarID,
		"kafka_brokers", strings.Join(cfg.KafkaBrokers, ","),
		"kafka_topic", cfg.KafkaTopic,
		"room_lock_ttl", cfg.RoomLockTTL,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_per_caller", cfg.RateLimitPerCaller,
		"rate_limit_window", cfg.RateLimitWindow,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
