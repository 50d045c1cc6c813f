package config

import (
	"os"
	"strconv"
	"time"
)

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBusinessTimezone = "BUSINESS_TIMEZONE"
	EnvOfficeStart      = "OFFICE_START"
	EnvOfficeEnd        = "OFFICE_END"

	EnvCalendarBaseURL = "CALENDAR_BASE_URL"
	EnvCalendarID      = "CALENDAR_ID"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvRoomLockTTL    = "ROOM_LOCK_TTL"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvRateLimitPerCaller = "RATE_LIMIT_PER_CALLER"
	EnvRateLimitWindow    = "RATE_LIMIT_WINDOW"
	EnvIdempotencyTTL     = "IDEMPOTENCY_TTL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
