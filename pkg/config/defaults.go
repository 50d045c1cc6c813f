package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "conference"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultBusinessTimezone = "America/Mexico_City"
	DefaultOfficeStart      = "08:00"
	DefaultOfficeEnd        = "18:00"

	DefaultCalendarBaseURL = "http://localhost:9090"
	DefaultCalendarID      = "primary"

	DefaultKafkaTopic = "bookings.events"

	DefaultRoomLockTTL    = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultRateLimitPerCaller = 60
	DefaultRateLimitWindow    = 1 * time.Minute
	DefaultIdempotencyTTL     = 10 * time.Minute

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultLogLevel = "info"
)
