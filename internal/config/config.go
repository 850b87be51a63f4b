// Package config loads process configuration from the environment, in the
// same flat getEnv/getEnvAsInt style the rest of this codebase's ambient
// infrastructure uses.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Bulk      BulkConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type PostgresConfig struct {
	Host              string
	Port              int
	Database          string
	User              string
	Password          string
	SSLMode           string
	MaxOpenConns      int
	MaxIdleConns      int
	ConnMaxLifetime   string
	HealthCheckPeriod string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Window            time.Duration
}

type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

// BulkConfig carries BULK_MAX_FILE_SIZE_BYTES for the CSV bulk-operation
// endpoint (spec §4.G). Nothing reads it: the bulk handler and processor
// enforce the fixed bulk.MaxFileSizeBytes limit.
type BulkConfig struct {
	MaxFileSizeBytes int64
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Postgres: PostgresConfig{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getEnvAsInt("POSTGRES_PORT", 5432),
			Database:          getEnv("POSTGRES_DB", "corebank"),
			User:              getEnv("POSTGRES_USER", "corebank"),
			Password:          getEnv("POSTGRES_PASSWORD", "corebank"),
			SSLMode:           getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:      getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:      getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:   getEnv("POSTGRES_CONN_MAX_LIFETIME", "30m"),
			HealthCheckPeriod: getEnv("POSTGRES_HEALTH_CHECK_PERIOD", "1m"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_LEDGER_TOPIC", "ledger.events"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
			Window:            time.Minute,
		},
		CORS: CORSConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "Accept", "X-Requested-With"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Bulk: BulkConfig{
			MaxFileSizeBytes: int64(getEnvAsInt("BULK_MAX_FILE_SIZE_BYTES", 5*1024*1024)),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsSlice(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	return strings.Split(valStr, ",")
}
