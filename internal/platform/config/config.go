package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                string
	Environment         string
	LogLevel            string
	DatabaseURL         string
	DatabaseMaxConns    int32
	RedisURL            string
	JWTSecret           string
	AnonymizationKey    string
	EmployeeServiceURL  string
	EmployeeCacheTTL    time.Duration
	EmployeeHTTPTimeout time.Duration
	KafkaBrokers        []string
	KafkaEventsTopic    string
	KafkaEmployeeTopic  string
	KafkaGroupID        string
	EmailFrom           string
	EmailEnabled        bool
	SMTPHost            string
	SMTPPort            int
	SMTPUser            string
	SMTPPassword        string
	SMTPUseTLS          bool
	RunMigrations       bool
	MaxBodyBytes        int64
	RateLimitPerMinute  int
	ReviewReminderHour  int
	PIPCheckInWeekday   time.Weekday
	PIPCheckInHour      int
	ArchiveAfter        time.Duration
	ArchiveInterval     time.Duration
	JobsEnabled         bool
	LimitsFile          string
	MetricsEnabled      bool
	OtelEnabled         bool
	OtelEndpoint        string
	OtelInsecure        bool
	OtelSampleRatio     float64
}

func Load() Config {
	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		Environment:         getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:    int32(getEnvInt("DATABASE_MAX_CONNS", 10)),
		RedisURL:            getEnv("REDIS_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		AnonymizationKey:    getEnv("ANONYMIZATION_KEY", ""),
		EmployeeServiceURL:  getEnv("EMPLOYEE_SERVICE_URL", ""),
		EmployeeCacheTTL:    getEnvDuration("EMPLOYEE_CACHE_TTL", 10*time.Minute),
		EmployeeHTTPTimeout: getEnvDuration("EMPLOYEE_HTTP_TIMEOUT", 5*time.Second),
		KafkaBrokers:        getEnvList("KAFKA_BROKERS"),
		KafkaEventsTopic:    getEnv("KAFKA_EVENTS_TOPIC", "performance.events"),
		KafkaEmployeeTopic:  getEnv("KAFKA_EMPLOYEE_TOPIC", "employee.events"),
		KafkaGroupID:        getEnv("KAFKA_GROUP_ID", "perfsvc"),
		EmailFrom:           getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:        getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:          getEnvBool("SMTP_USE_TLS", true),
		RunMigrations:       getEnvBool("RUN_MIGRATIONS", true),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ReviewReminderHour:  getEnvInt("REVIEW_REMINDER_HOUR", 8),
		PIPCheckInWeekday:   getEnvWeekday("PIP_CHECKIN_WEEKDAY", time.Monday),
		PIPCheckInHour:      getEnvInt("PIP_CHECKIN_HOUR", 9),
		ArchiveAfter:        getEnvDuration("ARCHIVE_AFTER", 7*365*24*time.Hour),
		ArchiveInterval:     getEnvDuration("ARCHIVE_INTERVAL", 30*24*time.Hour),
		JobsEnabled:         getEnvBool("JOBS_ENABLED", true),
		LimitsFile:          getEnv("LIMITS_FILE", ""),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", true),
		OtelEnabled:         getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelInsecure:        getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio:     getEnvFloat("OTEL_SAMPLER_RATIO", 0.1),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvWeekday(key string, fallback time.Weekday) time.Weekday {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return fallback
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.ToLower(day.String()) == value {
			return day
		}
	}
	return fallback
}

// Validate checks the settings needed to serve traffic. Memory mode skips
// the external dependency checks.
func (c Config) Validate(memory bool) error {
	if !memory {
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		if strings.TrimSpace(c.EmployeeServiceURL) == "" {
			return fmt.Errorf("EMPLOYEE_SERVICE_URL is required")
		}
		if strings.TrimSpace(c.AnonymizationKey) == "" {
			return fmt.Errorf("ANONYMIZATION_KEY is required when anonymous feedback is persisted to postgres")
		}
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.AnonymizationKey) == "" {
			return fmt.Errorf("ANONYMIZATION_KEY must be set in production so anonymous feedback hashes are keyed")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.ReviewReminderHour < 0 || c.ReviewReminderHour > 23 {
		return fmt.Errorf("REVIEW_REMINDER_HOUR must be between 0 and 23")
	}
	if c.PIPCheckInHour < 0 || c.PIPCheckInHour > 23 {
		return fmt.Errorf("PIP_CHECKIN_HOUR must be between 0 and 23")
	}
	if c.ArchiveAfter <= 0 {
		return fmt.Errorf("ARCHIVE_AFTER must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.DatabaseMaxConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be positive")
	}
	return nil
}
