package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	MigrationsDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       string

	JWTSecret   string
	JWTTTLHours string

	MidtransServerKey       string
	MidtransEnvironment     string
	MidtransFinishURL       string
	MidtransVerifySignature string
	MidtransExpiryMinutes   string
	GatewayTimeoutSeconds   string
	OrderIDPrefix           string

	KafkaBrokers           string
	KafkaClientID          string
	KafkaGroupID           string
	KafkaRetryGroupID      string
	KafkaInstanceID        string
	KafkaTopicPartitions   string
	KafkaRetryPartitions   string
	KafkaReplicationFactor string
	KafkaMinISR            string
	KafkaRetryAttempts     string
	KafkaRetryDelaySeconds string
	EventDrivenEnabled     string
}

// Load reads the configuration from the environment after applying a .env
// file when one exists. Variables already set take precedence.
func Load() *Config {
	_ = godotenv.Load()

	instanceID := os.Getenv("KAFKA_INSTANCE_ID")
	if instanceID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			instanceID = "unknown"
		} else {
			instanceID = hostname
		}
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "commercedb"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		MigrationsDir: getEnv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		JWTTTLHours: getEnv("JWT_TTL_HOURS", "24"),

		MidtransServerKey:       getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransEnvironment:     getEnv("MIDTRANS_ENVIRONMENT", "sandbox"),
		MidtransFinishURL:       getEnv("MIDTRANS_FINISH_URL", ""),
		MidtransVerifySignature: getEnv("MIDTRANS_VERIFY_SIGNATURE", "true"),
		MidtransExpiryMinutes:   getEnv("MIDTRANS_EXPIRY_MINUTES", "1440"),
		GatewayTimeoutSeconds:   getEnv("GATEWAY_TIMEOUT_SECONDS", "15"),
		OrderIDPrefix:           getEnv("ORDER_ID_PREFIX", "COURSE"),

		KafkaBrokers:           getEnv("KAFKA_BROKERS", "kafka:9092"),
		KafkaClientID:          getEnv("KAFKA_CLIENT_ID", "course-commerce"),
		KafkaGroupID:           getEnv("KAFKA_GROUP_ID", "payment-notification-consumers"),
		KafkaRetryGroupID:      getEnv("KAFKA_RETRY_GROUP_ID", "payment-notification-retry"),
		KafkaInstanceID:        instanceID,
		KafkaTopicPartitions:   getEnv("KAFKA_TOPIC_PARTITIONS", "3"),
		KafkaRetryPartitions:   getEnv("KAFKA_RETRY_PARTITIONS", "1"),
		KafkaReplicationFactor: getEnv("KAFKA_REPLICATION_FACTOR", "1"),
		KafkaMinISR:            getEnv("KAFKA_MIN_ISR", "1"),
		KafkaRetryAttempts:     getEnv("KAFKA_RETRY_ATTEMPTS", "5"),
		KafkaRetryDelaySeconds: getEnv("KAFKA_RETRY_DELAY_SECONDS", "5"),
		EventDrivenEnabled:     getEnv("EVENT_DRIVEN_ENABLED", "false"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_*
// components.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) EventDriven() bool {
	return parseBool(c.EventDrivenEnabled, false)
}

func (c *Config) VerifySignature() bool {
	return parseBool(c.MidtransVerifySignature, true)
}

func (c *Config) RedisDatabase() int {
	parsed, err := strconv.Atoi(c.RedisDB)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(parseInt(c.JWTTTLHours, 24)) * time.Hour
}

func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(parseInt(c.GatewayTimeoutSeconds, 15)) * time.Second
}

func (c *Config) ExpiryMinutes() int64 {
	return int64(parseInt(c.MidtransExpiryMinutes, 1440))
}

func (c *Config) TopicPartitions() int {
	return parseInt(c.KafkaTopicPartitions, 3)
}

func (c *Config) RetryPartitions() int {
	return parseInt(c.KafkaRetryPartitions, 1)
}

func (c *Config) ReplicationFactor() int16 {
	value := parseInt(c.KafkaReplicationFactor, 1)
	return int16(value)
}

func (c *Config) RetryAttempts() int {
	return parseInt(c.KafkaRetryAttempts, 5)
}

func (c *Config) RetryDelay() time.Duration {
	return time.Duration(parseInt(c.KafkaRetryDelaySeconds, 5)) * time.Second
}

// Validate reports settings that make the service unable to take payments.
func (c *Config) Validate() error {
	if c.MidtransServerKey == "" {
		return fmt.Errorf("MIDTRANS_SERVER_KEY is required")
	}
	if c.EventDriven() && len(c.Brokers()) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENT_DRIVEN_ENABLED=true")
	}
	return nil
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseBool(value string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
