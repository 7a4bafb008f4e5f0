package config

import (
	"os"
	"strconv"
	"strings"
)

// Store drivers.
const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Firebase  FirebaseConfig
	Session   SessionConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Seed      SeedConfig
	Telemetry TelemetryConfig
	Relay     RelayConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StoreConfig struct {
	Driver     string // memory, sqlite or firestore
	SQLitePath string
}

type FirebaseConfig struct {
	ProjectID         string
	CredentialsPath   string
	FirestoreDatabase string
}

type SessionConfig struct {
	MaxAge int // seconds (default: 3600 = 1 hour)
}

type JWTConfig struct {
	SigningKey string // Secret key for session token signing
	Issuer     string // Token issuer claim
}

type RedisConfig struct {
	URL string // empty keeps logout revocations in memory
}

type KafkaConfig struct {
	Brokers     []string // empty disables the notification mirror
	NotifyTopic string
	DLQTopic    string // relay dead letters
	GroupID     string // relay consumer group
}

type SeedConfig struct {
	Demo bool
	Path string // optional fixture file overriding the embedded demo data
}

type TelemetryConfig struct {
	ServiceName string
}

// RelayConfig configures cmd/notify-relay.
type RelayConfig struct {
	WebhookURL   string // empty logs deliveries instead of posting them
	WebhookToken string // optional bearer token for the webhook
}

// Load returns application configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			SQLitePath: getEnv("SQLITE_PATH", "foodshare.db"),
		},
		Firebase: FirebaseConfig{
			ProjectID:         getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath:   getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			FirestoreDatabase: getEnv("FIRESTORE_DATABASE", "(default)"),
		},
		Session: SessionConfig{
			MaxAge: getEnvInt("SESSION_MAX_AGE", 3600), // 1 hour
		},
		JWT: JWTConfig{
			SigningKey: getEnv("JWT_SIGNING_KEY", ""),
			Issuer:     getEnv("JWT_ISSUER", "foodshare"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvList("KAFKA_BROKERS"),
			NotifyTopic: getEnv("KAFKA_NOTIFY_TOPIC", "foodshare-notifications"),
			DLQTopic:    getEnv("KAFKA_DLQ_TOPIC", "foodshare-notifications-dlq"),
			GroupID:     getEnv("KAFKA_GROUP_ID", "foodshare-notify-relay"),
		},
		Seed: SeedConfig{
			Demo: getEnvBool("SEED_DEMO", true),
			Path: getEnv("SEED_PATH", ""),
		},
		Telemetry: TelemetryConfig{
			ServiceName: getEnv("OTEL_SERVICE_NAME", "foodshare"),
		},
		Relay: RelayConfig{
			WebhookURL:   getEnv("RELAY_WEBHOOK_URL", ""),
			WebhookToken: getEnv("RELAY_WEBHOOK_TOKEN", ""),
		},
	}
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolVal, err := strconv.ParseBool(value)
		if err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
