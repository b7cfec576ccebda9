package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Port string
}

type SecurityConfig struct {
	JWTSecret       string
	JWTPublicKeyPEM string
}

type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
}

type WebsocketConfig struct {
	SendBuffer  int
	SnapshotTTL time.Duration
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type Config struct {
	Server    ServerConfig
	Security  SecurityConfig
	REST      RESTConfig
	Kafka     KafkaConfig
	Websocket WebsocketConfig
	Logging   LoggingConfig
}

// Load reads the environment into a Config, applying defaults where unset.
// The JWT secret is the only hard requirement.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envOr("PORT", "8080"),
		},
		Security: SecurityConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			JWTPublicKeyPEM: os.Getenv("JWT_PUBLIC_KEY"),
		},
		REST: RESTConfig{
			BaseURL: envOr("REST_BASE_URL", "http://localhost:3000"),
			Timeout: envDuration("REST_TIMEOUT", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			GroupID: envOr("KAFKA_GROUP_ID", "parkeo-ws"),
		},
		Websocket: WebsocketConfig{
			SendBuffer:  envInt("WS_SEND_BUFFER", 16),
			SnapshotTTL: envDuration("WS_SNAPSHOT_TTL", 5*time.Second),
		},
		Logging: LoggingConfig{
			Directory: envOr("LOG_DIR", "./logs"),
			Level:     envOr("LOG_LEVEL", "info"),
			Format:    envOr("LOG_FORMAT", "text"),
		},
	}

	if cfg.Security.JWTSecret == "" && cfg.Security.JWTPublicKeyPEM == "" {
		return nil, fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY must be set")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
