package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Auth configuration
	Auth AuthConfig `json:"auth"`

	// Feed configuration
	Feed FeedConfig `json:"feed"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// CORS configuration
	CORS CORSConfig `json:"cors"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig holds SQLite-related configuration
type DatabaseConfig struct {
	Path        string        `json:"path"`
	BusyTimeout time.Duration `json:"busy_timeout"`
	MaxConns    int           `json:"max_conns"`
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecretKey  string        `json:"jwt_secret_key"`
	JWTIssuer     string        `json:"jwt_issuer"`
	TokenDuration time.Duration `json:"token_duration"`
	DeviceID      string        `json:"device_id"`
	Admin         AdminConfig   `json:"admin"`
}

// AdminConfig holds the default operator seeded on first boot
type AdminConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FeedConfig holds live-feed configuration
type FeedConfig struct {
	PollInterval time.Duration `json:"poll_interval"`
	WindowSize   int           `json:"window_size"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // json or text
	Output       string `json:"output"` // stdout or stderr
	EnableCaller bool   `json:"enable_caller"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// MQTTConfig holds MQTT-related configuration for the bridge service
type MQTTConfig struct {
	BrokerHost  string        `json:"broker_host"`
	BrokerPort  int           `json:"broker_port"`
	BrokerUser  string        `json:"broker_user"`
	BrokerPass  string        `json:"broker_pass"`
	UseTLS      bool          `json:"use_tls"`
	CACertPath  string        `json:"ca_cert_path"`
	Topic       string        `json:"topic"`
	ClientID    string        `json:"client_id"`
	SharedGroup string        `json:"shared_group"`
	KeepAlive   time.Duration `json:"keep_alive"`
	PingTimeout time.Duration `json:"ping_timeout"`
}

// BridgeConfig holds configuration for the MQTT bridge service
type BridgeConfig struct {
	MQTT          MQTTConfig    `json:"mqtt"`
	Logging       LoggingConfig `json:"logging"`
	ApiServiceURL string        `json:"api_service_url"`
	DeviceToken   string        `json:"device_token"`
	BatchSize     int           `json:"batch_size"`
	BatchWindow   time.Duration `json:"batch_window"`
}

// Load loads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	if err := godotenv.Load(); err != nil {
		// Environment variables set directly still apply
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			Path:        getEnv("SQLITE_PATH", "sensor.db"),
			BusyTimeout: getDuration("SQLITE_BUSY_TIMEOUT", 30*time.Second),
			MaxConns:    getInt("SQLITE_MAX_CONNS", 10),
		},
		Auth: AuthConfig{
			JWTSecretKey:  getEnv("JWT_SECRET_KEY", "change-this-secret-in-production"),
			JWTIssuer:     getEnv("JWT_ISSUER", "fld-telemetry-server"),
			TokenDuration: getDuration("JWT_TOKEN_DURATION", 365*24*time.Hour),
			DeviceID:      getEnv("DEVICE_IDENTITY", "field-device"),
			Admin: AdminConfig{
				Username: getEnv("ADMIN_USERNAME", "admin"),
				Password: getEnv("ADMIN_PASSWORD", "adminpassword123"),
			},
		},
		Feed: FeedConfig{
			PollInterval: getDuration("FEED_POLL_INTERVAL", 1*time.Second),
			WindowSize:   getInt("FEED_WINDOW_SIZE", 50),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			ExposedHeaders:   getStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getInt("CORS_MAX_AGE", 43200), // 12 hours
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadBridgeConfig loads configuration for the MQTT bridge service
func LoadBridgeConfig() (*BridgeConfig, error) {
	if err := godotenv.Load(); err != nil {
		// Environment variables set directly still apply
	}

	config := &BridgeConfig{
		MQTT: MQTTConfig{
			BrokerHost:  getEnv("BROKER_HOST", "localhost"),
			BrokerPort:  getInt("BROKER_PORT", 1883),
			BrokerUser:  getEnv("BROKER_USER", ""),
			BrokerPass:  getEnv("BROKER_PASS", ""),
			UseTLS:      getBool("BROKER_TLS", false),
			CACertPath:  getEnv("BROKER_CA_FILE", ""),
			Topic:       getEnv("MQTT_TOPIC", "machines/+/readings"),
			ClientID:    getEnv("MQTT_CLIENT_ID", "fld-mqtt-bridge"),
			SharedGroup: getEnv("MQTT_SHARED_GROUP", ""),
			KeepAlive:   getDuration("MQTT_KEEP_ALIVE", 30*time.Second),
			PingTimeout: getDuration("MQTT_PING_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		ApiServiceURL: getEnv("API_SERVICE_URL", "http://localhost:8080"),
		DeviceToken:   getRequiredEnv("DEVICE_TOKEN"),
		BatchSize:     getInt("BATCH_SIZE", 200),
		BatchWindow:   getDuration("BATCH_WINDOW", 1*time.Second),
	}

	if config.ApiServiceURL == "" {
		return nil, fmt.Errorf("API_SERVICE_URL is required")
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("SQLITE_PATH is required")
	}
	if c.Auth.JWTSecretKey == "change-this-secret-in-production" {
		log.Println("WARNING: Using default JWT secret key. Change JWT_SECRET_KEY in production!")
	}
	if c.Feed.WindowSize <= 0 {
		return fmt.Errorf("feed window size must be positive")
	}
	if c.Feed.PollInterval <= 0 {
		return fmt.Errorf("feed poll interval must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the SQLite connection string with the durability and
// contention pragmas applied on every new connection.
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(on)",
		c.Database.Path, c.Database.BusyTimeout.Milliseconds())
}

// GetMQTTBrokerURL returns the MQTT broker URL
func (c *BridgeConfig) GetMQTTBrokerURL() string {
	scheme := "tcp"
	if c.MQTT.UseTLS {
		scheme = "tcps"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.MQTT.BrokerHost, c.MQTT.BrokerPort)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("missing required environment variable: %s", key)
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return intValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if value == "1" || value == "true" || value == "TRUE" {
		return true
	}
	if value == "0" || value == "false" || value == "FALSE" {
		return false
	}
	log.Fatalf("invalid %s: %q (expected true/false or 1/0)", key, value)
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return duration
}

func getStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
