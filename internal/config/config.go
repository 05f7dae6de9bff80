package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the API service.
type Config struct {
	HTTP        HTTPConfig
	Store       StoreConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Idempotency IdempotencyConfig
	Telemetry   TelemetryConfig
	Service     ServiceConfig
}

type HTTPConfig struct {
	Port               int
	MetricsPath        string
	ShutdownGrace      int
	CORSAllowedOrigins []string
}

// Backend names the storage the shared list lives in.
type Backend string

const (
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
	BackendNATS     Backend = "nats"
	BackendMemory   Backend = "memory"
)

type StoreConfig struct {
	Backend Backend
	Key     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int32
	AutoMigrate    bool
	MigrationsPath string
}

type NATSConfig struct {
	URL    string
	Bucket string
}

type IdempotencyConfig struct {
	TTL time.Duration
}

type TelemetryConfig struct {
	LogLevel         string
	OTelEndpoint     string
	EnableTracing    bool
	EnableMetrics    bool
	EnablePrometheus bool
	SampleRate       float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

// ClientConfig configures the command line client.
type ClientConfig struct {
	BaseURL          string
	Timeout          time.Duration
	LogLevel         string
	DefaultLocations []string
	DefaultProducts  []string
}

const (
	defaultHTTPPort       = 8080
	defaultMetricsPath    = "/metrics"
	defaultShutdownGrace  = 15
	defaultCORSOrigins    = "*"
	defaultBackend        = BackendRedis
	defaultStoreKey       = "shared-data"
	defaultRedisAddr      = "localhost:6379"
	defaultDBMaxConns     = 10
	defaultMigrationsPath = "migrations"
	defaultAutoMigrate    = true
	defaultNATSURL        = "nats://localhost:4222"
	defaultNATSBucket     = "orders"
	defaultIdempotencyTTL = 86400
	defaultServiceName    = "shared-orders-api"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
	defaultAPIURL         = "http://localhost:8080"
	defaultClientTimeout  = 10
	defaultLocations      = "Bhuvi,VMP,Brenchwood,PIT"
	defaultProducts       = "Malai Paneer,Cream Cheese"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Load reads configuration from environment variables, applying defaults when needed.
// A .env file in the working directory is read first; variables already set win.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, fmt.Errorf("loading redis config: %w", err)
	}

	dbCfg, err := loadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("loading database config: %w", err)
	}

	idemCfg, err := loadIdempotencyConfig()
	if err != nil {
		return nil, fmt.Errorf("loading idempotency config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:     httpCfg,
		Store:    storeCfg,
		Redis:    redisCfg,
		Database: dbCfg,
		NATS: NATSConfig{
			URL:    getEnvOrDefault("NATS_URL", defaultNATSURL),
			Bucket: getEnvOrDefault("NATS_BUCKET", defaultNATSBucket),
		},
		Idempotency: idemCfg,
		Telemetry:   telCfg,
		Service:     loadServiceConfig(),
	}, nil
}

// LoadClient reads the command line client settings.
func LoadClient() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	timeout, err := getIntEnv("ORDERS_API_TIMEOUT_SECONDS", defaultClientTimeout)
	if err != nil {
		return nil, err
	}

	return &ClientConfig{
		BaseURL:          getEnvOrDefault("ORDERS_API_URL", defaultAPIURL),
		Timeout:          time.Duration(timeout) * time.Second,
		LogLevel:         getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		DefaultLocations: splitList(getEnvOrDefault("DEFAULT_LOCATIONS", defaultLocations)),
		DefaultProducts:  splitList(getEnvOrDefault("DEFAULT_PRODUCTS", defaultProducts)),
	}, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading .env: %w", err)
	}
	return nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port, err := getIntEnv("API_HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return HTTPConfig{}, err
	}

	shutdownGrace, err := getIntEnv("API_SHUTDOWN_GRACE_SECONDS", defaultShutdownGrace)
	if err != nil {
		return HTTPConfig{}, err
	}

	return HTTPConfig{
		Port:               port,
		MetricsPath:        getEnvOrDefault("API_METRICS_PATH", defaultMetricsPath),
		ShutdownGrace:      shutdownGrace,
		CORSAllowedOrigins: splitList(getEnvOrDefault("API_CORS_ALLOWED_ORIGINS", defaultCORSOrigins)),
	}, nil
}

func loadStoreConfig() (StoreConfig, error) {
	backend := Backend(strings.ToLower(getEnvOrDefault("STORE_BACKEND", string(defaultBackend))))
	switch backend {
	case BackendRedis, BackendPostgres, BackendNATS, BackendMemory:
	default:
		return StoreConfig{}, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	return StoreConfig{
		Backend: backend,
		Key:     getEnvOrDefault("STORE_KEY", defaultStoreKey),
	}, nil
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", defaultRedisAddr),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = buildDatabaseURL()
	}

	maxConns, err := getIntEnv("DB_MAX_CONNS", defaultDBMaxConns)
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		URL:            databaseURL,
		MaxConns:       int32(maxConns),
		AutoMigrate:    getBoolEnv("AUTO_MIGRATE", defaultAutoMigrate),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadIdempotencyConfig() (IdempotencyConfig, error) {
	seconds, err := getIntEnv("IDEMPOTENCY_TTL_SECONDS", defaultIdempotencyTTL)
	if err != nil {
		return IdempotencyConfig{}, err
	}
	return IdempotencyConfig{TTL: time.Duration(seconds) * time.Second}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:         getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:     getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableTracing:    getBoolEnv("OTEL_ENABLE_TRACING", true),
		EnableMetrics:    getBoolEnv("OTEL_ENABLE_METRICS", true),
		EnablePrometheus: getBoolEnv("OTEL_ENABLE_PROMETHEUS", true),
		SampleRate:       sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "orders")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, dbName, sslMode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
