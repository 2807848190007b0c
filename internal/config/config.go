package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（3000）
	GoEnv string // dev/prod

	LogLevel string // debug/info/warn/error

	DB DatabaseConfig

	KafkaBrokers    []string // 空ならイベント送信しない
	KafkaOrderTopic string

	OtelEndpoint    string // 空ならトレースを送らない
	OtelServiceName string

	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver string // postgres / sqlite

	URL string // DATABASE_URL があれば最優先

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string
}

// Loadは環境変数から読む。未設定の項目はデフォルト値
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}

	shutdown, err := durationOr("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "3000"),
		GoEnv:    getenv("GO_ENV", "prod"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DB: DatabaseConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
			URL:    os.Getenv("DATABASE_URL"),

			PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
			PostgresPort:     pgPort,
			PostgresUser:     getenv("POSTGRES_USER", "postgres"),
			PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
			PostgresDB:       getenv("POSTGRES_DB", "inventory"),
			PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

			SQLitePath: getenv("SQLITE_PATH", "inventory.db"),
		},

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "order-events"),

		OtelEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelServiceName: getenv("OTEL_SERVICE_NAME", "inventory-api"),

		ShutdownTimeout: shutdown,
	}

	//必須チェック
	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q: got %q", DriverPostgres, DriverSQLite, cfg.DB.Driver)
	}
	if cfg.DB.Driver == DriverSQLite && cfg.DB.SQLitePath == "" {
		return Config{}, fmt.Errorf("SQLITE_PATH is required")
	}

	return cfg, nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

// "a:9092, b:9092" → ["a:9092", "b:9092"]
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
