package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Ticket   TicketConfig   `yaml:"ticket"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	SwaggerDir  string   `yaml:"swagger_dir" env:"HTTP_SWAGGER_DIR" env-default:"api/swagger"`
	CORSOrigins []string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-default:"*"`
}

type GRPCConfig struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS" env-default:":9090"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"airticket"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"airticket"`
	Name     string `yaml:"name" env:"POSTGRES_DB" env-default:"airticket"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	TicketEventsTopic  string   `yaml:"ticket_events_topic" env:"KAFKA_TICKET_EVENTS_TOPIC" env-default:"ticket-events"`
	NotificationsTopic string   `yaml:"notifications_topic" env:"KAFKA_NOTIFICATIONS_TOPIC" env-default:"ticket-notifications"`
	GroupID            string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"airticket-notifier"`
}

type TicketConfig struct {
	// Timezone defines the local day boundaries used by ticket search.
	Timezone                     string `yaml:"timezone" env:"TICKET_TIMEZONE" env-default:"UTC"`
	FlightsCacheTTL              int    `yaml:"flights_cache_ttl_seconds" env:"TICKET_FLIGHTS_CACHE_TTL" env-default:"60"`
	IdempotencyTTL               int    `yaml:"idempotency_ttl_seconds" env:"TICKET_IDEMPOTENCY_TTL" env-default:"86400"`
	RevalidatePassengersOnUpdate bool   `yaml:"revalidate_passengers_on_update" env:"TICKET_REVALIDATE_PASSENGERS"`
}

func (t TicketConfig) Location() (*time.Location, error) {
	if t.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", t.Timezone, err)
	}
	return loc, nil
}

func (t TicketConfig) FlightsCacheDuration() time.Duration {
	return time.Duration(t.FlightsCacheTTL) * time.Second
}

func (t TicketConfig) IdempotencyDuration() time.Duration {
	return time.Duration(t.IdempotencyTTL) * time.Second
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LoadConfig reads the YAML file at path and then applies environment
// overrides and defaults. When the file does not exist and required is
// false the configuration is built from the environment only.
func LoadConfig(path string, required bool) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config env: %w", err)
	}

	return &cfg, nil
}

// ResolvePath picks the config file from the flag value, then CONFIG_PATH,
// then config.yaml. Only the implicit default may be missing.
func ResolvePath(flagValue string) (path string, required bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env, true
	}
	return "config.yaml", false
}
