package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	"github.com/DanielPopoola/skybook-gateway/internal/domain"
)

const envPrefix = "BOOKING_"

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Amadeus  AmadeusConfig  `koanf:"amadeus"`
	Retry    RetryConfig    `koanf:"retry"`
	Logger   LoggerConfig   `koanf:"logger"`
	Ticket   TicketConfig   `koanf:"ticket"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Warmer   WarmerConfig   `koanf:"warmer"`
	Policy   PolicyConfig   `koanf:"policy"`
	Search   SearchConfig   `koanf:"search"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// AmadeusConfig points at the flight inventory API.
type AmadeusConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	ClientID       string        `koanf:"client_id" validate:"required"`
	ClientSecret   string        `koanf:"client_secret" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

// RetryConfig applies to idempotent inventory reads only.
type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries" validate:"min=1"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

type TicketConfig struct {
	OutputDir string `koanf:"output_dir" validate:"required"`
}

// KafkaConfig leaves event publishing off when Brokers is empty.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic" validate:"required"`
}

type WarmerConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval" validate:"required"`
	Airports []string      `koanf:"airports"`
}

// SearchConfig fixes the currency and default page size of flight searches.
type SearchConfig struct {
	CurrencyCode string `koanf:"currency_code" validate:"required,len=3"`
	MaxOffers    int    `koanf:"max_offers" validate:"min=1,max=250"`
}

type PolicyConfig struct {
	CountryCallingCode      string `koanf:"country_calling_code"`
	PassportNumber          string `koanf:"passport_number"`
	PassportExpiry          string `koanf:"passport_expiry"`
	PassportIssuanceCountry string `koanf:"passport_issuance_country"`
	Nationality             string `koanf:"nationality"`
}

// SandboxDefaults merges configured overrides with the built-in placeholders.
func (p PolicyConfig) SandboxDefaults() domain.SandboxDefaults {
	return domain.SandboxDefaults{
		CountryCallingCode:      p.CountryCallingCode,
		PassportNumber:          p.PassportNumber,
		PassportExpiry:          p.PassportExpiry,
		PassportIssuanceCountry: p.PassportIssuanceCountry,
		Nationality:             p.Nationality,
	}.WithFallbacks()
}

func defaults() map[string]any {
	return map[string]any{
		"primary.env":                 "development",
		"server.port":                 "8080",
		"server.read_timeout":         "15s",
		"server.write_timeout":        "60s",
		"server.idle_timeout":         "60s",
		"server.request_timeout":      "45s",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     2,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "10m",
		"amadeus.base_url":            "https://test.api.amadeus.com",
		"amadeus.request_timeout":     "20s",
		"retry.base_delay":            "500ms",
		"retry.max_retries":           3,
		"logger.level":                "info",
		"logger.format":               "text",
		"ticket.output_dir":           "tickets",
		"kafka.topic":                 "flight-orders.confirmed",
		"warmer.interval":             "6h",
		"search.currency_code":        "INR",
		"search.max_offers":           20,
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load config defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(key, envPrefix)),
			"__",
			".",
		)
		// Comma separated lists for brokers and warm-up airports.
		if key == "kafka.brokers" || key == "warmer.airports" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
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
