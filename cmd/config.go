package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort           string   `mapstructure:"HTTP_PORT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionIssuer string        `mapstructure:"SESSION_ISSUER"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	InvoiceBucket    string `mapstructure:"INVOICE_BUCKET"`
	InvoiceEndpoint  string `mapstructure:"INVOICE_ENDPOINT"`
	InvoiceRegion    string `mapstructure:"INVOICE_REGION"`
	InvoiceAccessKey string `mapstructure:"INVOICE_ACCESS_KEY"`
	InvoiceSecretKey string `mapstructure:"INVOICE_SECRET_KEY"`
	InvoicePublicURL string `mapstructure:"INVOICE_PUBLIC_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	Timezone string `mapstructure:"TIMEZONE"`
}

var defaults = map[string]any{
	"HTTP_PORT":            "8080",
	"CORS_ALLOWED_ORIGINS": []string{},
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "",
	"DB_NAME":              "bakery",
	"DB_SSLMODE":           "disable",
	"SESSION_SECRET":       "",
	"SESSION_ISSUER":       "bakery",
	"SESSION_TTL":          12 * time.Hour,
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"INVOICE_BUCKET":       "invoices",
	"INVOICE_ENDPOINT":     "",
	"INVOICE_REGION":       "us-east-1",
	"INVOICE_ACCESS_KEY":   "",
	"INVOICE_SECRET_KEY":   "",
	"INVOICE_PUBLIC_URL":   "",
	"LOG_LEVEL":            "info",
	"TIMEZONE":             "UTC",
}

// LoadConfig reads the environment, after loading a .env file when one is
// present.
func LoadConfig() (Config, error) {
	// .env is optional outside of local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []error
	if c.SessionSecret == "" {
		problems = append(problems, errors.New("SESSION_SECRET is required"))
	}
	if c.InvoicePublicURL == "" {
		problems = append(problems, errors.New("INVOICE_PUBLIC_URL is required"))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, errors.New("SESSION_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(problems...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// Location is the business timezone that decides what "today" is.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
