package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Persistence
	StorageBackend string
	DataDir        string
	SQLitePath     string
	DatabaseURL    string
	SnowflakeNode  int64

	// Session tokens
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Intake
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	IntakeTimeout    time.Duration
	IntakeSessionTTL time.Duration
	IntakeRateLimit  string

	// Billing
	DefaultHourlyRate decimal.Decimal
	LawyerRates       map[string]decimal.Decimal

	// External services
	GoogleCalendarID      string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	CalendarTimezone      string
	PosthogAPIKey         string `mapstructure:"POSTHOG_API_KEY"`
	CORSOrigins           []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_BACKEND", StorageFile)
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("SQLITE_PATH", "./data/legalos.db")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SNOWFLAKE_NODE", 1)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "sasingian-legalos")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("INTAKE_TIMEOUT", "60s")
	viper.SetDefault("INTAKE_SESSION_TTL", "30m")
	viper.SetDefault("INTAKE_RATE_LIMIT", "20-M")
	viper.SetDefault("DEFAULT_HOURLY_RATE", "350")
	viper.SetDefault("LAWYER_RATES", "")
	viper.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	viper.SetDefault("CALENDAR_TIMEZONE", "Pacific/Port_Moresby")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		StorageBackend:        strings.ToLower(viper.GetString("STORAGE_BACKEND")),
		DataDir:               viper.GetString("DATA_DIR"),
		SQLitePath:            viper.GetString("SQLITE_PATH"),
		DatabaseURL:           viper.GetString("PGSQL_URL"),
		SnowflakeNode:         viper.GetInt64("SNOWFLAKE_NODE"),
		JWTSecret:             viper.GetString("JWT_SECRET"),
		JWTIssuer:             viper.GetString("JWT_ISSUER"),
		GeminiAPIKey:          viper.GetString("GEMINI_API_KEY"),
		GeminiModel:           viper.GetString("GEMINI_MODEL"),
		IntakeRateLimit:       viper.GetString("INTAKE_RATE_LIMIT"),
		GoogleCalendarID:      viper.GetString("GOOGLE_CALENDAR_ID"),
		GoogleCredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
		CalendarTimezone:      viper.GetString("CALENDAR_TIMEZONE"),
		PosthogAPIKey:         viper.GetString("POSTHOG_API_KEY"),
		CORSOrigins:           splitList(viper.GetString("CORS_ORIGINS")),
	}

	switch cfg.StorageBackend {
	case StorageMemory, StorageFile, StorageSQLite:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORAGE_BACKEND=postgres requires PGSQL_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET is the built-in default. Set a real secret in production.")
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", 12*time.Hour)
	cfg.IntakeTimeout = durationOr("INTAKE_TIMEOUT", 60*time.Second)
	cfg.IntakeSessionTTL = durationOr("INTAKE_SESSION_TTL", 30*time.Minute)

	rate, err := decimal.NewFromString(viper.GetString("DEFAULT_HOURLY_RATE"))
	if err != nil || rate.IsNegative() {
		return nil, fmt.Errorf("invalid DEFAULT_HOURLY_RATE %q", viper.GetString("DEFAULT_HOURLY_RATE"))
	}
	cfg.DefaultHourlyRate = rate

	cfg.LawyerRates, err = ParseLawyerRates(viper.GetString("LAWYER_RATES"))
	if err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. AI intake will be unavailable; manual JSON intake still works.")
	}

	return cfg, nil
}

// ParseLawyerRates parses "Name=rate,Other Name=rate" into a rate table.
func ParseLawyerRates(raw string) (map[string]decimal.Decimal, error) {
	rates := map[string]decimal.Decimal{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid LAWYER_RATES entry %q", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("invalid rate for %q in LAWYER_RATES", name)
		}
		rates[strings.TrimSpace(name)] = rate
	}
	return rates, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

