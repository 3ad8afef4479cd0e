package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MedadSettings carries the external ERP bridge endpoint, credentials and the
// fixed subscription identifiers stamped onto every synced payload.
type MedadSettings struct {
	BaseURL        string
	Username       string
	Password       string
	SubscriptionID string
	BranchID       string
	FiscalYear     string
	PaymentType    string
	Version        string
	RequestTimeout time.Duration
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	DBMaxConns    int32
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	Medad MedadSettings

	NotifyWebhookURL string

	// CORSAllowedOrigins lists the SPA origins allowed to call the API.
	// Empty means no explicit allow-list was configured.
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "opsflow-backend")
	viper.SetDefault("MEDAD_BASE_URL", "")
	viper.SetDefault("MEDAD_USERNAME", "")
	viper.SetDefault("MEDAD_PASSWORD", "")
	viper.SetDefault("MEDAD_SUBSCRIPTION_ID", "")
	viper.SetDefault("MEDAD_BRANCH_ID", "")
	viper.SetDefault("MEDAD_FISCAL_YEAR", "")
	viper.SetDefault("MEDAD_PAYMENT_TYPE", "cash")
	viper.SetDefault("MEDAD_VERSION", "1")
	viper.SetDefault("MEDAD_REQUEST_TIMEOUT", "10s")
	viper.SetDefault("NOTIFY_WEBHOOK_URL", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	medadTimeoutStr := viper.GetString("MEDAD_REQUEST_TIMEOUT")
	medadTimeout, err := time.ParseDuration(medadTimeoutStr)
	if err != nil {
		medadTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for MEDAD_REQUEST_TIMEOUT ('%s'). Defaulting to %s.\n", medadTimeoutStr, medadTimeout)
	}

	cfg.Medad = MedadSettings{
		BaseURL:        viper.GetString("MEDAD_BASE_URL"),
		Username:       viper.GetString("MEDAD_USERNAME"),
		Password:       viper.GetString("MEDAD_PASSWORD"),
		SubscriptionID: viper.GetString("MEDAD_SUBSCRIPTION_ID"),
		BranchID:       viper.GetString("MEDAD_BRANCH_ID"),
		FiscalYear:     viper.GetString("MEDAD_FISCAL_YEAR"),
		PaymentType:    viper.GetString("MEDAD_PAYMENT_TYPE"),
		Version:        viper.GetString("MEDAD_VERSION"),
		RequestTimeout: medadTimeout,
	}
	if cfg.Medad.BaseURL == "" {
		log.Println("Warning: MEDAD_BASE_URL not set. Medad sync will fail until configured.")
	}

	cfg.NotifyWebhookURL = viper.GetString("NOTIFY_WEBHOOK_URL")

	cfg.CORSAllowedOrigins = splitAndTrim(viper.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		log.Println("Warning: CORS_ALLOWED_ORIGINS not set. Allowing all origins without credentials.")
	}

	return cfg, nil
}

// splitAndTrim turns a comma-separated env value into a clean slice,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
