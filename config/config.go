package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string
	Port   string

	MongoURI      string
	MongoDatabase string

	JWTSecret     string
	SessionSecret string

	SendGridAPIKey string
	EmailSender    string
	BaseURL        string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// SellerEmails get the seller role when they register
	SellerEmails []string

	Currency       string
	RequestTimeout time.Duration
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found, using process environment")
	}

	cfg := Config{
		AppEnv: getenv("APP_ENV", "production"),
		Port:   getenv("PORT", "8000"),

		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "ecommerce"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailSender:    getenv("EMAIL_SENDER", "no-reply@quickcart.local"),
		BaseURL:        getenv("APP_BASE_URL", "http://localhost:8000"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		Currency:       getenv("CURRENCY", "USD"),
		RequestTimeout: 5 * time.Second,
	}

	for _, email := range strings.Split(os.Getenv("SELLER_EMAILS"), ",") {
		if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
			cfg.SellerEmails = append(cfg.SellerEmails, email)
		}
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			zap.L().Warn("invalid REQUEST_TIMEOUT, keeping default", zap.String("value", v), zap.Error(err))
		} else {
			cfg.RequestTimeout = d
		}
	}

	return cfg
}

func (c Config) Development() bool {
	return c.AppEnv == "development"
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
