package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CURRENCY", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")

	cfg := Load()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "ecommerce", cfg.MongoDatabase)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("APP_ENV", "development")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost/cb")
	t.Setenv("SELLER_EMAILS", " Shop@Example.com, ,ops@example.com")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Development())
	assert.True(t, cfg.GoogleEnabled())
	assert.Equal(t, []string{"shop@example.com", "ops@example.com"}, cfg.SellerEmails)
}

func TestLoadBadTimeoutKeepsDefault(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, Load().RequestTimeout)
}
