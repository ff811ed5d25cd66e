package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "vn", cfg.Payment.VNPay.Locale)
	assert.Equal(t, "other", cfg.Payment.VNPay.OrderType)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Payment.VNPay.Timezone)
	assert.Equal(t, 5*time.Second, cfg.Cart.LockTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.UnpaidOrderTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CART_LOCK_TIMEOUT", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 250*time.Millisecond, cfg.Cart.LockTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ProductionRequiresGatewaySecrets(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("VNP_TMN_CODE", "")
	t.Setenv("VNP_HASH_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("VNP_TMN_CODE", "DEMO0001")
	t.Setenv("VNP_HASH_SECRET", "secret")
	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "DEMO0001", cfg.Payment.VNPay.TmnCode)
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, []string{}, parseSlice(""))
	assert.Equal(t, 30*time.Second, parseDuration("bogus", 30*time.Second))

	t.Setenv("SOME_INT", "x")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
	t.Setenv("SOME_BOOL", "nope")
	assert.True(t, getEnvBool("SOME_BOOL", true))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", c.DSN())
}
