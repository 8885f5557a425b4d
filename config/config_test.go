package config_test

import (
	"testing"

	"parcel-delivery-api/config"

	"github.com/stretchr/testify/assert"
)

// A JWT_SECRET that only becomes visible after package init (the dotenv case:
// godotenv.Load runs inside main) must still be picked up.
func TestJWTSecret_HonorsEnvSetAfterInit(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-from-dotenv")
	assert.Equal(t, []byte("secret-from-dotenv"), config.JWTSecret())
}

func TestJWTSecret_FallbackWhenUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Equal(t, []byte("parcel_delivery_super_secret_2024"), config.JWTSecret())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")

	cfg := config.Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "parcel_delivery.db", cfg.DBPath)
}
