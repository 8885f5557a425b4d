package config

import (
	"log"
	"os"

	"parcel-delivery-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JWTSecret returns the key used to verify bearer tokens. It is read on each
// call rather than at package init, so a value supplied via .env (loaded in
// main, after init) is honored. The token issuer (external identity service)
// signs with the same secret.
func JWTSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "parcel_delivery_super_secret_2024"))
}

type Config struct {
	Port      string
	DBPath    string
	GinMode   string
	StripeKey string
}

// Load reads configuration from environment variables with local-dev fallbacks
func Load() Config {
	return Config{
		Port:      getEnv("PORT", "5000"),
		DBPath:    getEnv("DB_PATH", "parcel_delivery.db"),
		GinMode:   os.Getenv("GIN_MODE"),
		StripeKey: os.Getenv("STRIPE_API_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the sqlite database and migrates all models. The handle is
// returned (not stored globally) so handlers and tests receive it explicitly.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Parcel{},
		&models.Payment{},
		&models.RiderApplication{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("✅ Database connected and migrated successfully")
	return db, nil
}
