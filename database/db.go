package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database selected by DB_DRIVER: "sqlite" (default, the
// single-user deployment) or "postgres".
func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using process environment")
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	var err error
	switch driver {
	case "sqlite":
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "docchain.db"
		}
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envDefault("DB_HOST", "localhost"),
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"),
			envDefault("DB_PORT", "5432"))
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		log.Fatal().Str("driver", driver).Msg("unsupported DB_DRIVER")
	}

	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("could not connect to database")
	}
	log.Info().Str("driver", driver).Msg("database connected")
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
