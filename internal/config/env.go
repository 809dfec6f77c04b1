package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Env captures all tunable parameters for the API process. Values are loaded
// from environment variables with defaults so the binary runs locally
// without excessive setup.
type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string
	TokenTTL  time.Duration

	UploadDir string

	MaxLoginAttempts int
	LockDuration     time.Duration
}

func defaultEnv() Env {
	return Env{
		AppAddr:          ":8080",
		DBUser:           "root",
		DBHost:           "127.0.0.1:3306",
		DBName:           "bus_management",
		JWTSecret:        "your-secret-key",
		TokenTTL:         7 * 24 * time.Hour,
		UploadDir:        "uploads/drivers",
		MaxLoginAttempts: 5,
		LockDuration:     2 * time.Hour,
	}
}

// LoadEnv reads configuration, sourcing a local .env file first when present.
func LoadEnv() Env {
	_ = godotenv.Load()

	env := defaultEnv()

	setString(&env.AppAddr, "APP_ADDR")
	setString(&env.GinMode, "GIN_MODE")
	setString(&env.DBUser, "DB_USER")
	setString(&env.DBPass, "DB_PASS")
	setString(&env.DBHost, "DB_HOST")
	setString(&env.DBName, "DB_NAME")
	setString(&env.JWTSecret, "JWT_SECRET")
	setString(&env.UploadDir, "UPLOAD_DIR")
	setInt(&env.MaxLoginAttempts, "MAX_LOGIN_ATTEMPTS")
	setDuration(&env.TokenTTL, "TOKEN_TTL")
	setDuration(&env.LockDuration, "LOCK_DURATION")

	return env
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}
}
