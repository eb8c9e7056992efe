package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded (if present) before the environment is read. Variables
// already set in the process environment win over the file.
var envFile = ".env"

// parseEnv overlays ACCOUNTS_* environment variables onto config. PORT is
// honoured as a shorthand for the HTTP address.
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	if v := os.Getenv("PORT"); v != "" {
		config.HTTPAddr = ":" + v
	}
	setString(&config.HTTPAddr, os.Getenv("ACCOUNTS_HTTP_ADDR"))
	setString(&config.DatabaseDSN, os.Getenv("ACCOUNTS_DATABASE_DSN"))
	if n, err := strconv.Atoi(os.Getenv("ACCOUNTS_BCRYPT_COST")); err == nil {
		config.BcryptCost = n
	}
	setString(&config.StorageBackend, os.Getenv("ACCOUNTS_STORAGE_BACKEND"))
	setString(&config.ImageDir, os.Getenv("ACCOUNTS_IMAGE_DIR"))
	setString(&config.PublicBaseURL, os.Getenv("ACCOUNTS_PUBLIC_BASE_URL"))
	if d, err := time.ParseDuration(os.Getenv("ACCOUNTS_REQUEST_TIMEOUT")); err == nil {
		config.RequestTimeout = d
	}
	setString(&config.LogLevel, os.Getenv("ACCOUNTS_LOG_LEVEL"))
	setString(&config.S3RootUser, os.Getenv("ACCOUNTS_S3_ROOT_USER"))
	setString(&config.S3RootPassword, os.Getenv("ACCOUNTS_S3_ROOT_PASSWORD"))
	setString(&config.S3Bucket, os.Getenv("ACCOUNTS_S3_BUCKET"))
	setString(&config.S3Region, os.Getenv("ACCOUNTS_S3_REGION"))
	setString(&config.S3BaseEndpoint, os.Getenv("ACCOUNTS_S3_BASE_ENDPOINT"))
}
