package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accounts/internal/flagx"
	"github.com/dmitrijs2005/accounts/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Durations accept both "30s"
// strings and integer nanoseconds via timex.Duration. Pointer and zero
// values are treated as "not set" so a partial file keeps the defaults.
type JsonConfig struct {
	HTTPAddr       string          `json:"http_addr"`
	DatabaseDSN    string          `json:"database_dsn"`
	BcryptCost     int             `json:"bcrypt_cost"`
	StorageBackend string          `json:"storage_backend"`
	ImageDir       string          `json:"image_dir"`
	PublicBaseURL  string          `json:"public_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
	S3RootUser     string          `json:"s3_root_user"`
	S3RootPassword string          `json:"s3_root_password"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3BaseEndpoint string          `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c / -config into config. Nothing happens
// when no file was requested; an unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.ImageDir, c.ImageDir)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
