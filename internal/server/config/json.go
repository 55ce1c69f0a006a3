package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/studiosite/internal/flagx"
	"github.com/dmitrijs2005/studiosite/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Durations accept
// either "12h" strings or integer nanoseconds. Zero values leave the
// current setting untouched.
type JSONConfig struct {
	HTTPAddr       string         `json:"http_addr"`
	HealthAddrGRPC string         `json:"health_addr_grpc"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	TokenLifetime  timex.Duration `json:"token_lifetime"`
	LogLevel       string         `json:"log_level"`
	Development    *bool          `json:"development"`

	UploadBackend   string `json:"upload_backend"`
	UploadDir       string `json:"upload_dir"`
	UploadPublicURL string `json:"upload_public_url"`
	MaxImageSize    int64  `json:"max_image_size"`
	MaxVideoSize    int64  `json:"max_video_size"`

	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3PublicURL    string `json:"s3_public_url"`

	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`

	RateLimit   string   `json:"rate_limit"`
	CORSOrigins []string `json:"cors_origins"`
}

// parseJSON overlays the file named by -c/-config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var c JSONConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	c.apply(cfg)
	return nil
}

func (c *JSONConfig) apply(cfg *Config) {
	setString(&cfg.HTTPAddr, c.HTTPAddr)
	setString(&cfg.HealthAddrGRPC, c.HealthAddrGRPC)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	if c.TokenLifetime.Duration != 0 {
		cfg.TokenLifetime = c.TokenLifetime.Duration
	}
	setString(&cfg.LogLevel, c.LogLevel)
	if c.Development != nil {
		cfg.Development = *c.Development
	}

	setString(&cfg.UploadBackend, c.UploadBackend)
	setString(&cfg.UploadDir, c.UploadDir)
	setString(&cfg.UploadPublicURL, c.UploadPublicURL)
	if c.MaxImageSize != 0 {
		cfg.MaxImageSize = c.MaxImageSize
	}
	if c.MaxVideoSize != 0 {
		cfg.MaxVideoSize = c.MaxVideoSize
	}

	setString(&cfg.S3AccessKey, c.S3AccessKey)
	setString(&cfg.S3SecretKey, c.S3SecretKey)
	setString(&cfg.S3Bucket, c.S3Bucket)
	setString(&cfg.S3Region, c.S3Region)
	setString(&cfg.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&cfg.S3PublicURL, c.S3PublicURL)

	setString(&cfg.AdminUsername, c.AdminUsername)
	setString(&cfg.AdminPassword, c.AdminPassword)

	setString(&cfg.RateLimit, c.RateLimit)
	if len(c.CORSOrigins) > 0 {
		cfg.CORSOrigins = c.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
