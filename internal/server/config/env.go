package config

import (
	"strings"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that may set
// them. The first name wins when several are present. The unprefixed
// names match what older deployments of the site already export.
var envBindings = map[string][]string{
	"http_addr":         {"STUDIO_HTTP_ADDR"},
	"health_addr_grpc":  {"STUDIO_HEALTH_ADDR_GRPC"},
	"database_dsn":      {"STUDIO_DATABASE_DSN", "DATABASE_URL"},
	"secret_key":        {"STUDIO_SECRET_KEY", "JWT_SECRET"},
	"token_lifetime":    {"STUDIO_TOKEN_LIFETIME"},
	"log_level":         {"STUDIO_LOG_LEVEL"},
	"development":       {"STUDIO_DEVELOPMENT"},
	"upload_backend":    {"STUDIO_UPLOAD_BACKEND"},
	"upload_dir":        {"STUDIO_UPLOAD_DIR"},
	"upload_public_url": {"STUDIO_UPLOAD_PUBLIC_URL"},
	"max_image_size":    {"STUDIO_MAX_IMAGE_SIZE"},
	"max_video_size":    {"STUDIO_MAX_VIDEO_SIZE"},
	"s3_access_key":     {"STUDIO_S3_ACCESS_KEY"},
	"s3_secret_key":     {"STUDIO_S3_SECRET_KEY"},
	"s3_bucket":         {"STUDIO_S3_BUCKET"},
	"s3_region":         {"STUDIO_S3_REGION"},
	"s3_base_endpoint":  {"STUDIO_S3_BASE_ENDPOINT"},
	"s3_public_url":     {"STUDIO_S3_PUBLIC_URL"},
	"admin_username":    {"STUDIO_ADMIN_USERNAME"},
	"admin_password":    {"STUDIO_ADMIN_PASSWORD"},
	"rate_limit":        {"STUDIO_RATE_LIMIT"},
	"cors_origins":      {"STUDIO_CORS_ORIGINS"},
}

func newEnvReader() *viper.Viper {
	v := viper.New()
	for key, names := range envBindings {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

// parseEnv overlays every key that has an environment variable set.
func parseEnv(cfg *Config, v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("http_addr", &cfg.HTTPAddr)
	str("health_addr_grpc", &cfg.HealthAddrGRPC)
	str("database_dsn", &cfg.DatabaseDSN)
	str("secret_key", &cfg.SecretKey)
	if v.IsSet("token_lifetime") {
		cfg.TokenLifetime = v.GetDuration("token_lifetime")
	}
	str("log_level", &cfg.LogLevel)
	if v.IsSet("development") {
		cfg.Development = v.GetBool("development")
	}

	str("upload_backend", &cfg.UploadBackend)
	str("upload_dir", &cfg.UploadDir)
	str("upload_public_url", &cfg.UploadPublicURL)
	if v.IsSet("max_image_size") {
		cfg.MaxImageSize = v.GetInt64("max_image_size")
	}
	if v.IsSet("max_video_size") {
		cfg.MaxVideoSize = v.GetInt64("max_video_size")
	}

	str("s3_access_key", &cfg.S3AccessKey)
	str("s3_secret_key", &cfg.S3SecretKey)
	str("s3_bucket", &cfg.S3Bucket)
	str("s3_region", &cfg.S3Region)
	str("s3_base_endpoint", &cfg.S3BaseEndpoint)
	str("s3_public_url", &cfg.S3PublicURL)

	str("admin_username", &cfg.AdminUsername)
	str("admin_password", &cfg.AdminPassword)

	str("rate_limit", &cfg.RateLimit)
	if v.IsSet("cors_origins") {
		cfg.CORSOrigins = splitList(v.GetString("cors_origins"))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
