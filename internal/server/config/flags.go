package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/studiosite/internal/flagx"
)

// flagNames are the flags owned by the server config. Tools that embed the
// config (cmd/setpassword) define their own flags next to these.
var flagNames = []string{
	"a", "g", "d", "s", "t", "l", "dev",
	"upload-backend", "upload-dir", "upload-url", "max-image", "max-video",
	"s3-bucket", "s3-region", "s3-endpoint", "s3-public-url",
	"rate-limit",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            HTTP bind address (e.g. ":3000")
//	-g string            gRPC health bind address; empty disables
//	-d string            PostgreSQL DSN
//	-s string            token signing secret
//	-t duration          session token lifetime (e.g. "12h")
//	-l string            log level
//	-dev                 development mode (relaxed security headers)
//	-upload-backend      "local" or "s3"
//	-upload-dir          local upload directory
//	-upload-url          public URL prefix of local uploads
//	-max-image int       image ceiling in bytes
//	-max-video int       video ceiling in bytes
//	-s3-bucket, -s3-region, -s3-endpoint, -s3-public-url
//	-rate-limit string   limiter rate for login and contact (e.g. "30-M")
//
// Only the flags above are read from args; anything else is left for other
// flag sets.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP bind address")
	fs.StringVar(&cfg.HealthAddrGRPC, "g", cfg.HealthAddrGRPC, "gRPC health bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token signing secret")
	fs.DurationVar(&cfg.TokenLifetime, "t", cfg.TokenLifetime, "session token lifetime")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Development, "dev", cfg.Development, "development mode")

	fs.StringVar(&cfg.UploadBackend, "upload-backend", cfg.UploadBackend, "upload backend (local|s3)")
	fs.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "local upload directory")
	fs.StringVar(&cfg.UploadPublicURL, "upload-url", cfg.UploadPublicURL, "public URL prefix of local uploads")
	fs.Int64Var(&cfg.MaxImageSize, "max-image", cfg.MaxImageSize, "image upload ceiling in bytes")
	fs.Int64Var(&cfg.MaxVideoSize, "max-video", cfg.MaxVideoSize, "video upload ceiling in bytes")

	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3PublicURL, "s3-public-url", cfg.S3PublicURL, "public URL prefix of S3 objects")

	fs.StringVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "rate limit for public routes")

	return fs.Parse(flagx.FilterArgs(args, flagNames))
}
