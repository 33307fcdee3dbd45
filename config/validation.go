package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Validate validates the configuration
func Validate(cfg Config) error {
	if err := validateApp(cfg.App()); err != nil {
		return fmt.Errorf("app config validation failed: %w", err)
	}

	if err := validateServer(cfg.Server()); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateDatabase(cfg.Database()); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}

	if cfg.Cache().Provider() == "redis" {
		if err := validateRedis(cfg.Redis()); err != nil {
			return fmt.Errorf("redis config validation failed: %w", err)
		}
	}

	if err := validateCache(cfg.Cache()); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := validateLogger(cfg.Logger()); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := validateEmail(cfg.Email()); err != nil {
		return fmt.Errorf("email config validation failed: %w", err)
	}

	if err := validateUpload(cfg.Upload()); err != nil {
		return fmt.Errorf("upload config validation failed: %w", err)
	}

	if err := validateDraft(cfg.Draft()); err != nil {
		return fmt.Errorf("draft config validation failed: %w", err)
	}

	if err := validateSeed(cfg.Seed()); err != nil {
		return fmt.Errorf("seed config validation failed: %w", err)
	}
	return nil
}

func validateApp(cfg AppConfig) error {
	if cfg.Environment() == "" {
		return fmt.Errorf("environment variable is required, please set ENV env variable")
	}

	switch cfg.Environment() {
	case LocalEnv, DevelopmentEnv, ProductionEnv:
	default:
		return fmt.Errorf("ENV=%s is invalid, only accept `%s`, `%s`, `%s`", cfg.Environment(), LocalEnv, DevelopmentEnv, ProductionEnv)
	}

	if cfg.TokenIssuer() == "" {
		return fmt.Errorf("token_issuer is required")
	}

	if cfg.AccessTokenExpiresIn() <= 0 {
		return fmt.Errorf("access_token_expires_in must be positive")
	}

	if cfg.RefreshTokenExpiresIn() <= 0 {
		return fmt.Errorf("refresh_token_expires_in must be positive")
	}

	if cfg.UserSessionLimitEnabled() && cfg.SessionLimitPerUser() <= 0 {
		return fmt.Errorf("session_limit_per_user must be positive")
	}

	if cfg.AccessTokenExpiresIn() >= cfg.RefreshTokenExpiresIn() {
		return fmt.Errorf("access_token_expires_in must be less than refresh_token_expires_in")
	}

	if cfg.AccessTokenSecret() == "" {
		return fmt.Errorf("access token secret is required, please set ACCESS_TOKEN_SECRET env variable")
	}

	if cfg.RefreshTokenSecret() == "" {
		return fmt.Errorf("refresh token secret is required, please set REFRESH_TOKEN_SECRET env variable")
	}

	if cfg.ConfirmationURL() != "" && !strings.HasPrefix(cfg.ConfirmationURL(), "http") {
		return fmt.Errorf("confirmation_url must start with http:// or https://")
	}

	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Host() != "0.0.0.0" && cfg.Host() != "localhost" {
		if net.ParseIP(cfg.Host()) == nil {
			return fmt.Errorf("host must be a valid IP address or 'localhost'")
		}
	}

	if cfg.Port() <= 0 || cfg.Port() > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if cfg.ReadTimeout() <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if cfg.WriteTimeout() <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	if cfg.Domain() != "" && !strings.HasPrefix(cfg.Domain(), "http") {
		return fmt.Errorf("domain must start with http:// or https://")
	}

	if cfg.RateLimitPerMinute() <= 0 || cfg.AuthRateLimitPerMinute() <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	switch cfg.Driver() {
	case "sqlite":
		if cfg.SQLitePath() == "" {
			return fmt.Errorf("sqlite_path is required when driver is 'sqlite'")
		}
	case "postgres":
		if err := validatePostgres(cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("database driver must be 'postgres' or 'sqlite'")
	}

	if cfg.MaxOpenConns() <= 0 {
		return fmt.Errorf("max_open_conns must be positive")
	}

	if cfg.MaxIdleConns() <= 0 {
		return fmt.Errorf("max_idle_conns must be positive")
	}

	if cfg.MaxIdleConns() > cfg.MaxOpenConns() {
		return fmt.Errorf("max_idle_conns cannot be greater than max_open_conns")
	}

	if cfg.ConnMaxLifetime() <= 0 {
		return fmt.Errorf("conn_max_lifetime must be positive")
	}

	if cfg.EnableLog() {
		validLogLevels := []string{"silent", "error", "warn", "info"}
		if !lo.Contains(validLogLevels, cfg.LogLevel()) {
			return fmt.Errorf("database log_level must be one of: %s", strings.Join(validLogLevels, ", "))
		}
	}

	return nil
}

func validatePostgres(cfg DatabaseConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("database host is required")
	}

	if port, err := strconv.Atoi(cfg.Port()); err != nil {
		return fmt.Errorf("database port must be numeric: %w", err)
	} else if port <= 0 || port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535")
	}

	if cfg.User() == "" {
		return fmt.Errorf("database user is required")
	}

	if cfg.Password() == "" {
		return fmt.Errorf("database password is required")
	}

	if cfg.Name() == "" {
		return fmt.Errorf("database name is required")
	}

	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !lo.Contains(validSSLModes, cfg.SSLMode()) {
		return fmt.Errorf("ssl_mode must be one of: %s", strings.Join(validSSLModes, ", "))
	}
	return nil
}

func validateRedis(cfg RedisConfig) error {
	if cfg.Host() == "" {
		return fmt.Errorf("redis host is required")
	}

	if cfg.Port() <= 0 || cfg.Port() > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	if cfg.DB() < 0 || cfg.DB() > 15 {
		return fmt.Errorf("redis db must be between 0 and 15")
	}

	return nil
}

func validateCache(cfg CacheConfig) error {
	validProviders := []string{"redis", "memory"}
	if !lo.Contains(validProviders, cfg.Provider()) {
		return fmt.Errorf("cache provider must be one of: %s", strings.Join(validProviders, ", "))
	}

	if cfg.DefaultTTL() <= 0 {
		return fmt.Errorf("default_ttl must be positive")
	}

	if cfg.CategoryTTL() <= 0 {
		return fmt.Errorf("category_ttl must be positive")
	}

	return nil
}

func validateLogger(cfg LoggerConfig) error {
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !lo.Contains(validLevels, cfg.LogLevel()) {
		return fmt.Errorf("log_level must be one of: %s", strings.Join(validLevels, ", "))
	}

	if cfg.Format() != "json" && cfg.Format() != "console" {
		return fmt.Errorf("format must be 'json' or 'console'")
	}

	switch cfg.Output() {
	case "stdout", "stderr":
		return nil
	case "file":
	default:
		return fmt.Errorf("output must be one of: stdout, stderr, file")
	}

	if cfg.LogFilePath() == "" {
		return fmt.Errorf("log_file_path is required")
	}

	if err := os.MkdirAll(cfg.LogFilePath(), 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}

	if cfg.LogFileName() == "" {
		return fmt.Errorf("log_file_name is required")
	}

	if cfg.MaxFileSizeMB() <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}

	if cfg.MaxFileAgeDays() <= 0 {
		return fmt.Errorf("max_file_age_days must be positive")
	}

	if cfg.MaxBackupFiles() <= 0 {
		return fmt.Errorf("max_backup_files must be positive")
	}

	return nil
}

func validateEmail(cfg EmailConfig) error {
	switch cfg.Provider() {
	case "mock":
	case "ses":
		if cfg.SESRegion() == "" {
			return fmt.Errorf("ses_region is required when provider is 'ses'")
		}
	case "sendgrid":
		if cfg.SendGridAPIKey() == "" {
			return fmt.Errorf("sendgrid api key is required, please set SENDGRID_API_KEY env variable")
		}
	default:
		return fmt.Errorf("email provider must be one of: ses, sendgrid, mock")
	}

	if cfg.DefaultFrom() == "" {
		return fmt.Errorf("default_from is required")
	}

	if cfg.MaxRetries() < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}

	return nil
}

func validateUpload(cfg UploadConfig) error {
	provider := cfg.Provider()
	if provider != "s3" && provider != "local" {
		return fmt.Errorf("upload provider must be 's3' or 'local'")
	}

	if cfg.MaxFileSizeMB() <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}

	if provider == "local" {
		if cfg.LocalDir() == "" {
			return fmt.Errorf("local_dir is required when provider is 'local'")
		}

		if err := os.MkdirAll(cfg.LocalDir(), 0755); err != nil {
			return fmt.Errorf("cannot create local upload directory: %w", err)
		}
	}

	if provider == "s3" {
		if cfg.S3BucketName() == "" {
			return fmt.Errorf("s3_bucket_name is required when provider is 's3'")
		}
		if cfg.S3Region() == "" {
			return fmt.Errorf("s3_region is required when provider is 's3'")
		}
		if cfg.S3AccessKey() == "" {
			return fmt.Errorf("s3 access key id is required when provider is 's3'")
		}
		if cfg.S3SecretKey() == "" {
			return fmt.Errorf("s3 secret access key is required when provider is 's3'")
		}
		if cfg.S3EndpointURL() != "" && !strings.HasPrefix(cfg.S3EndpointURL(), "http") {
			return fmt.Errorf("s3 endpoint_url must start with http:// or https://")
		}
	}

	return nil
}

func validateDraft(cfg DraftConfig) error {
	if cfg.TTL() <= 0 {
		return fmt.Errorf("draft ttl must be positive")
	}
	if cfg.LockTTL() <= 0 || cfg.SubmitLockTTL() <= 0 {
		return fmt.Errorf("draft lock ttls must be positive")
	}
	if cfg.LockTTL() >= cfg.TTL() {
		return fmt.Errorf("lock_ttl must be shorter than the draft ttl")
	}
	return nil
}

func validateSeed(cfg SeedConfig) error {
	if (cfg.SuperAdminEmail() == "") != (cfg.SuperAdminPassword() == "") {
		return fmt.Errorf("SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD must be set together")
	}
	if cfg.SuperAdminPassword() != "" && len(cfg.SuperAdminPassword()) < 8 {
		return fmt.Errorf("super admin password must be at least 8 characters")
	}
	return nil
}
