package config

import (
	"fmt"
	"time"
)

const (
	LocalEnv       = "local"
	DevelopmentEnv = "dev"
	ProductionEnv  = "prod"
)

type Config interface {
	App() AppConfig
	Server() ServerConfig
	Database() DatabaseConfig
	Redis() RedisConfig
	Cache() CacheConfig
	Logger() LoggerConfig
	Email() EmailConfig
	Upload() UploadConfig
	Draft() DraftConfig
	Seed() SeedConfig
}

type AppConfig interface {
	Name() string
	Version() string
	Environment() string
	IsProduction() bool
	AccessTokenExpiresIn() time.Duration
	AccessTokenSecret() string
	RefreshTokenExpiresIn() time.Duration
	RefreshTokenSecret() string
	TokenIssuer() string
	SessionLimitPerUser() int
	UserSessionLimitEnabled() bool
	ConfirmationURL() string
}

type ServerConfig interface {
	Host() string
	Domain() string
	Port() int
	ReadTimeout() time.Duration
	WriteTimeout() time.Duration
	IdleTimeout() time.Duration
	MaxHeaderBytes() int
	AllowedOrigins() []string
	RateLimitPerMinute() int
	AuthRateLimitPerMinute() int
}

type DatabaseConfig interface {
	Driver() string
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	SQLitePath() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	LogLevel() string
	EnableLog() bool
}

type RedisConfig interface {
	Host() string
	Port() int
	Address() string
	Password() string
	DB() int
	Prefix() string
}

type CacheConfig interface {
	Provider() string
	DefaultTTL() time.Duration
	CategoryTTL() time.Duration
}

type LoggerConfig interface {
	Output() string
	Format() string
	LogFilePath() string
	LogFileName() string
	LogLevel() string
	MaxFileSizeMB() int
	MaxFileAgeDays() int
	MaxBackupFiles() int
	IsCompressEnabled() bool
}

type EmailConfig interface {
	Provider() string
	DefaultFrom() string
	FromName() string
	SESRegion() string
	SESAccessKey() string
	SESSecretKey() string
	SendGridAPIKey() string
	MaxRetries() int
	RetryDelay() time.Duration
}

type UploadConfig interface {
	Provider() string
	LocalDir() string
	PublicBaseURL() string
	MaxParallel() int
	MaxFileSizeMB() int
	S3EndpointURL() string
	S3BucketName() string
	S3PathPrefix() string
	S3Region() string
	S3AccessKey() string
	S3SecretKey() string
}

type DraftConfig interface {
	TTL() time.Duration
	LockTTL() time.Duration
	SubmitLockTTL() time.Duration
}

type SeedConfig interface {
	Categories() bool
	SuperAdminEmail() string
	SuperAdminPassword() string
	SuperAdminName() string
}

// config holds the actual configuration implementation
type config struct {
	AppCfg      appConfig      `yaml:"app"`
	ServerCfg   serverConfig   `yaml:"server"`
	DatabaseCfg databaseConfig `yaml:"database"`
	RedisCfg    redisConfig    `yaml:"redis"`
	CacheCfg    cacheConfig    `yaml:"cache"`
	LoggerCfg   loggerConfig   `yaml:"logger"`
	EmailCfg    emailConfig    `yaml:"email"`
	UploadCfg   uploadConfig   `yaml:"upload"`
	DraftCfg    draftConfig    `yaml:"draft"`
	SeedCfg     seedConfig     `yaml:"seed"`
}

func (c *config) App() AppConfig           { return &c.AppCfg }
func (c *config) Server() ServerConfig     { return &c.ServerCfg }
func (c *config) Database() DatabaseConfig { return &c.DatabaseCfg }
func (c *config) Redis() RedisConfig       { return &c.RedisCfg }
func (c *config) Cache() CacheConfig       { return &c.CacheCfg }
func (c *config) Logger() LoggerConfig     { return &c.LoggerCfg }
func (c *config) Email() EmailConfig       { return &c.EmailCfg }
func (c *config) Upload() UploadConfig     { return &c.UploadCfg }
func (c *config) Draft() DraftConfig       { return &c.DraftCfg }
func (c *config) Seed() SeedConfig         { return &c.SeedCfg }

func parseDuration(s string) time.Duration {
	duration, _ := time.ParseDuration(s)
	return duration
}

type appConfig struct {
	NameStr        string `yaml:"name"`
	VersionStr     string `yaml:"version"`
	EnvironmentStr string `env:"ENV" env-default:"local"`

	TokenIssuerStr string `yaml:"token_issuer"`

	AccessTokenExpiresInStr string `yaml:"access_token_expires_in"`
	AccessTokenSecretStr    string `env:"ACCESS_TOKEN_SECRET"`

	RefreshTokenExpiresInStr string `yaml:"refresh_token_expires_in"`
	RefreshTokenSecretStr    string `env:"REFRESH_TOKEN_SECRET"`

	SessionLimitPerUserInt      int  `yaml:"session_limit_per_user"`
	UserSessionLimitEnabledBool bool `yaml:"user_session_limit_enabled"`

	// ConfirmationURLStr is the page that receives ?email=&token= from the
	// confirmation email.
	ConfirmationURLStr string `yaml:"confirmation_url" env:"CONFIRMATION_URL"`
}

func (c *appConfig) Name() string        { return c.NameStr }
func (c *appConfig) Version() string     { return c.VersionStr }
func (c *appConfig) Environment() string { return c.EnvironmentStr }
func (c *appConfig) IsProduction() bool  { return c.EnvironmentStr == ProductionEnv }

func (c *appConfig) AccessTokenExpiresIn() time.Duration {
	return parseDuration(c.AccessTokenExpiresInStr)
}

func (c *appConfig) AccessTokenSecret() string {
	return c.AccessTokenSecretStr
}

func (c *appConfig) RefreshTokenExpiresIn() time.Duration {
	return parseDuration(c.RefreshTokenExpiresInStr)
}

func (c *appConfig) RefreshTokenSecret() string {
	return c.RefreshTokenSecretStr
}

func (c *appConfig) TokenIssuer() string           { return c.TokenIssuerStr }
func (c *appConfig) SessionLimitPerUser() int      { return c.SessionLimitPerUserInt }
func (c *appConfig) UserSessionLimitEnabled() bool { return c.UserSessionLimitEnabledBool }
func (c *appConfig) ConfirmationURL() string       { return c.ConfirmationURLStr }

type serverConfig struct {
	HostStr                   string   `yaml:"host"`
	DomainStr                 string   `yaml:"domain"`
	PortInt                   int      `yaml:"port" env:"PORT"`
	ReadTimeoutStr            string   `yaml:"read_timeout"`
	WriteTimeoutStr           string   `yaml:"write_timeout"`
	IdleTimeoutStr            string   `yaml:"idle_timeout" env-default:"120s"`
	MaxHeaderBytesInt         int      `yaml:"max_header_bytes" env-default:"1048576"` // 1MB
	AllowedOriginsArr         []string `yaml:"allowed_origins"`
	RateLimitPerMinuteInt     int      `yaml:"rate_limit_per_minute" env-default:"100"`
	AuthRateLimitPerMinuteInt int      `yaml:"auth_rate_limit_per_minute" env-default:"10"`
}

func (s *serverConfig) Host() string                { return s.HostStr }
func (s *serverConfig) Domain() string              { return s.DomainStr }
func (s *serverConfig) Port() int                   { return s.PortInt }
func (s *serverConfig) ReadTimeout() time.Duration  { return parseDuration(s.ReadTimeoutStr) }
func (s *serverConfig) WriteTimeout() time.Duration { return parseDuration(s.WriteTimeoutStr) }
func (s *serverConfig) IdleTimeout() time.Duration  { return parseDuration(s.IdleTimeoutStr) }
func (s *serverConfig) AllowedOrigins() []string    { return s.AllowedOriginsArr }
func (s *serverConfig) MaxHeaderBytes() int         { return s.MaxHeaderBytesInt }
func (s *serverConfig) RateLimitPerMinute() int     { return s.RateLimitPerMinuteInt }
func (s *serverConfig) AuthRateLimitPerMinute() int { return s.AuthRateLimitPerMinuteInt }

type databaseConfig struct {
	DriverStr          string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	HostStr            string `env:"POSTGRES_HOST" env-default:"localhost"`
	PortStr            string `env:"POSTGRES_PORT" env-default:"5432"`
	UserStr            string `env:"POSTGRES_USER" env-default:"postgres"`
	PasswordStr        string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	NameStr            string `env:"POSTGRES_DBNAME" env-default:"postgres"`
	SSLModeStr         string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	SQLitePathStr      string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"campaign.db"`
	MaxOpenConnsInt    int    `yaml:"max_open_conns" env-default:"25"`
	MaxIdleConnsInt    int    `yaml:"max_idle_conns" env-default:"10"`
	ConnMaxLifetimeStr string `yaml:"conn_max_lifetime" env-default:"5m"`
	EnableLoggingBool  bool   `yaml:"enable_logging" env-default:"false"`
	LogLevelStr        string `yaml:"log_level" env-default:"warn"`
}

func (d *databaseConfig) Driver() string                 { return d.DriverStr }
func (d *databaseConfig) Host() string                   { return d.HostStr }
func (d *databaseConfig) Port() string                   { return d.PortStr }
func (d *databaseConfig) User() string                   { return d.UserStr }
func (d *databaseConfig) Password() string               { return d.PasswordStr }
func (d *databaseConfig) Name() string                   { return d.NameStr }
func (d *databaseConfig) SSLMode() string                { return d.SSLModeStr }
func (d *databaseConfig) SQLitePath() string             { return d.SQLitePathStr }
func (d *databaseConfig) MaxOpenConns() int              { return d.MaxOpenConnsInt }
func (d *databaseConfig) MaxIdleConns() int              { return d.MaxIdleConnsInt }
func (d *databaseConfig) ConnMaxLifetime() time.Duration { return parseDuration(d.ConnMaxLifetimeStr) }
func (d *databaseConfig) EnableLog() bool                { return d.EnableLoggingBool }
func (d *databaseConfig) LogLevel() string               { return d.LogLevelStr }

type redisConfig struct {
	HostStr     string `env:"REDIS_HOST" env-default:"localhost"`
	PortInt     int    `env:"REDIS_PORT" env-default:"6379"`
	PasswordStr string `env:"REDIS_PASSWORD"`
	DBInt       int    `env:"REDIS_DB" env-default:"0"`
	PrefixStr   string `yaml:"prefix"`
}

func (r *redisConfig) Host() string { return r.HostStr }
func (r *redisConfig) Port() int    { return r.PortInt }

func (r *redisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host(), r.Port())
}

func (r *redisConfig) Password() string { return r.PasswordStr }
func (r *redisConfig) DB() int          { return r.DBInt }
func (r *redisConfig) Prefix() string   { return r.PrefixStr }

type cacheConfig struct {
	ProviderStr    string `yaml:"provider" env:"CACHE_PROVIDER"`
	DefaultTTLStr  string `yaml:"default_ttl"`
	CategoryTTLStr string `yaml:"category_ttl" env-default:"10m"`
}

func (c *cacheConfig) Provider() string           { return c.ProviderStr }
func (c *cacheConfig) DefaultTTL() time.Duration  { return parseDuration(c.DefaultTTLStr) }
func (c *cacheConfig) CategoryTTL() time.Duration { return parseDuration(c.CategoryTTLStr) }

type loggerConfig struct {
	// OutputStr is "stdout", "stderr" or "file".
	OutputStr         string `yaml:"output" env:"LOG_OUTPUT" env-default:"stdout"`
	FormatStr         string `yaml:"format" env-default:"json"`
	LogFilePathStr    string `yaml:"log_file_path"`
	LogFileNameStr    string `yaml:"log_file_name"`
	LogLevelStr       string `yaml:"log_level" env:"LOG_LEVEL"`
	MaxFileSizeMBInt  int    `yaml:"max_file_size_mb"`
	MaxFileAgeDaysInt int    `yaml:"max_file_age_days"`
	MaxBackupFilesInt int    `yaml:"max_backup_files"`
	EnableCompressed  bool   `yaml:"enable_compressed"`
}

func (l *loggerConfig) Output() string          { return l.OutputStr }
func (l *loggerConfig) Format() string          { return l.FormatStr }
func (l *loggerConfig) LogFilePath() string     { return l.LogFilePathStr }
func (l *loggerConfig) LogFileName() string     { return l.LogFileNameStr }
func (l *loggerConfig) LogLevel() string        { return l.LogLevelStr }
func (l *loggerConfig) MaxFileSizeMB() int      { return l.MaxFileSizeMBInt }
func (l *loggerConfig) MaxFileAgeDays() int     { return l.MaxFileAgeDaysInt }
func (l *loggerConfig) MaxBackupFiles() int     { return l.MaxBackupFilesInt }
func (l *loggerConfig) IsCompressEnabled() bool { return l.EnableCompressed }

type emailConfig struct {
	ProviderStr       string `yaml:"provider" env:"EMAIL_PROVIDER"`
	DefaultFromStr    string `yaml:"default_from"`
	FromNameStr       string `yaml:"from_name"`
	SESRegionStr      string `yaml:"ses_region"`
	SESAccessKeyStr   string `env:"EMAIL_SES_ACCESS_KEY" env-default:""`
	SESSecretKeyStr   string `env:"EMAIL_SES_SECRET_KEY" env-default:""`
	SendGridAPIKeyStr string `env:"SENDGRID_API_KEY" env-default:""`
	MaxRetriesInt     int    `yaml:"max_retries" env-default:"2"`
	RetryDelayStr     string `yaml:"retry_delay" env-default:"500ms"`
}

func (e *emailConfig) Provider() string          { return e.ProviderStr }
func (e *emailConfig) DefaultFrom() string       { return e.DefaultFromStr }
func (e *emailConfig) FromName() string          { return e.FromNameStr }
func (e *emailConfig) SESRegion() string         { return e.SESRegionStr }
func (e *emailConfig) SESAccessKey() string      { return e.SESAccessKeyStr }
func (e *emailConfig) SESSecretKey() string      { return e.SESSecretKeyStr }
func (e *emailConfig) SendGridAPIKey() string    { return e.SendGridAPIKeyStr }
func (e *emailConfig) MaxRetries() int           { return e.MaxRetriesInt }
func (e *emailConfig) RetryDelay() time.Duration { return parseDuration(e.RetryDelayStr) }

type uploadConfig struct {
	ProviderStr        string `yaml:"provider" env:"UPLOAD_PROVIDER"`
	LocalDirStr        string `yaml:"local_dir"`
	PublicBaseURLStr   string `yaml:"public_base_url" env-default:"/uploads"`
	MaxParallelInt     int    `yaml:"max_parallel" env-default:"4"`
	MaxFileSizeMBInt   int    `yaml:"max_file_size_mb" env-default:"10"`
	S3EndpointURLStr   string `yaml:"s3_endpoint_url"`
	S3BucketNameStr    string `yaml:"s3_bucket_name"`
	S3PathPrefixStr    string `yaml:"s3_path_prefix"`
	S3RegionStr        string `yaml:"s3_region"`
	S3AccessKeyStr     string `env:"UPLOAD_S3_ACCESS_KEY" env-default:""`
	S3SecretKeyStr     string `env:"UPLOAD_S3_SECRET_KEY" env-default:""`
}

func (c *uploadConfig) Provider() string       { return c.ProviderStr }
func (c *uploadConfig) LocalDir() string       { return c.LocalDirStr }
func (c *uploadConfig) PublicBaseURL() string  { return c.PublicBaseURLStr }
func (c *uploadConfig) MaxParallel() int       { return c.MaxParallelInt }
func (c *uploadConfig) MaxFileSizeMB() int     { return c.MaxFileSizeMBInt }
func (c *uploadConfig) S3EndpointURL() string  { return c.S3EndpointURLStr }
func (c *uploadConfig) S3BucketName() string   { return c.S3BucketNameStr }
func (c *uploadConfig) S3PathPrefix() string   { return c.S3PathPrefixStr }
func (c *uploadConfig) S3Region() string       { return c.S3RegionStr }
func (c *uploadConfig) S3AccessKey() string    { return c.S3AccessKeyStr }
func (c *uploadConfig) S3SecretKey() string    { return c.S3SecretKeyStr }

type draftConfig struct {
	TTLStr           string `yaml:"ttl" env-default:"72h"`
	LockTTLStr       string `yaml:"lock_ttl" env-default:"5s"`
	SubmitLockTTLStr string `yaml:"submit_lock_ttl" env-default:"30s"`
}

func (d *draftConfig) TTL() time.Duration           { return parseDuration(d.TTLStr) }
func (d *draftConfig) LockTTL() time.Duration       { return parseDuration(d.LockTTLStr) }
func (d *draftConfig) SubmitLockTTL() time.Duration { return parseDuration(d.SubmitLockTTLStr) }

type seedConfig struct {
	CategoriesBool        bool   `yaml:"categories" env-default:"true"`
	SuperAdminEmailStr    string `env:"SUPER_ADMIN_EMAIL" env-default:""`
	SuperAdminPasswordStr string `env:"SUPER_ADMIN_PASSWORD" env-default:""`
	SuperAdminNameStr     string `yaml:"super_admin_name" env-default:"Platform Admin"`
}

func (s *seedConfig) Categories() bool           { return s.CategoriesBool }
func (s *seedConfig) SuperAdminEmail() string    { return s.SuperAdminEmailStr }
func (s *seedConfig) SuperAdminPassword() string { return s.SuperAdminPasswordStr }
func (s *seedConfig) SuperAdminName() string     { return s.SuperAdminNameStr }
