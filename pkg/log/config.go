package log

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Config struct {
	Level       string
	Format      string
	Environment string
	ServiceName string
	Version     string

	// OutputPath is "stdout", "stderr" or a file path rotated by lumberjack.
	OutputPath string

	FileMaxSizeInMB  int
	FileMaxAgeInDays int
	FileMaxBackups   int
	CompressRotated  bool

	DisableCaller     bool
	DisableStacktrace bool
	Sampling          *SamplingConfig
}

type SamplingConfig struct {
	Initial    int
	Thereafter int
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}

	switch strings.ToLower(c.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'console'", c.Format)
	}

	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if c.FileMaxSizeInMB <= 0 {
		return fmt.Errorf("file_max_size_mb must be greater than 0")
	}
	if c.FileMaxAgeInDays <= 0 {
		return fmt.Errorf("file_max_age_days must be greater than 0")
	}
	if c.FileMaxBackups < 0 {
		return fmt.Errorf("file_max_backups must not be negative")
	}
	if c.Sampling != nil && (c.Sampling.Initial <= 0 || c.Sampling.Thereafter <= 0) {
		return fmt.Errorf("sampling initial and thereafter must be greater than 0")
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           "json",
		Environment:      "local",
		ServiceName:      "campaign-platform",
		Version:          "1.0.0",
		OutputPath:       "stdout",
		FileMaxSizeInMB:  100,
		FileMaxAgeInDays: 30,
		FileMaxBackups:   10,
		CompressRotated:  true,
	}
}

func DevelopmentConfig() Config {
	config := DefaultConfig()
	config.Level = "debug"
	config.Format = "console"
	return config
}

func ProductionConfig(serviceName, version string) Config {
	config := DefaultConfig()
	config.Environment = "prod"
	config.ServiceName = serviceName
	config.Version = version
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = &SamplingConfig{Initial: 100, Thereafter: 100}
	return config
}

// FileConfig builds a production-shaped config writing to dir/name.
func FileConfig(serviceName, version, level, dir, name string, maxSizeMB, maxAgeDays, maxBackups int) Config {
	config := ProductionConfig(serviceName, version)
	if level != "" {
		config.Level = level
	}
	config.OutputPath = filepath.Join(dir, name)
	if maxSizeMB > 0 {
		config.FileMaxSizeInMB = maxSizeMB
	}
	if maxAgeDays > 0 {
		config.FileMaxAgeInDays = maxAgeDays
	}
	if maxBackups > 0 {
		config.FileMaxBackups = maxBackups
	}
	return config
}
