package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Sources lists where configuration comes from. Files are read in order and
// the optional env file after them; the process environment always wins.
type Sources struct {
	Files   []string
	EnvFile string
}

func (s Sources) String() string {
	desc := "config files [" + strings.Join(s.Files, ", ") + "]"
	if s.EnvFile == "" {
		return desc + " and no env file"
	}
	return desc + " and env file " + s.EnvFile
}

// Load builds a Config from src. It does not validate; call Validate.
func Load(src Sources) (Config, error) {
	cfg := &config{}
	paths := src.Files
	if src.EnvFile != "" {
		paths = append(paths[:len(paths):len(paths)], src.EnvFile)
	}
	for _, path := range paths {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}
	return cfg, nil
}

// Usage wraps a flag usage func so -h also lists the environment variables
// Load understands.
func Usage(w io.Writer, flagUsage func()) func() {
	header := "\nEnvironment variables:"
	return cleanenv.FUsage(w, &config{}, &header, flagUsage)
}
