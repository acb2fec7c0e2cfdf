// Package config carries the small amount of runtime configuration the
// tooling needs: logging setup and default authorship stamped onto
// freshly inferred metadata. Values come from an optional config file
// overridden by PMM_* environment variables.
package config

import (
	"github.com/spf13/viper"

	"github.com/ajitpratap0/featherpmm/pkg/errors"
)

// Config is the resolved tool configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// LogEncoding is json or console.
	LogEncoding string `mapstructure:"log_encoding"`
	// Creator is stamped on metadata created by the tooling.
	Creator string `mapstructure:"creator"`
	// Contributor is stamped on metadata touched by the tooling.
	Contributor string `mapstructure:"contributor"`
	// DateTagFormat overrides the default date-tag layout.
	DateTagFormat string `mapstructure:"datetagformat"`
}

// Load resolves configuration from the given file (optional; empty
// means no file) and the environment. Environment variables use the
// PMM prefix, e.g. PMM_LOG_LEVEL.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "console")
	v.SetDefault("creator", "")
	v.SetDefault("contributor", "")
	v.SetDefault("datetagformat", "")

	v.SetEnvPrefix("PMM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "reading config "+path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "decoding config")
	}
	return &cfg, nil
}
