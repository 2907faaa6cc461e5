package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults applied when neither the environment nor a config file provides
// a value.
const (
	defaultPort                        = 8080
	defaultLogLevel                    = "info"
	defaultTokenLifetimeMinutes        = 30
	defaultRefreshTokenLifetimeMinutes = 7 * 24 * 60
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// TASKNEST_ prefix with underscores for nesting (e.g. TASKNEST_DATABASE_URL,
// TASKNEST_AUTH_JWT_SECRET) and take precedence over file values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("database.url", "")
	v.SetDefault("database.allow_fallback", true)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("auth.refresh_token_lifetime_minutes", defaultRefreshTokenLifetimeMinutes)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment plus defaults is a
		// complete configuration source.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
