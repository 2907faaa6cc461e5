package config

// Config holds all application configuration.
// It is constructed once at startup and passed by reference into each
// component constructor; business logic never reads ambient globals.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL may be empty or malformed; the connection resolver substitutes the
// local fallback store when AllowFallback is set.
type DatabaseConfig struct {
	URL           string `mapstructure:"url"`
	AllowFallback bool   `mapstructure:"allow_fallback"`
}

// AuthConfig contains all authentication and authorization settings.
// JWTSecret may be empty in development; startup warns and substitutes an
// insecure default rather than aborting.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}
