package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration. It is loaded once at startup and
// injected into the services that need it; nothing reads the environment after
// Load returns.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	DatabasePath string `mapstructure:"database_path"`
	CORSOrigin   string `mapstructure:"cors_origin"`
}

// AuthConfig holds token signing and OTP lifetime settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"` // lifetime of verification/reset OTPs
}

// SMTPConfig holds outbound email credentials.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Load reads configuration from pettycash.yaml (if present) and PETTYCASH_*
// environment variables, with env taking precedence.
func Load() (*Config, error) {
	v := viper.New()

	// Every key needs a default registered so AutomaticEnv can bind it.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.database_path", "./pettycash.db")
	v.SetDefault("server.cors_origin", "http://localhost:3000")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 15*time.Minute)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")

	v.SetConfigName("pettycash")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("PETTYCASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
