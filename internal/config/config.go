package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Remote     RemoteConfig   `mapstructure:"remote"`
	Auth       AuthConfig     `mapstructure:"auth"`
	Server     ServerConfig   `mapstructure:"server"`
	Log        LogConfig      `mapstructure:"log"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	// Path of the SQLite fallback cache. Empty means the app data dir.
	Path string `mapstructure:"path"`
}

type RemoteConfig struct {
	// BaseURL of the remote API. Empty runs local-only.
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// DrainTimeout bounds how long shutdown waits for queued remote writes.
	DrainTimeout time.Duration `mapstructure:"drain_timeout"`
}

type AuthConfig struct {
	AdminCode string        `mapstructure:"admin_code"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
	Timezone string `mapstructure:"timezone"`
	BankName string `mapstructure:"bank_name"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ""},
		Remote: RemoteConfig{
			Timeout:      10 * time.Second,
			DrainTimeout: 5 * time.Second,
		},
		Auth:   AuthConfig{TokenTTL: 8 * time.Hour},
		Server: ServerConfig{Addr: ":8080", AllowedOrigins: []string{"http://localhost:4200"}},
		Log:    LogConfig{Level: "warn"},
		Defaults: DefaultsConfig{
			Currency: "XOF",
			Timezone: "Africa/Lome",
			BankName: "EGA Bank",
		},
	}
}

// SetDefaults registers every key with viper so that environment variables
// override keys missing from the config file, and so a freshly written
// config file lists them all.
func SetDefaults(v *viper.Viper) {
	d := NewDefault()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("remote.base_url", d.Remote.BaseURL)
	v.SetDefault("remote.timeout", d.Remote.Timeout)
	v.SetDefault("remote.drain_timeout", d.Remote.DrainTimeout)
	v.SetDefault("auth.admin_code", d.Auth.AdminCode)
	v.SetDefault("auth.jwt_secret", d.Auth.JWTSecret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("defaults.currency", d.Defaults.Currency)
	v.SetDefault("defaults.timezone", d.Defaults.Timezone)
	v.SetDefault("defaults.bank_name", d.Defaults.BankName)
}

// Location is the zone statement windows are cut in.
func (c *Config) Location() (*time.Location, error) {
	if c.Defaults.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Defaults.Timezone)
	if err != nil {
		return nil, fmt.Errorf("defaults.timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) RemoteEnabled() bool { return c.Remote.BaseURL != "" }
