// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package config loads Kestrel configuration using Koanf v2 with layered
// sources (highest priority wins):
//
//  1. Environment variables (MONGO_CONNECTION, API_KEY, TBA_KEY, ...)
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH override)
//  3. Built-in defaults
//
// MONGO_CONNECTION is the one required setting; the gateway must not start
// without a store connection string.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/kestrel/config.yaml",
	"/etc/kestrel/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// ErrMissingMongoConnection is returned when no store connection string is
// configured. Startup treats this as fatal.
var ErrMissingMongoConnection = errors.New("MONGO_CONNECTION is not set")

// Config is the root configuration for the gateway.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Mongo   MongoConfig   `koanf:"mongo"`
	TBA     TBAConfig     `koanf:"tba"`
	Auth    AuthConfig    `koanf:"auth"`
	Logging LoggingConfig `koanf:"logging"`
	CORS    CORSConfig    `koanf:"cors"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	// Connection is the cluster connection string. Required.
	Connection     string        `koanf:"connection"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// TBAConfig holds The Blue Alliance API settings.
type TBAConfig struct {
	// Key is the TBA read API key sent as X-TBA-Auth-Key.
	Key     string `koanf:"key"`
	BaseURL string `koanf:"base_url"`
}

// AuthConfig holds the local shared-secret settings.
type AuthConfig struct {
	// APIKey is the static secret expected in the Kestrel-API-Key header.
	APIKey string `koanf:"api_key"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// CORSConfig holds the browser origin allow-list.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// defaultConfig returns the built-in defaults, overridden by file and env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			Connection:     "",
			ConnectTimeout: 10 * time.Second,
		},
		TBA: TBAConfig{
			Key:     "",
			BaseURL: "https://www.thebluealliance.com/api/v3",
		},
		Auth: AuthConfig{
			APIKey: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			// Viewer origins: local dev servers, the hosted viewer, and
			// Google Apps Script fetchers.
			AllowedOrigins: []string{
				"http://localhost",
				"http://localhost:3000",
				"http://localhost:5173",
				"https://frc1678.github.io",
				"https://script.googleusercontent.com",
				"https://script.google.com",
			},
		},
	}
}

// envMapping maps the flat environment variables the deployment has always
// used onto koanf paths.
var envMapping = map[string]string{
	"MONGO_CONNECTION":     "mongo.connection",
	"API_KEY":              "auth.api_key",
	"TBA_KEY":              "tba.key",
	"HOST":                 "server.host",
	"PORT":                 "server.port",
	"LOG_LEVEL":            "logging.level",
	"LOG_FORMAT":           "logging.format",
	"CORS_ALLOWED_ORIGINS": "cors.allowed_origins",
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Unmapped variables are ignored; empty values count as unset, matching
	// the dotenv behavior the deployment relies on.
	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		path, ok := envMapping[key]
		if !ok || value == "" {
			return "", nil
		}
		if path == "cors.allowed_origins" {
			return path, splitCommaList(value)
		}
		return path, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings the gateway cannot run without.
func (c *Config) Validate() error {
	if c.Mongo.Connection == "" {
		return ErrMissingMongoConnection
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
