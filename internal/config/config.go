// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package config loads and validates the application configuration.
//
// Configuration is layered (Koanf v2): built-in defaults, then an optional
// YAML config file, then environment variables. Later layers win, so any
// setting can be overridden per deployment without touching the file.
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Render    RenderConfig    `koanf:"render"`
	CardTypes CardTypesConfig `koanf:"cardtypes"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables: HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// RenderConfig holds canvas and rendering settings.
//
// Width and Height are the canvas dimensions for every card; source
// images are center-cropped to fit. FontDir is scanned for .ttf/.otf
// files referenced by card type descriptors; when empty, only the
// embedded fallback face is available.
//
// Environment variables: CARD_OUTPUT_DIR, CARD_WIDTH, CARD_HEIGHT,
// JPEG_QUALITY, RENDER_WORKERS, CARD_TIMEOUT, FONT_DIR, FONT_CACHE_SIZE.
type RenderConfig struct {
	OutputDir     string        `koanf:"output_dir"`
	Width         int           `koanf:"width"`
	Height        int           `koanf:"height"`
	JPEGQuality   int           `koanf:"jpeg_quality"`
	Workers       int           `koanf:"workers"`
	CardTimeout   time.Duration `koanf:"card_timeout"`
	FontDir       string        `koanf:"font_dir"`
	FontCacheSize int           `koanf:"font_cache_size"`
}

// CardTypesConfig holds card type discovery settings.
//
// LocalDir is scanned for YAML descriptor files at startup; empty
// disables local card types. RemoteSources lists descriptor-set URLs
// fetched at startup and every RefreshInterval; fetched sets persist in
// a BadgerDB store at StorePath so they survive restarts and outages.
//
// Environment variables: CARDTYPE_LOCAL_DIR, CARDTYPE_REMOTE_SOURCES
// (comma-separated), CARDTYPE_REMOTE_TIMEOUT, CARDTYPE_REFRESH_INTERVAL,
// CARDTYPE_STORE_PATH.
type CardTypesConfig struct {
	LocalDir        string        `koanf:"local_dir"`
	RemoteSources   []string      `koanf:"remote_sources"`
	RemoteTimeout   time.Duration `koanf:"remote_timeout"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	StorePath       string        `koanf:"store_path"`
}

// APIConfig holds REST surface settings.
//
// Environment variables: CORS_ORIGINS (comma-separated),
// RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT,
// MAX_BATCH_SIZE.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBatchSize      int           `koanf:"max_batch_size"`
}

// LoggingConfig holds log output settings.
//
// Environment variables: LOG_LEVEL, LOG_FORMAT, LOG_CALLER.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    4242,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Render: RenderConfig{
			OutputDir:     "./cards",
			Width:         3200,
			Height:        1800,
			JPEGQuality:   92,
			Workers:       4,
			CardTimeout:   2 * time.Minute,
			FontDir:       "",
			FontCacheSize: 32,
		},
		CardTypes: CardTypesConfig{
			LocalDir:        "",
			RemoteSources:   []string{},
			RemoteTimeout:   30 * time.Second,
			RefreshInterval: 6 * time.Hour,
			StorePath:       "./data/cardtypes",
		},
		API: APIConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			MaxBatchSize:      500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateCardTypes(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.OutputDir == "" {
		return fmt.Errorf("CARD_OUTPUT_DIR is required")
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		return fmt.Errorf("card dimensions must be positive, got: %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got: %d", c.Render.JPEGQuality)
	}
	if c.Render.Workers < 1 {
		return fmt.Errorf("RENDER_WORKERS must be at least 1, got: %d", c.Render.Workers)
	}
	if c.Render.CardTimeout <= 0 {
		return fmt.Errorf("CARD_TIMEOUT must be positive, got: %s", c.Render.CardTimeout)
	}
	if c.Render.FontCacheSize < 1 {
		return fmt.Errorf("FONT_CACHE_SIZE must be at least 1, got: %d", c.Render.FontCacheSize)
	}
	return nil
}

func (c *Config) validateCardTypes() error {
	for _, src := range c.CardTypes.RemoteSources {
		if err := validateSourceURL(src); err != nil {
			return fmt.Errorf("CARDTYPE_REMOTE_SOURCES entry invalid: %w", err)
		}
	}
	if len(c.CardTypes.RemoteSources) > 0 {
		if c.CardTypes.StorePath == "" {
			return fmt.Errorf("CARDTYPE_STORE_PATH is required when remote sources are configured")
		}
		if c.CardTypes.RemoteTimeout <= 0 {
			return fmt.Errorf("CARDTYPE_REMOTE_TIMEOUT must be positive, got: %s", c.CardTypes.RemoteTimeout)
		}
		if c.CardTypes.RefreshInterval < time.Minute {
			return fmt.Errorf("CARDTYPE_REFRESH_INTERVAL must be at least 1m, got: %s", c.CardTypes.RefreshInterval)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got: %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got: %s", c.API.RateLimitWindow)
		}
	}
	if c.API.MaxBatchSize < 1 {
		return fmt.Errorf("MAX_BATCH_SIZE must be at least 1, got: %d", c.API.MaxBatchSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// validateSourceURL checks a remote descriptor source. Unlike base-URL
// style settings a source names a document, so paths are allowed.
func validateSourceURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("host is required in %q", rawURL)
	}
	return nil
}
