// Package config loads gitgraph configuration.
//
// Sources are applied in order, later ones overriding earlier ones:
//
//  1. Built-in defaults ([Default])
//  2. A config file: gitgraph.yaml, gitgraph.yml or gitgraph.toml
//  3. A .env file (existing environment variables win)
//  4. Environment variables prefixed with GITGRAPH_
//
// Nested keys use a double underscore in environment variables:
// GITGRAPH_CACHE__BACKEND=redis sets cache.backend, GITGRAPH_LAYOUT__SPACING_X=200
// sets layout.spacing_x. GITHUB_TOKEN is honored when github.token is unset.
package config

import (
	"time"

	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/core/layout"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/source"
	"github.com/matzehuels/gitgraph/pkg/view"
)

// Config is the top-level gitgraph configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" koanf:"log"`
	Layout LayoutConfig `yaml:"layout" koanf:"layout"`
	Server ServerConfig `yaml:"server" koanf:"server"`
	Cache  CacheConfig  `yaml:"cache" koanf:"cache"`
	GitHub GitHubConfig `yaml:"github" koanf:"github"`
	Source SourceConfig `yaml:"source" koanf:"source"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"` // debug, info, warn, error
}

// LayoutConfig holds layout engine settings.
type LayoutConfig struct {
	SpacingX       float64 `yaml:"spacing_x" koanf:"spacing_x"`
	SpacingY       float64 `yaml:"spacing_y" koanf:"spacing_y"`
	CollapsePolicy string  `yaml:"collapse_policy" koanf:"collapse_policy"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string      `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
	ViewIdleTimeout time.Duration `yaml:"view_idle_timeout" koanf:"view_idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `yaml:"backend" koanf:"backend"`
	Dir           string        `yaml:"dir,omitempty" koanf:"dir"`
	RedisAddr     string        `yaml:"redis_addr,omitempty" koanf:"redis_addr"`
	RedisPassword string        `yaml:"redis_password,omitempty" koanf:"redis_password"`
	RedisDB       int           `yaml:"redis_db" koanf:"redis_db"`
	MongoURI      string        `yaml:"mongo_uri,omitempty" koanf:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database,omitempty" koanf:"mongo_database"`
	TTL           time.Duration `yaml:"ttl" koanf:"ttl"`
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	Token   string `yaml:"token,omitempty" koanf:"token"`
	BaseURL string `yaml:"base_url,omitempty" koanf:"base_url"`
}

// SourceConfig holds tree listing settings.
type SourceConfig struct {
	Exclude []string `yaml:"exclude,omitempty" koanf:"exclude"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Layout: LayoutConfig{
			SpacingX:       layout.DefaultSpacingX,
			SpacingY:       layout.DefaultSpacingY,
			CollapsePolicy: string(visibility.DefaultPolicy),
		},
		Server: ServerConfig{
			Port:            8080,
			ViewIdleTimeout: view.DefaultIdleTimeout,
			RequestTimeout:  60 * time.Second,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     cache.TTLTree,
		},
		Source: SourceConfig{
			Exclude: []string{".git", "node_modules"},
		},
	}
}

// LayoutOptions returns the layout engine options.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{SpacingX: c.Layout.SpacingX, SpacingY: c.Layout.SpacingY}
}

// Policy returns the configured collapse policy.
func (c *Config) Policy() visibility.Policy {
	p, err := visibility.ParsePolicy(c.Layout.CollapsePolicy)
	if err != nil {
		return visibility.DefaultPolicy
	}
	return p
}

// CacheOptions returns the cache backend configuration.
func (c *Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
}

// Filter returns the configured exclude filter.
func (c *Config) Filter() source.Filter {
	return source.Filter{Exclude: c.Source.Exclude}
}
