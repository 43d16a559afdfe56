package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matzehuels/gitgraph/pkg/cache"
	"github.com/matzehuels/gitgraph/pkg/core/visibility"
	"github.com/matzehuels/gitgraph/pkg/errors"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		v    validation.Validatable
	}{
		{"log", &c.Log},
		{"layout", &c.Layout},
		{"server", &c.Server},
		{"cache", &c.Cache},
		{"source", &c.Source},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s configuration", s.name)
		}
	}
	return nil
}

// Validate checks the logging settings.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
	)
}

// Validate checks the layout settings.
func (c *LayoutConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SpacingX, validation.Min(0.0)),
		validation.Field(&c.SpacingY, validation.Min(0.0)),
		validation.Field(&c.CollapsePolicy, validation.In(policyNames()...)),
	)
}

// Validate checks the server settings.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ViewIdleTimeout, validation.Min(0)),
		validation.Field(&c.RequestTimeout, validation.Min(0)),
	)
}

// Validate checks the cache settings.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.In(backendNames()...)),
		validation.Field(&c.RedisAddr, validation.Required.When(c.Backend == cache.BackendRedis)),
		validation.Field(&c.MongoURI, validation.Required.When(c.Backend == cache.BackendMongo)),
		validation.Field(&c.RedisDB, validation.Min(0)),
		validation.Field(&c.TTL, validation.Min(0)),
	)
}

// Validate checks the exclude patterns.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Exclude, validation.Each(validation.By(validPattern))),
	)
}

func validPattern(value any) error {
	s, _ := value.(string)
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("invalid glob pattern %q", s)
	}
	return nil
}

func policyNames() []any {
	out := make([]any, len(visibility.Policies))
	for i, p := range visibility.Policies {
		out[i] = string(p)
	}
	return out
}

func backendNames() []any {
	out := make([]any, len(cache.Backends))
	for i, b := range cache.Backends {
		out[i] = b
	}
	return out
}
