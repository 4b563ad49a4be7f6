// Package config holds session configuration: active integrations,
// per-renderer option overrides, the buffer-activity events that
// trigger automatic clearing, and the render cache location.
//
// Configuration layers, later over earlier: built-in defaults, a
// TOML file, a Lua setup file. Renderer options are deep-merged per
// renderer key.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkline/internal/event"
	"github.com/dshills/inkline/internal/render"
)

// Config is the merged session configuration.
type Config struct {
	// Integrations lists the enabled integration ids in precedence
	// order.
	Integrations []string `toml:"integrations"`

	// RendererOptions maps renderer ids to option overrides,
	// deep-merged over renderer defaults.
	RendererOptions map[string]render.Options `toml:"renderer_options"`

	// Events lists the buffer-activity topics that trigger
	// automatic clearing.
	Events []string `toml:"events"`

	// CacheDir is the scratch/output directory handed to renderers.
	CacheDir string `toml:"cache_dir"`

	// DiscardStaleJobs drops async completions that belong to a
	// superseded render pass. Disable to preserve the legacy
	// behavior where a stale job may still insert its record.
	DiscardStaleJobs bool `toml:"discard_stale_jobs"`

	// LogLevel is the minimum level written to the log.
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Integrations:     []string{"markdown", "org"},
		RendererOptions:  make(map[string]render.Options),
		Events:           []string{string(event.TopicModeInsert), string(event.TopicCursorMoved)},
		CacheDir:         defaultCacheDir(),
		DiscardStaleJobs: true,
		LogLevel:         "info",
	}
}

// defaultCacheDir derives the render cache location from the user
// cache directory, falling back to the temp dir.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "inkline")
}

// LoadTOML layers a TOML file over cfg. A missing file is not an
// error; the config is returned unchanged.
func LoadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	// discard_stale_jobs defaults true but unmarshals as false when
	// absent; re-parse presence explicitly.
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err == nil {
		if _, present := raw["discard_stale_jobs"]; !present {
			loaded.DiscardStaleJobs = cfg.DiscardStaleJobs
		}
	}

	cfg.apply(&loaded)
	return nil
}

// apply layers the set fields of over onto cfg.
func (c *Config) apply(over *Config) {
	if len(over.Integrations) > 0 {
		c.Integrations = over.Integrations
	}
	if len(over.Events) > 0 {
		c.Events = over.Events
	}
	if over.CacheDir != "" {
		c.CacheDir = over.CacheDir
	}
	if over.LogLevel != "" {
		c.LogLevel = over.LogLevel
	}
	c.DiscardStaleJobs = over.DiscardStaleJobs
	for id, opts := range over.RendererOptions {
		if c.RendererOptions == nil {
			c.RendererOptions = make(map[string]render.Options)
		}
		c.RendererOptions[id] = c.RendererOptions[id].Merge(opts)
	}
}

// OptionsFor returns the option overrides for a renderer. Unset
// renderers get the zero options.
func (c *Config) OptionsFor(rendererID string) render.Options {
	return c.RendererOptions[rendererID]
}

// ClearTopics maps the configured event names to bus topics.
// Unknown names fail validation, so this only sees valid ones.
func (c *Config) ClearTopics() []event.Topic {
	var out []event.Topic
	for _, name := range c.Events {
		if t, ok := event.ParseTopic(name); ok {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the configuration for unknown event names and
// empty required fields.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	for _, name := range c.Events {
		if _, ok := event.ParseTopic(name); !ok {
			return fmt.Errorf("unknown event %q", name)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if needed.
func (c *Config) EnsureCacheDir() error {
	return os.MkdirAll(c.CacheDir, 0o755)
}
