package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/amatsuka/notion-blog/pkg/notionblog"
)

// Config is the full configuration for the content layer and its binaries.
// Values come from the environment, optionally layered over a YAML file.
type Config struct {
	// Service credential. Absence is fatal for any remote-backed operation.
	NotionToken string `yaml:"notion_token" env:"NOTION_TOKEN"`

	// Collection identifiers
	PostsDatabaseID   string `yaml:"posts_database_id" env:"NOTION_POSTS_DB"`
	FriendsDatabaseID string `yaml:"friends_database_id" env:"NOTION_FRIENDS_DB"`

	// Site-wide defaults used for SEO assembly
	Site SiteConfig `yaml:"site"`

	// Preview server
	Port            string `yaml:"port" env:"PORT" env-default:"8080"`
	RefreshSchedule string `yaml:"refresh_schedule" env:"REFRESH_SCHEDULE" env-default:"@every 10m"`

	// Persistent derived cache; empty disables persistence
	CachePath string `yaml:"cache_path" env:"CACHE_PATH"`
}

// SiteConfig carries site identity defaults.
type SiteConfig struct {
	Title       string   `yaml:"title" env:"SITE_TITLE"`
	Description string   `yaml:"description" env:"SITE_DESCRIPTION"`
	BaseURL     string   `yaml:"base_url" env:"SITE_URL"`
	Image       string   `yaml:"image" env:"SITE_IMAGE"`
	Keywords    []string `yaml:"keywords" env:"SITE_KEYWORDS"`
	Author      string   `yaml:"author" env:"SITE_AUTHOR"`
}

// Load reads configuration from the optional YAML file at path, then applies
// environment overrides. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
			return &cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the preconditions for remote-backed operation.
func (c *Config) Validate() error {
	if c.NotionToken == "" {
		return fmt.Errorf("%w (set NOTION_TOKEN)", notionblog.ErrMissingToken)
	}
	if c.PostsDatabaseID == "" {
		return errors.New("posts database id is required (NOTION_POSTS_DB)")
	}
	// The friends collection is optional; friend accessors fail lazily
	// when it is absent.
	return nil
}
