// Package config loads the tourfeed YAML configuration and command-line
// options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/pager"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceFixture = "fixture"
	SourceRemote  = "remote"
	SourceRSS     = "rss"
	SourceStore   = "store"
)

// Config is the persistent application configuration
type Config struct {
	Pager    PagerConfig    `yaml:"pager"`
	Posts    PostsConfig    `yaml:"posts"`
	Profiles ProfilesConfig `yaml:"profiles"`
	Tour     TourConfig     `yaml:"tour"`
	Question QuestionConfig `yaml:"questions"`
	Remote   RemoteConfig   `yaml:"remote"`
	Store    StoreConfig    `yaml:"store"`
}

// PagerConfig mirrors pager.Config.
type PagerConfig struct {
	InitialPageSize      int           `yaml:"initial_page_size"`
	PageIncrement        int           `yaml:"page_increment"`
	LoadDelay            time.Duration `yaml:"load_delay"`
	EndThreshold         float64       `yaml:"end_threshold"`
	CancelPendingOnReset bool          `yaml:"cancel_pending_on_reset"`
}

// PostsConfig selects where community posts come from.
type PostsConfig struct {
	Source string `yaml:"source"`
	// Path is the fixture file; empty uses the built-in posts.
	Path string `yaml:"path"`
	// URL is the backend base URL (remote) or the feed URL (rss).
	URL      string        `yaml:"url"`
	Endpoint string        `yaml:"endpoint"`
	Fields   feed.FieldMap `yaml:"fields"`
}

// ProfilesConfig selects where personality profiles come from.
type ProfilesConfig struct {
	Source   string `yaml:"source"`
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Endpoint string `yaml:"endpoint"`
}

// TourConfig selects the tour program shown on the tour screen.
type TourConfig struct {
	Source   string `yaml:"source"`
	Path     string `yaml:"path"`
	URL      string `yaml:"url"`
	Endpoint string `yaml:"endpoint"`
	ID       int64  `yaml:"id"`
}

// QuestionConfig selects the personality questionnaire backend.
type QuestionConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
	// Language is sent with every request, e.g. "ko" or "en".
	Language      string `yaml:"language"`
	QuestionsPath string `yaml:"questions_endpoint"`
	RecommendPath string `yaml:"recommend_endpoint"`
}

// RemoteConfig is shared by every HTTP backend.
type RemoteConfig struct {
	Token         string        `yaml:"token"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
}

// StoreConfig locates the SQLite cache.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	pc := pager.DefaultConfig()
	return &Config{
		Pager: PagerConfig{
			InitialPageSize: pc.InitialPageSize,
			PageIncrement:   pc.PageIncrement,
			LoadDelay:       pc.LoadDelay,
			EndThreshold:    pc.EndThreshold,
		},
		Posts: PostsConfig{
			Source:   SourceFixture,
			Endpoint: "/posts",
			Fields:   feed.DefaultFieldMap(),
		},
		Profiles: ProfilesConfig{Source: SourceFixture},
		Tour:     TourConfig{Source: SourceFixture, ID: 1},
		Question: QuestionConfig{Source: SourceFixture, Language: "ko"},
		Remote: RemoteConfig{
			Timeout:       30 * time.Second,
			RatePerSecond: 4,
		},
		Store: StoreConfig{Path: filepath.Join(homeDir(), ".tourfeed", "tourfeed.db")},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ConfigPath returns the default path to the config file
func ConfigPath() string {
	return filepath.Join(homeDir(), ".tourfeed", "config.yaml")
}

// Load reads config from path, or returns defaults when the file does not
// exist. An empty path uses ConfigPath. Defaults fill unset fields and the
// result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.setDefaults()
	cfg.AutoPopulateFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600) // may hold the backend token
}

// AutoPopulateFromEnv fills the backend token from TOURFEED_TOKEN when the
// file did not set one.
func (c *Config) AutoPopulateFromEnv() {
	if c.Remote.Token == "" {
		c.Remote.Token = os.Getenv("TOURFEED_TOKEN")
	}
}

// setDefaults applies default values to fields a partial file left empty.
func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.Posts.Source == "" {
		c.Posts.Source = d.Posts.Source
	}
	if c.Posts.Endpoint == "" {
		c.Posts.Endpoint = d.Posts.Endpoint
	}
	c.Posts.Fields = c.Posts.Fields.WithDefaults()
	if c.Profiles.Source == "" {
		c.Profiles.Source = d.Profiles.Source
	}
	if c.Tour.Source == "" {
		c.Tour.Source = d.Tour.Source
	}
	if c.Tour.ID == 0 {
		c.Tour.ID = d.Tour.ID
	}
	if c.Question.Source == "" {
		c.Question.Source = d.Question.Source
	}
	if c.Question.Language == "" {
		c.Question.Language = d.Question.Language
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = d.Remote.Timeout
	}
	if c.Remote.RatePerSecond == 0 {
		c.Remote.RatePerSecond = d.Remote.RatePerSecond
	}
	if c.Store.Path == "" {
		c.Store.Path = d.Store.Path
	}
}

// Validate checks ranges and source settings.
func (c *Config) Validate() error {
	if c.Pager.InitialPageSize <= 0 {
		return fmt.Errorf("pager initial_page_size must be positive")
	}
	if c.Pager.PageIncrement <= 0 {
		return fmt.Errorf("pager page_increment must be positive")
	}
	if c.Pager.LoadDelay < 0 {
		return fmt.Errorf("pager load_delay must be non-negative")
	}
	if c.Pager.EndThreshold <= 0 || c.Pager.EndThreshold > 1 {
		return fmt.Errorf("pager end_threshold must be in (0, 1]")
	}

	if err := validateSource("posts", c.Posts.Source, c.Posts.URL, SourceFixture, SourceRemote, SourceRSS, SourceStore); err != nil {
		return err
	}
	if err := validateSource("profiles", c.Profiles.Source, c.Profiles.URL, SourceFixture, SourceRemote, SourceStore); err != nil {
		return err
	}
	if err := validateSource("tour", c.Tour.Source, c.Tour.URL, SourceFixture, SourceRemote, SourceStore); err != nil {
		return err
	}
	if err := validateSource("questions", c.Question.Source, c.Question.URL, SourceFixture, SourceRemote); err != nil {
		return err
	}
	if c.Tour.ID < 0 {
		return fmt.Errorf("tour id must be positive")
	}

	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote timeout must be non-negative")
	}
	if c.Remote.RatePerSecond < 0 {
		return fmt.Errorf("remote rate_per_second must be non-negative")
	}
	return nil
}

func validateSource(section, source, url string, allowed ...string) error {
	valid := false
	for _, a := range allowed {
		if source == a {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid %s source %q", section, source)
	}
	if (source == SourceRemote || source == SourceRSS) && url == "" {
		return fmt.Errorf("%s url is required for source %q", section, source)
	}
	return nil
}

// PagerSettings converts the pager section.
func (c *Config) PagerSettings() pager.Config {
	return pager.Config{
		InitialPageSize:      c.Pager.InitialPageSize,
		PageIncrement:        c.Pager.PageIncrement,
		LoadDelay:            c.Pager.LoadDelay,
		EndThreshold:         c.Pager.EndThreshold,
		CancelPendingOnReset: c.Pager.CancelPendingOnReset,
	}
}
