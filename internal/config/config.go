// Load envs from .env
// Load YAML config
// Apply env overrides
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/ratelimit"
	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/scraper/indeed"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

const (
	NavigatorPlaywright = "playwright"
	NavigatorHTTP       = "http"
)

type Config struct {
	//Search criteria
	SearchTerm       string            `yaml:"search_term"`
	Locations        []indeed.Location `yaml:"locations"`
	TargetLinks      int               `yaml:"target_links"`
	MaxPagesPerFacet int               `yaml:"max_pages_per_facet"`

	//Paths
	OutputDir      string `yaml:"output_dir"`
	DetailsInput   string `yaml:"details_input"`
	CookiesPath    string `yaml:"cookies_path"`
	ScreenshotsDir string `yaml:"screenshots_dir"`

	//Browser
	Navigator             string        `yaml:"navigator"`
	Headless              bool          `yaml:"headless"`
	BaseURL               string        `yaml:"base_url"`
	UserAgent             string        `yaml:"user_agent"`
	ReadyTimeout          time.Duration `yaml:"ready_timeout"`
	MinNavigationInterval time.Duration `yaml:"min_navigation_interval"`
	Delays                Delays        `yaml:"delays"`

	// Schedule is a cron spec; empty runs the harvest once.
	Schedule string `yaml:"schedule"`

	Classifier ClassifierConfig `yaml:"classifier"`
	Server     ServerConfig     `yaml:"server"`

	//Secrets, env only
	DatabaseURL    string `yaml:"-"`
	RedisURL       string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
}

type Delays struct {
	InterPage       ratelimit.Range `yaml:"inter_page"`
	InterDetailPage ratelimit.Range `yaml:"inter_detail_page"`
	InterLocation   ratelimit.Range `yaml:"inter_location"`
}

type ClassifierConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIName  string        `yaml:"api_name"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	ranges := ratelimit.DefaultRanges()
	return &Config{
		SearchTerm:            indeed.DefaultSearchTerm,
		TargetLinks:           5000,
		OutputDir:             "data",
		CookiesPath:           ".cookies/cookies-indeed.json",
		ScreenshotsDir:        "screenshots",
		Navigator:             NavigatorPlaywright,
		Headless:              true,
		BaseURL:               indeed.BaseURL,
		ReadyTimeout:          15 * time.Second,
		MinNavigationInterval: 2 * time.Second,
		Delays: Delays{
			InterPage:       ranges[ratelimit.InterPage],
			InterDetailPage: ranges[ratelimit.InterDetailPage],
			InterLocation:   ranges[ratelimit.InterLocation],
		},
		Classifier: ClassifierConfig{
			Timeout:  60 * time.Second,
			CacheTTL: time.Hour,
		},
		Server: ServerConfig{Port: "8080"},
	}
}

// Load reads .env, then the YAML file at path on top of the defaults, then
// environment overrides. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Warning: Could not read %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//Override with env vars
func (c *Config) applyEnv() error {
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.RedisURL = os.Getenv("REDIS_URL")
	c.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("CLASSIFIER_ENDPOINT"); v != "" {
		c.Classifier.Endpoint = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SEARCH_TERM"); v != "" {
		c.SearchTerm = v
	}
	if v := os.Getenv("HARVEST_SCHEDULE"); v != "" {
		c.Schedule = v
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.SearchTerm) == "" {
		errs = append(errs, errors.New("search_term is required"))
	}
	for i, loc := range c.Locations {
		if loc.Name == "" || loc.Param == "" {
			errs = append(errs, fmt.Errorf("locations[%d]: name and param are required", i))
		}
	}
	if c.TargetLinks < 0 {
		errs = append(errs, errors.New("target_links must not be negative"))
	}
	if c.MaxPagesPerFacet < 0 {
		errs = append(errs, errors.New("max_pages_per_facet must not be negative"))
	}
	if c.Navigator != NavigatorPlaywright && c.Navigator != NavigatorHTTP {
		errs = append(errs, fmt.Errorf("navigator must be %q or %q, got %q", NavigatorPlaywright, NavigatorHTTP, c.Navigator))
	}
	if c.ReadyTimeout <= 0 {
		errs = append(errs, errors.New("ready_timeout must be positive"))
	}
	for scope, r := range c.DelayRanges() {
		if r.Min < 0 || r.Max < r.Min {
			errs = append(errs, fmt.Errorf("delays.%s: need 0 <= min <= max, got %s..%s", scope, r.Min, r.Max))
		}
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together"))
	}

	return errors.Join(errs...)
}

func (c *Config) DelayRanges() map[ratelimit.Scope]ratelimit.Range {
	return map[ratelimit.Scope]ratelimit.Range{
		ratelimit.InterPage:       c.Delays.InterPage,
		ratelimit.InterDetailPage: c.Delays.InterDetailPage,
		ratelimit.InterLocation:   c.Delays.InterLocation,
	}
}

// Facets pairs the search term with the configured locations, or the
// built-in list when none are configured.
func (c *Config) Facets() []models.SearchFacet {
	locs := c.Locations
	if len(locs) == 0 {
		locs = indeed.Locations
	}
	return indeed.Facets(c.SearchTerm, locs)
}

func (c *Config) ProgressPath() string {
	return filepath.Join(c.OutputDir, models.Slug(c.SearchTerm)+"_links_progress.csv")
}

func (c *Config) LinksPath() string {
	return filepath.Join(c.OutputDir, models.Slug(c.SearchTerm)+"_global_links.csv")
}

func (c *Config) FacetLogPath() string {
	return filepath.Join(c.OutputDir, models.Slug(c.SearchTerm)+"_facets_done.log")
}

// DetailsInputPath is the link file the details stage reads.
func (c *Config) DetailsInputPath() string {
	if c.DetailsInput != "" {
		return c.DetailsInput
	}
	return c.LinksPath()
}

// DetailsOutputPath sits next to the link file it was built from.
func (c *Config) DetailsOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_descriptions.csv"
}
