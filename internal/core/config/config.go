// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-18

// Package config handles loading and merging prlink configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Method is the default flow when the action input is empty.
	Method string `yaml:"method,omitempty"`

	Asana    AsanaConfig    `yaml:"asana"`
	GitHub   GitHubConfig   `yaml:"github"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Reviewer ReviewerConfig `yaml:"reviewer"`
	Retry    RetryConfig    `yaml:"retry"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// AsanaConfig holds tracker connection settings.
type AsanaConfig struct {
	Token       string `yaml:"token"`
	ProjectID   string `yaml:"project_id"`
	WorkspaceID string `yaml:"workspace_id,omitempty"`
	TagID       string `yaml:"tag_id,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`

	// TimeoutSeconds bounds each HTTP request; 0 means no timeout.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// GitHubConfig holds source-control connection settings.
type GitHubConfig struct {
	Token  string `yaml:"token"`
	APIURL string `yaml:"api_url,omitempty"`
}

// MatcherConfig sizes the task search.
type MatcherConfig struct {
	PageSize      int `yaml:"page_size"`
	FallbackLimit int `yaml:"fallback_limit"`
}

// ReviewerConfig bounds reviewer email lookups.
// SkipPatterns are automated reviewers skipped in addition to copilot, which is
// always skipped.
type ReviewerConfig struct {
	SkipPatterns        []string `yaml:"skip_patterns,omitempty"`
	EventsWindow        int      `yaml:"events_window"`
	AuthorCommitsWindow int      `yaml:"author_commits_window"`
	RecentCommitsWindow int      `yaml:"recent_commits_window"`
}

// RetryConfig controls retries of transient tracker errors.
type RetryConfig struct {
	// MaxRetries of -1 disables retries.
	MaxRetries  int `yaml:"max_retries"`
	BaseDelayMS int `yaml:"base_delay_ms"`
	MaxDelayMS  int `yaml:"max_delay_ms"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console", "json" or "" (auto)
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return cfg, nil
}

// Default returns a config with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// parseRaw expands environment variables and unmarshals YAML without defaults.
func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves the 'extends' chain.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		cfg.applyDefaults()
		return cfg, nil
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	parentCfg, err := parseRaw(parentData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	// Merge: child overrides parent
	merged := mergeConfigs(parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/prlink.yaml",
		".github/prlink.yml",
		".prlink.yaml",
		".prlink.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// LoadDotEnv loads variables from a .env file when one exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Matcher.PageSize == 0 {
		c.Matcher.PageSize = 100
	}
	if c.Matcher.FallbackLimit == 0 {
		c.Matcher.FallbackLimit = 50
	}
	if c.Reviewer.EventsWindow == 0 {
		c.Reviewer.EventsWindow = 30
	}
	if c.Reviewer.AuthorCommitsWindow == 0 {
		c.Reviewer.AuthorCommitsWindow = 50
	}
	if c.Reviewer.RecentCommitsWindow == 0 {
		c.Reviewer.RecentCommitsWindow = 100
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 3
	}
	if c.Retry.BaseDelayMS == 0 {
		c.Retry.BaseDelayMS = 500
	}
	if c.Retry.MaxDelayMS == 0 {
		c.Retry.MaxDelayMS = 10000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	override := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	overrideInt := func(target *int, value int) {
		if value != 0 {
			*target = value
		}
	}

	override(&result.Method, child.Method)

	override(&result.Asana.Token, child.Asana.Token)
	override(&result.Asana.ProjectID, child.Asana.ProjectID)
	override(&result.Asana.WorkspaceID, child.Asana.WorkspaceID)
	override(&result.Asana.TagID, child.Asana.TagID)
	override(&result.Asana.BaseURL, child.Asana.BaseURL)
	overrideInt(&result.Asana.TimeoutSeconds, child.Asana.TimeoutSeconds)

	override(&result.GitHub.Token, child.GitHub.Token)
	override(&result.GitHub.APIURL, child.GitHub.APIURL)

	overrideInt(&result.Matcher.PageSize, child.Matcher.PageSize)
	overrideInt(&result.Matcher.FallbackLimit, child.Matcher.FallbackLimit)

	// SkipPatterns: child replaces the parent's extras if set, even to an empty list
	if child.Reviewer.SkipPatterns != nil {
		result.Reviewer.SkipPatterns = child.Reviewer.SkipPatterns
	}
	overrideInt(&result.Reviewer.EventsWindow, child.Reviewer.EventsWindow)
	overrideInt(&result.Reviewer.AuthorCommitsWindow, child.Reviewer.AuthorCommitsWindow)
	overrideInt(&result.Reviewer.RecentCommitsWindow, child.Reviewer.RecentCommitsWindow)

	overrideInt(&result.Retry.MaxRetries, child.Retry.MaxRetries)
	overrideInt(&result.Retry.BaseDelayMS, child.Retry.BaseDelayMS)
	overrideInt(&result.Retry.MaxDelayMS, child.Retry.MaxDelayMS)

	override(&result.Log.Level, child.Log.Level)
	override(&result.Log.Format, child.Log.Format)

	override(&result.Server.Addr, child.Server.Addr)
	override(&result.Server.WebhookSecret, child.Server.WebhookSecret)

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = ".github/prlink.yaml" // default path
	}

	return org, repo, branch, path, nil
}
