// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-18

package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-githubactions"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/core/pipeline"
	"github.com/similigh/prlink/internal/integrations/asana"
	"github.com/similigh/prlink/internal/integrations/github"
	"github.com/similigh/prlink/internal/logger"
	"github.com/similigh/prlink/internal/reviewer"
	"github.com/similigh/prlink/internal/steps"
	"github.com/similigh/prlink/internal/taskmatch"
)

// actionOptions configures the GitHub Actions toolkit; tests replace the
// environment and writer here.
var actionOptions []githubactions.Option

func newAction() *githubactions.Action {
	return githubactions.New(actionOptions...)
}

// loadConfig loads the dotenv file and the config file, resolving "extends".
// A config that fails to load is reported and replaced by defaults.
func loadConfig() (cfg *config.Config, path string, loadErr error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, "", err
	}

	path = config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return config.Default(), cfgFile, fmt.Errorf("config file not found: %s", cfgFile)
		}
		return config.Default(), "", nil
	}

	cfg, err := config.LoadWithInheritance(path, fetchRemoteConfig)
	if err != nil {
		return config.Default(), path, err
	}
	return cfg, path, nil
}

// fetchRemoteConfig resolves an "extends" reference through the GitHub API.
func fetchRemoteConfig(ref string) ([]byte, error) {
	org, repo, branch, path, err := config.ParseExtendsRef(ref)
	if err != nil {
		return nil, err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN required to fetch remote config %s", ref)
	}

	ctx := context.Background()
	gh, err := newGitHubClient(ctx, token, os.Getenv("GITHUB_API_URL"))
	if err != nil {
		return nil, err
	}
	return gh.GetFileContent(ctx, org, repo, path, branch)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	l := logger.New(logCfg, os.Stderr)
	logger.Install(l)
	return l
}

func newGitHubClient(ctx context.Context, token, apiURL string) (*github.Client, error) {
	client := github.NewClient(ctx, token)
	if apiURL == "" {
		return client, nil
	}
	return client.WithBaseURL(apiURL)
}

func retryConfig(c config.RetryConfig) asana.RetryConfig {
	if c.MaxRetries < 0 {
		return asana.NoRetry()
	}
	return asana.RetryConfig{
		MaxRetries:  c.MaxRetries,
		BaseDelay:   time.Duration(c.BaseDelayMS) * time.Millisecond,
		MaxDelay:    time.Duration(c.MaxDelayMS) * time.Millisecond,
		JitterRatio: asana.DefaultRetryConfig().JitterRatio,
	}
}

// buildDependencies wires the tracker, reviewer resolver and task matcher.
// Config must already carry the action inputs (config.ApplyInputs).
func buildDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger, dryRun bool) (*pipeline.Dependencies, error) {
	opts := []asana.Option{
		asana.WithBaseURL(cfg.Asana.BaseURL),
		asana.WithRetry(retryConfig(cfg.Retry)),
		asana.WithLogger(log),
	}
	if cfg.Asana.TimeoutSeconds > 0 {
		opts = append(opts, asana.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Asana.TimeoutSeconds) * time.Second,
		}))
	}
	tracker := asana.NewClient(ctx, cfg.Asana.Token, opts...)

	ghToken := cfg.GitHub.Token
	if ghToken == "" {
		ghToken = os.Getenv("GITHUB_TOKEN")
	}
	apiURL := cfg.GitHub.APIURL
	if apiURL == "" {
		apiURL = os.Getenv("GITHUB_API_URL")
	}
	gh, err := newGitHubClient(ctx, ghToken, apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	resolver := reviewer.NewResolver(gh, reviewer.Options{
		SkipPatterns:        cfg.Reviewer.SkipPatterns,
		EventsWindow:        cfg.Reviewer.EventsWindow,
		AuthorCommitsWindow: cfg.Reviewer.AuthorCommitsWindow,
		RecentCommitsWindow: cfg.Reviewer.RecentCommitsWindow,
	}, log)

	matcher := taskmatch.NewMatcher(tracker, taskmatch.Options{
		PageSize:      cfg.Matcher.PageSize,
		FallbackLimit: cfg.Matcher.FallbackLimit,
	}, log)

	return &pipeline.Dependencies{
		Tracker:   tracker,
		Reviewers: resolver,
		Tasks:     matcher,
		Log:       log,
		DryRun:    dryRun,
	}, nil
}

func newRunner(cfg *config.Config, deps *pipeline.Dependencies, log zerolog.Logger) *pipeline.Runner {
	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)

	return &pipeline.Runner{
		Registry: registry,
		Deps:     deps,
		Config:   cfg,
		Log:      log,
	}
}

// validateInputs checks the inputs required by a method.
func validateInputs(in config.Inputs) error {
	switch pipeline.ResolveMethod(in.Method) {
	case pipeline.MethodAssign:
		return config.ValidateAssign(in)
	case pipeline.MethodComplete:
		return nil
	default:
		return config.ValidateCreate(in)
	}
}

// inputGetter prefers non-empty flag overrides over action inputs.
func inputGetter(action *githubactions.Action, overrides map[string]string) config.InputGetter {
	return func(name string) string {
		if v := overrides[name]; v != "" {
			return v
		}
		return action.GetInput(name)
	}
}

// pullRequestFromAction builds the pull request from the workflow event and
// manual inputs.
func pullRequestFromAction(action *githubactions.Action, in config.Inputs) (*pipeline.PullRequest, error) {
	ghCtx, err := action.Context()
	if err != nil {
		return nil, fmt.Errorf("failed to read GitHub context: %w", err)
	}

	var info *github.PullRequestInfo
	if _, ok := ghCtx.Event["pull_request"]; ok {
		ev, err := github.PullRequestEventFromMap(ghCtx.Event)
		if err != nil {
			return nil, err
		}
		if info, err = github.PullRequestInfoFromEvent(ev); err != nil {
			return nil, err
		}
	}

	return pipeline.NewPullRequest(info, in, ghCtx.Repository)
}
