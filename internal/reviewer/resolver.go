// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-18

// Package reviewer resolves a GitHub reviewer's contact email from the
// identity signals GitHub exposes: profile, public push events and commit
// history of the target repository.
package reviewer

import (
	"context"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"

	ghapi "github.com/similigh/prlink/internal/integrations/github"
)

// Source is the subset of the GitHub API the resolver needs.
type Source interface {
	GetUser(ctx context.Context, login string) (*github.User, error)
	ListPublicEvents(ctx context.Context, login string, perPage int) ([]*github.Event, error)
	ListCommits(ctx context.Context, org, repo, author string, perPage int) ([]*github.RepositoryCommit, error)
	GetCollaboratorPermission(ctx context.Context, org, repo, login string) (string, error)
}

// automatedPattern marks reviewers that are never assigned tasks, whatever
// the configured patterns say.
const automatedPattern = "copilot"

// Options bounds the lookup windows. SkipPatterns lists automated reviewers
// in addition to copilot.
type Options struct {
	SkipPatterns        []string
	EventsWindow        int
	AuthorCommitsWindow int
	RecentCommitsWindow int
}

// DefaultOptions returns the standard windows.
func DefaultOptions() Options {
	return Options{
		EventsWindow:        30,
		AuthorCommitsWindow: 50,
		RecentCommitsWindow: 100,
	}
}

// Result is the outcome of a resolution. Skip means assignment must not be
// attempted; an empty Email with Skip=false means nothing was found.
type Result struct {
	Login string
	Email string
	Skip  bool
}

// Resolver runs the lookup strategies in order.
type Resolver struct {
	source     Source
	opts       Options
	strategies []strategy
	log        zerolog.Logger
}

// NewResolver creates a resolver. Zero-valued option fields take defaults.
func NewResolver(source Source, opts Options, log zerolog.Logger) *Resolver {
	def := DefaultOptions()
	if opts.EventsWindow <= 0 {
		opts.EventsWindow = def.EventsWindow
	}
	if opts.AuthorCommitsWindow <= 0 {
		opts.AuthorCommitsWindow = def.AuthorCommitsWindow
	}
	if opts.RecentCommitsWindow <= 0 {
		opts.RecentCommitsWindow = def.RecentCommitsWindow
	}

	r := &Resolver{
		source: source,
		opts:   opts,
		log:    log.With().Str("component", "reviewer").Logger(),
	}
	r.strategies = []strategy{
		{"profile", r.profileEmail},
		{"push_events", r.pushEventEmail},
		{"author_commits", r.authorCommitEmail},
		{"recent_commits", r.recentCommitEmail},
	}
	return r
}

// IsAutomated reports whether login is empty, contains copilot or matches a
// configured skip pattern. Matching is case-insensitive.
func (r *Resolver) IsAutomated(login string) bool {
	if login == "" {
		return true
	}
	lower := strings.ToLower(login)
	if strings.Contains(lower, automatedPattern) {
		return true
	}
	for _, p := range r.opts.SkipPatterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Resolve finds the reviewer's email for the repository slug (owner/repo).
func (r *Resolver) Resolve(ctx context.Context, login, repoSlug string) Result {
	if r.IsAutomated(login) {
		r.log.Info().Str("reviewer", login).Msg("Skipping assignment: reviewer is automated or empty")
		return Result{Login: login, Skip: true}
	}

	q := query{login: login}
	if owner, repo, err := ghapi.SplitRepo(repoSlug); err == nil {
		q.owner, q.repo = owner, repo
	} else {
		r.log.Warn().Err(err).Msg("Repository slug unusable, commit history lookups disabled")
	}

	for _, s := range r.strategies {
		r.log.Debug().Str("strategy", s.name).Str("reviewer", login).Msg("Attempting email lookup")
		email, err := s.fn(ctx, q)
		if err != nil {
			r.log.Error().Err(err).Str("strategy", s.name).Msg("Error retrieving reviewer email")
			return Result{Login: login, Skip: true}
		}
		if email != "" {
			r.log.Info().Str("reviewer", login).Str("email", email).Str("strategy", s.name).Msg("Resolved reviewer email")
			return Result{Login: login, Email: email}
		}
	}

	r.diagnoseCollaborator(ctx, q)
	r.log.Info().Str("reviewer", login).Msg("Could not retrieve email address, user likely has private email settings")
	return Result{Login: login}
}

// diagnoseCollaborator only logs whether the reviewer is a collaborator.
func (r *Resolver) diagnoseCollaborator(ctx context.Context, q query) {
	if !q.hasRepo() {
		return
	}
	if _, err := r.source.GetCollaboratorPermission(ctx, q.owner, q.repo, q.login); err != nil {
		r.log.Info().Str("reviewer", q.login).Msg("User is not a collaborator or error occurred")
		return
	}
	r.log.Info().Str("reviewer", q.login).Msg("User is a confirmed collaborator but email is private")
}
