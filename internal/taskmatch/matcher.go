// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-14
// Last Modified: 2026-10-16

// Package taskmatch finds the Asana task that tracks a pull request by
// scanning a project's task list, most recently modified first.
package taskmatch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/similigh/prlink/internal/integrations/asana"
)

// TaskSource is the read-only subset of the Asana API the matcher needs.
type TaskSource interface {
	ListProjectTasks(ctx context.Context, projectID string, opts asana.ListOptions) (*asana.TaskPage, error)
	ListRecentTasks(ctx context.Context, projectID string, limit int) ([]asana.Task, error)
}

// Options sizes the primary pages and the fallback query.
type Options struct {
	PageSize      int
	FallbackLimit int
}

// DefaultOptions returns page size 100 and fallback limit 50.
func DefaultOptions() Options {
	return Options{PageSize: 100, FallbackLimit: 50}
}

// Match describes a found task.
type Match struct {
	TaskID   string
	TaskName string
	Strategy string
	Page     int
	Fallback bool
}

// Matcher resolves pull request URLs to task ids.
type Matcher struct {
	source TaskSource
	opts   Options
	log    zerolog.Logger
}

// NewMatcher creates a matcher. Zero-valued options take defaults.
func NewMatcher(source TaskSource, opts Options, log zerolog.Logger) *Matcher {
	def := DefaultOptions()
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.FallbackLimit <= 0 {
		opts.FallbackLimit = def.FallbackLimit
	}
	return &Matcher{
		source: source,
		opts:   opts,
		log:    log.With().Str("component", "taskmatch").Logger(),
	}
}

// FindTaskForPR returns the id of the task tracking prURL in projectID.
// It never fails: errors degrade to the fallback search or to not found.
func (m *Matcher) FindTaskForPR(ctx context.Context, prURL, projectID string) (string, bool) {
	match, ok := m.Find(ctx, prURL, projectID)
	if !ok {
		return "", false
	}
	return match.TaskID, true
}

// Find is FindTaskForPR with match details.
func (m *Matcher) Find(ctx context.Context, prURL, projectID string) (*Match, bool) {
	ref, ok := ParsePRURL(prURL)
	if !ok {
		m.log.Warn().Str("pr_url", prURL).Msg("PR URL does not have the expected format to extract repository name")
		return nil, false
	}

	pages := newPageIterator(m.source, projectID, m.opts.PageSize)
	for {
		page, err := pages.Next(ctx)
		if err != nil {
			m.log.Warn().Err(err).Str("pr_url", prURL).Int("page", pages.Index()).Msg("Failed to fetch project tasks")
			m.log.Info().Msg("Attempting fallback search")
			return m.fallback(ctx, ref, projectID)
		}
		if page == nil {
			m.log.Info().Str("pr_url", prURL).Int("pages", pages.Index()).Msg("No task matched")
			return nil, false
		}

		if task, strategy, ok := firstMatch(ref, page.Tasks, PrimaryStrategies); ok {
			m.log.Info().Str("task", task.GID).Str("strategy", strategy).Int("page", pages.Index()).Msg("Found task")
			return &Match{
				TaskID:   task.GID,
				TaskName: task.Name,
				Strategy: strategy,
				Page:     pages.Index(),
			}, true
		}
	}
}

// fallback issues one unpaginated query for recent tasks and applies only the
// exact strategy. It does not fall back further.
func (m *Matcher) fallback(ctx context.Context, ref PRRef, projectID string) (*Match, bool) {
	m.log.Info().Int("limit", m.opts.FallbackLimit).Msg("Using fallback search method, fetching recent tasks only")

	tasks, err := m.source.ListRecentTasks(ctx, projectID, m.opts.FallbackLimit)
	if err != nil {
		m.log.Warn().Err(err).Msg("Fallback search failed")
		return nil, false
	}

	task, strategy, ok := firstMatch(ref, tasks, FallbackStrategies)
	if !ok {
		return nil, false
	}
	m.log.Info().Str("task", task.GID).Str("name", task.Name).Msg("Found task via fallback")
	return &Match{
		TaskID:   task.GID,
		TaskName: task.Name,
		Strategy: strategy,
		Fallback: true,
	}, true
}
