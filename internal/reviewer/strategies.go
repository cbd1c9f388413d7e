// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-13
// Last Modified: 2026-10-13

package reviewer

import (
	"context"

	"github.com/google/go-github/v60/github"
)

type query struct {
	login string
	owner string
	repo  string
}

func (q query) hasRepo() bool {
	return q.owner != "" && q.repo != ""
}

// strategy yields an email, "" to fall through, or an error to abort.
type strategy struct {
	name string
	fn   func(ctx context.Context, q query) (string, error)
}

// profileEmail reads the public email on the user's profile.
func (r *Resolver) profileEmail(ctx context.Context, q query) (string, error) {
	user, err := r.source.GetUser(ctx, q.login)
	if err != nil {
		return "", err
	}
	return user.GetEmail(), nil
}

// pushEventEmail scans recent public push events for a commit carrying both
// author email and name.
func (r *Resolver) pushEventEmail(ctx context.Context, q query) (string, error) {
	events, err := r.source.ListPublicEvents(ctx, q.login, r.opts.EventsWindow)
	if err != nil {
		return "", err
	}

	for _, ev := range events {
		if ev.GetType() != "PushEvent" || ev.RawPayload == nil {
			continue
		}
		payload, err := ev.ParsePayload()
		if err != nil {
			continue
		}
		push, ok := payload.(*github.PushEvent)
		if !ok {
			continue
		}
		for _, c := range push.Commits {
			author := c.GetAuthor()
			if author.GetEmail() != "" && author.GetName() != "" {
				return author.GetEmail(), nil
			}
		}
	}
	return "", nil
}

// authorCommitEmail takes the author email of the reviewer's most recent
// commit in the repository.
func (r *Resolver) authorCommitEmail(ctx context.Context, q query) (string, error) {
	if !q.hasRepo() {
		return "", nil
	}
	commits, err := r.source.ListCommits(ctx, q.owner, q.repo, q.login, r.opts.AuthorCommitsWindow)
	if err != nil {
		return "", err
	}
	if len(commits) == 0 {
		return "", nil
	}
	return commits[0].GetCommit().GetAuthor().GetEmail(), nil
}

// recentCommitEmail scans a wider unfiltered window for a commit whose GitHub
// author is the reviewer.
func (r *Resolver) recentCommitEmail(ctx context.Context, q query) (string, error) {
	if !q.hasRepo() {
		return "", nil
	}
	commits, err := r.source.ListCommits(ctx, q.owner, q.repo, "", r.opts.RecentCommitsWindow)
	if err != nil {
		return "", err
	}
	for _, c := range commits {
		if c.GetAuthor().GetLogin() == q.login {
			return c.GetCommit().GetAuthor().GetEmail(), nil
		}
	}
	return "", nil
}
