// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-13

package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// GetUser fetches a user's public profile.
func (c *Client) GetUser(ctx context.Context, login string) (*github.User, error) {
	if strings.TrimSpace(login) == "" {
		return nil, fmt.Errorf("login cannot be empty")
	}

	user, _, err := c.client.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// ListPublicEvents lists the most recent public events performed by a user.
func (c *Client) ListPublicEvents(ctx context.Context, login string, perPage int) ([]*github.Event, error) {
	if strings.TrimSpace(login) == "" {
		return nil, fmt.Errorf("login cannot be empty")
	}

	events, _, err := c.client.Activity.ListEventsPerformedByUser(ctx, login, true, &github.ListOptions{
		PerPage: perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list public events: %w", err)
	}
	return events, nil
}

// ListCommits lists the most recent commits of a repository, optionally
// filtered by author login.
func (c *Client) ListCommits(ctx context.Context, org, repo, author string, perPage int) ([]*github.RepositoryCommit, error) {
	commits, _, err := c.client.Repositories.ListCommits(ctx, org, repo, &github.CommitsListOptions{
		Author: author,
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	return commits, nil
}

// GetCollaboratorPermission returns the permission level a user holds on a
// repository. An error usually means the user is not a collaborator.
func (c *Client) GetCollaboratorPermission(ctx context.Context, org, repo, login string) (string, error) {
	level, _, err := c.client.Repositories.GetPermissionLevel(ctx, org, repo, login)
	if err != nil {
		return "", fmt.Errorf("failed to get permission level: %w", err)
	}
	return level.GetPermission(), nil
}

// SplitRepo splits an "owner/repo" slug.
func SplitRepo(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format: expected 'owner/repo', got '%s'", slug)
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository: owner and repo cannot be empty")
	}
	return parts[0], parts[1], nil
}

// GetFileContent fetches a file's decoded content at a ref. Used to resolve
// shared configuration referenced by "extends".
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	file, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("path %s is not a file", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}
	return []byte(content), nil
}
