// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-12

package asana

import (
	"context"
	"fmt"
	"net/url"
)

type meResponse struct {
	Data struct {
		GID        string      `json:"gid"`
		Name       string      `json:"name"`
		Email      string      `json:"email"`
		Workspaces []Workspace `json:"workspaces"`
	} `json:"data"`
}

type userListResponse struct {
	Data   []User          `json:"data"`
	Errors []apiErrorEntry `json:"errors,omitempty"`
}

// WorkspaceID returns the gid of the first workspace of the authenticated user.
func (c *Client) WorkspaceID(ctx context.Context) (string, error) {
	var me meResponse
	if err := c.doJSON(ctx, "GET", "/users/me", nil, nil, &me); err != nil {
		return "", fmt.Errorf("failed to fetch user info: %w", err)
	}
	if len(me.Data.Workspaces) == 0 {
		return "", fmt.Errorf("user %s has no workspaces", me.Data.GID)
	}
	return me.Data.Workspaces[0].GID, nil
}

// FindUserByEmail looks up a workspace member by exact, case-sensitive email.
// Any failure is logged and reported as not found (nil).
func (c *Client) FindUserByEmail(ctx context.Context, email, workspaceID string) *User {
	c.log.Info().Str("email", email).Msg("Searching for Asana user")

	q := url.Values{}
	q.Set("workspace", workspaceID)
	q.Set("opt_fields", "name,email")

	var resp userListResponse
	if err := c.doJSON(ctx, "GET", "/users", q, nil, &resp); err != nil {
		c.log.Warn().Err(err).Str("email", email).Msg("Failed to search for user")
		return nil
	}
	if len(resp.Errors) > 0 {
		c.log.Warn().Interface("errors", resp.Errors).Msg("Asana API error")
		return nil
	}

	for i := range resp.Data {
		if resp.Data[i].Email == email {
			user := resp.Data[i]
			c.log.Info().Str("name", user.Name).Str("email", user.Email).Msg("Found user")
			return &user
		}
	}

	c.log.Info().Str("email", email).Msg("No user found")
	return nil
}
