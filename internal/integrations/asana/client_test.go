// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-18

package asana

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(context.Background(), "test-token", WithBaseURL(srv.URL), WithRetry(NoRetry()))
}

func TestClientSendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/users/me", r.URL.Path)
		io.WriteString(w, `{"data":{"gid":"1","workspaces":[{"gid":"ws-1","name":"Main"},{"gid":"ws-2"}]}}`)
	})

	ws, err := c.WorkspaceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ws-1", ws)
}

func TestClientHTTPClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		time.Sleep(200 * time.Millisecond)
		io.WriteString(w, `{"data":{"gid":"1","workspaces":[{"gid":"ws-1"}]}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(context.Background(), "test-token",
		WithBaseURL(srv.URL),
		WithRetry(NoRetry()),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
	)

	_, err := c.WorkspaceID(context.Background())
	require.Error(t, err)
}

func TestWorkspaceIDErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"errors":[{"message":"Not Authorized"}]}`)
		})
		_, err := c.WorkspaceID(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "Not Authorized")
	})

	t.Run("no workspaces", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"data":{"gid":"1","workspaces":[]}}`)
		})
		_, err := c.WorkspaceID(context.Background())
		assert.Error(t, err)
	})
}

func TestFindUserByEmail(t *testing.T) {
	directory := `{"data":[
		{"gid":"u1","name":"Ann","email":"ann@example.com"},
		{"gid":"u2","name":"Bob","email":"bob@example.com"},
		{"gid":"u3","name":"Bob Dup","email":"bob@example.com"}
	]}`

	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "ws-1", r.URL.Query().Get("workspace"))
		assert.Equal(t, "name,email", r.URL.Query().Get("opt_fields"))
		io.WriteString(w, directory)
	})

	tests := []struct {
		name    string
		email   string
		wantGID string
	}{
		{"exact match", "ann@example.com", "u1"},
		{"first duplicate wins", "bob@example.com", "u2"},
		{"case sensitive", "ANN@example.com", ""},
		{"not present", "carol@example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := c.FindUserByEmail(context.Background(), tt.email, "ws-1")
			if tt.wantGID == "" {
				assert.Nil(t, user)
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, tt.wantGID, user.GID)
		})
	}

	// Same directory, same answer.
	first := c.FindUserByEmail(context.Background(), "bob@example.com", "ws-1")
	second := c.FindUserByEmail(context.Background(), "bob@example.com", "ws-1")
	assert.Equal(t, first, second)
}

func TestFindUserByEmailDegradesToNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"error payload", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"data":[],"errors":[{"message":"workspace: Not a recognized ID"}]}`)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{not json`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			assert.Nil(t, c.FindUserByEmail(context.Background(), "ann@example.com", "ws-1"))
		})
	}
}

func TestCreateTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Data TaskCreate `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Code Review: [feature/x]", body.Data.Name)
		assert.Equal(t, []string{"p-1"}, body.Data.Projects)
		assert.Equal(t, "ws-1", body.Data.Workspace)
		assert.Equal(t, []string{"tag-1"}, body.Data.Tags)

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"data":{"gid":"t-9","name":"Code Review: [feature/x]","projects":[{"gid":"p-1","name":"Reviews"}]}}`)
	})

	task, err := c.CreateTask(context.Background(), TaskCreate{
		Name:      "Code Review: [feature/x]",
		Notes:     "notes",
		Projects:  []string{"p-1"},
		Workspace: "ws-1",
		Tags:      []string{"tag-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t-9", task.GID)
	require.Len(t, task.Projects, 1)
	assert.Equal(t, "p-1", task.Projects[0].GID)
}

func TestCreateTaskFailures(t *testing.T) {
	t.Run("rejects multiple projects", func(t *testing.T) {
		c := NewClient(context.Background(), "")
		_, err := c.CreateTask(context.Background(), TaskCreate{Projects: []string{"a", "b"}, Workspace: "w"})
		assert.Error(t, err)
	})

	t.Run("rejects missing workspace", func(t *testing.T) {
		c := NewClient(context.Background(), "")
		_, err := c.CreateTask(context.Background(), TaskCreate{Projects: []string{"a"}})
		assert.Error(t, err)
	})

	t.Run("non-success status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"errors":[{"message":"projects: Unknown object"}]}`)
		})
		_, err := c.CreateTask(context.Background(), TaskCreate{Projects: []string{"p"}, Workspace: "w"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "projects: Unknown object")
	})

	t.Run("empty body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		_, err := c.CreateTask(context.Background(), TaskCreate{Projects: []string{"p"}, Workspace: "w"})
		assert.Error(t, err)
	})

	t.Run("missing data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{}`)
		})
		_, err := c.CreateTask(context.Background(), TaskCreate{Projects: []string{"p"}, Workspace: "w"})
		assert.Error(t, err)
	})
}

func TestAssignTask(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/tasks/t-1", r.URL.Path)
			var body struct {
				Data map[string]string `json:"data"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u-1", body.Data["assignee"])
			io.WriteString(w, `{"data":{"gid":"t-1","name":"Review"}}`)
		})
		assert.True(t, c.AssignTask(context.Background(), "t-1", "u-1"))
	})

	t.Run("failure status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
		assert.False(t, c.AssignTask(context.Background(), "t-1", "u-1"))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(context.Background(), "tok", WithBaseURL(srv.URL), WithRetry(NoRetry()))
		assert.False(t, c.AssignTask(context.Background(), "t-1", "u-1"))
	})
}

func TestListProjectTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/projects/p-1/tasks", r.URL.Path)
		assert.Equal(t, "gid,name,notes", q.Get("opt_fields"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "modified_at", q.Get("sort_by"))
		assert.Equal(t, "false", q.Get("sort_ascending"))

		if q.Get("offset") == "" {
			io.WriteString(w, `{"data":[{"gid":"1","name":"a"}],"next_page":{"offset":"abc","path":"/x","uri":"u"}}`)
			return
		}
		assert.Equal(t, "abc", q.Get("offset"))
		io.WriteString(w, `{"data":[{"gid":"2","name":"b"}],"next_page":null}`)
	})

	page, err := c.ListProjectTasks(context.Background(), "p-1", ListOptions{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, "abc", page.Cursor())

	page, err = c.ListProjectTasks(context.Background(), "p-1", ListOptions{Limit: 100, Offset: page.Cursor()})
	require.NoError(t, err)
	assert.Equal(t, "", page.Cursor())
	assert.Equal(t, "2", page.Tasks[0].GID)
}

func TestListRecentTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "p-1", q.Get("project"))
		assert.Empty(t, q.Get("offset"))
		io.WriteString(w, `{"data":[{"gid":"7","name":"x","notes":"y"}]}`)
	})

	tasks, err := c.ListRecentTasks(context.Background(), "p-1", 50)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "7", tasks[0].GID)
}

func TestClientRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"data":{"gid":"1","workspaces":[{"gid":"ws"}]}}`)
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "tok", WithBaseURL(srv.URL), WithRetry(RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}))

	ws, err := c.WorkspaceID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ws", ws)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSingleRequestCallsAreNotRetried(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond

	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
	}{
		{
			name:   "create task",
			status: http.StatusBadGateway,
			call: func(c *Client) error {
				_, err := c.CreateTask(context.Background(), TaskCreate{Name: "x", Projects: []string{"p"}, Workspace: "w"})
				return err
			},
		},
		{
			name:   "project page",
			status: http.StatusInternalServerError,
			call: func(c *Client) error {
				_, err := c.ListProjectTasks(context.Background(), "p", ListOptions{Limit: 100})
				return err
			},
		},
		{
			name:   "recent tasks",
			status: http.StatusServiceUnavailable,
			call: func(c *Client) error {
				_, err := c.ListRecentTasks(context.Background(), "p", 50)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(context.Background(), "tok", WithBaseURL(srv.URL), WithRetry(cfg))
			err := tt.call(c)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestTaskURL(t *testing.T) {
	assert.Equal(t, "https://app.asana.com/0/123/456", TaskURL("123", "456"))
}
