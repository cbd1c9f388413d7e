// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/similigh/prlink/internal/core/config"
	"github.com/similigh/prlink/internal/core/pipeline"
	"github.com/similigh/prlink/internal/integrations/asana"
	"github.com/similigh/prlink/internal/reviewer"
	"github.com/similigh/prlink/internal/taskmatch"
)

type fakeTracker struct {
	workspace    string
	workspaceErr error
	users        map[string]*asana.User
	createErr    error
	assignOK     bool

	workspaceCalls int
	lookups        []string
	created        []asana.TaskCreate
	assigned       [][2]string
}

func (f *fakeTracker) WorkspaceID(ctx context.Context) (string, error) {
	f.workspaceCalls++
	return f.workspace, f.workspaceErr
}

func (f *fakeTracker) FindUserByEmail(ctx context.Context, email, workspaceID string) *asana.User {
	f.lookups = append(f.lookups, email)
	return f.users[email]
}

func (f *fakeTracker) CreateTask(ctx context.Context, task asana.TaskCreate) (*asana.Task, error) {
	f.created = append(f.created, task)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &asana.Task{GID: "5001", Name: task.Name}, nil
}

func (f *fakeTracker) AssignTask(ctx context.Context, taskID, assigneeID string) bool {
	f.assigned = append(f.assigned, [2]string{taskID, assigneeID})
	return f.assignOK
}

type fakeReviewers struct {
	result reviewer.Result
	calls  []string
}

func (f *fakeReviewers) Resolve(ctx context.Context, login, repoSlug string) reviewer.Result {
	f.calls = append(f.calls, login+"@"+repoSlug)
	return f.result
}

type fakeFinder struct {
	match *taskmatch.Match
	calls int
}

func (f *fakeFinder) Find(ctx context.Context, prURL, projectID string) (*taskmatch.Match, bool) {
	f.calls++
	return f.match, f.match != nil
}

var dana = &asana.User{GID: "u1", Name: "Dana", Email: "dana@example.com"}

func testPR() *pipeline.PullRequest {
	return &pipeline.PullRequest{
		URL:         "https://github.com/acme/api/pull/17",
		Description: "Adds login",
		Author:      "octocat",
		Branch:      "feat/login",
		Title:       "Add login",
		Number:      17,
		Repository:  "acme/api",
	}
}

func runFlow(t *testing.T, deps *pipeline.Dependencies, in config.Inputs) (*pipeline.Context, error) {
	t.Helper()
	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	in.Method = pipeline.ResolveMethod(in.Method)
	p, err := registry.BuildFromNames(pipeline.ResolveSteps(in.Method), deps)
	require.NoError(t, err)

	ctx := pipeline.NewContext(context.Background(), testPR(), in, config.Default(), zerolog.Nop())
	return ctx, p.Run(ctx)
}

func TestCreateFlowWithKnownAssignee(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1", users: map[string]*asana.User{dana.Email: dana}}
	deps := &pipeline.Dependencies{Tracker: tracker}

	ctx, err := runFlow(t, deps, config.Inputs{ProjectID: "100", AssigneeEmail: dana.Email, TagID: "7"})
	require.NoError(t, err)

	require.Len(t, tracker.created, 1)
	task := tracker.created[0]
	assert.Equal(t, "Code Review: [feat/login]", task.Name)
	assert.Equal(t, []string{"100"}, task.Projects)
	assert.Equal(t, "ws1", task.Workspace)
	assert.Equal(t, "u1", task.Assignee)
	assert.Equal(t, []string{"7"}, task.Tags)
	assert.Contains(t, task.Notes, "\\*Branch Author:\\*\n Dana")

	assert.Equal(t, map[string]string{
		"taskId":  "5001",
		"taskUrl": "https://app.asana.com/0/100/5001",
	}, ctx.Result.Outputs())
}

func TestCreateFlowUnknownAssigneeKeepsAuthor(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1"}
	deps := &pipeline.Dependencies{Tracker: tracker}

	_, err := runFlow(t, deps, config.Inputs{ProjectID: "100", AssigneeEmail: "ghost@example.com"})
	require.NoError(t, err)

	require.Len(t, tracker.created, 1)
	assert.Empty(t, tracker.created[0].Assignee)
	assert.Nil(t, tracker.created[0].Tags)
	assert.Contains(t, tracker.created[0].Notes, "\\*Branch Author:\\*\n octocat")
}

func TestCreateFlowWithoutEmailSkipsLookup(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1"}
	_, err := runFlow(t, &pipeline.Dependencies{Tracker: tracker}, config.Inputs{ProjectID: "100"})
	require.NoError(t, err)

	assert.Empty(t, tracker.lookups)
	assert.Len(t, tracker.created, 1)
}

func TestCreateFlowFatalErrors(t *testing.T) {
	t.Run("workspace", func(t *testing.T) {
		tracker := &fakeTracker{workspaceErr: errors.New("unauthorized")}
		_, err := runFlow(t, &pipeline.Dependencies{Tracker: tracker}, config.Inputs{ProjectID: "100"})
		require.Error(t, err)
		assert.Empty(t, tracker.created)
	})

	t.Run("create", func(t *testing.T) {
		apiErr := &asana.APIError{StatusCode: 400, Status: "400 Bad Request"}
		tracker := &fakeTracker{workspace: "ws1", createErr: apiErr}
		ctx, err := runFlow(t, &pipeline.Dependencies{Tracker: tracker}, config.Inputs{ProjectID: "100"})
		require.Error(t, err)

		var target *asana.APIError
		assert.ErrorAs(t, err, &target)
		assert.Empty(t, ctx.Result.Outputs())
	})
}

func TestCreateFlowDryRun(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1"}
	ctx, err := runFlow(t, &pipeline.Dependencies{Tracker: tracker, DryRun: true}, config.Inputs{ProjectID: "100"})
	require.NoError(t, err)

	assert.Empty(t, tracker.created)
	assert.True(t, ctx.Result.Skipped)
	assert.Equal(t, "dry run", ctx.Result.SkipReason)
}

func TestWorkspaceFromConfigSkipsLookup(t *testing.T) {
	tracker := &fakeTracker{workspace: "remote"}
	step := NewWorkspace(&pipeline.Dependencies{Tracker: tracker})

	cfg := config.Default()
	cfg.Asana.WorkspaceID = "configured"
	ctx := pipeline.NewContext(context.Background(), testPR(), config.Inputs{}, cfg, zerolog.Nop())

	require.NoError(t, step.Run(ctx))
	assert.Equal(t, "configured", ctx.WorkspaceID)
	assert.Zero(t, tracker.workspaceCalls)
}

func assignDeps(tracker *fakeTracker, reviewers *fakeReviewers, finder *fakeFinder) *pipeline.Dependencies {
	return &pipeline.Dependencies{Tracker: tracker, Reviewers: reviewers, Tasks: finder}
}

func TestAssignFlowResolvesEverything(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1", users: map[string]*asana.User{dana.Email: dana}, assignOK: true}
	reviewers := &fakeReviewers{result: reviewer.Result{Login: "dana-gh", Email: dana.Email}}
	finder := &fakeFinder{match: &taskmatch.Match{TaskID: "900", Strategy: "exact"}}

	ctx, err := runFlow(t, assignDeps(tracker, reviewers, finder), config.Inputs{
		Method:        pipeline.MethodAssign,
		ProjectID:     "100",
		ReviewerLogin: "dana-gh",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dana-gh@acme/api"}, reviewers.calls)
	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, [][2]string{{"900", "u1"}}, tracker.assigned)
	assert.Equal(t, "exact", ctx.Result.MatchedBy)
	assert.Equal(t, map[string]string{"assigned": "true", "assignee": "Dana"}, ctx.Result.Outputs())
}

func TestAssignFlowUsesEventReviewer(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1", users: map[string]*asana.User{dana.Email: dana}, assignOK: true}
	reviewers := &fakeReviewers{result: reviewer.Result{Email: dana.Email}}
	finder := &fakeFinder{match: &taskmatch.Match{TaskID: "900"}}

	registry := pipeline.NewRegistry()
	RegisterAll(registry)
	p, err := registry.BuildFromNames(pipeline.ResolveSteps(pipeline.MethodAssign), assignDeps(tracker, reviewers, finder))
	require.NoError(t, err)

	pr := testPR()
	pr.Reviewer = "from-event"
	ctx := pipeline.NewContext(context.Background(), pr, config.Inputs{Method: pipeline.MethodAssign, ProjectID: "100"}, config.Default(), zerolog.Nop())
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, []string{"from-event@acme/api"}, reviewers.calls)
}

func TestAssignFlowShortCircuits(t *testing.T) {
	tests := []struct {
		name       string
		in         config.Inputs
		reviewers  *fakeReviewers
		finder     *fakeFinder
		users      map[string]*asana.User
		wantReason string
		wantFinds  int
	}{
		{
			name:       "automated reviewer",
			in:         config.Inputs{ReviewerLogin: "Copilot"},
			reviewers:  &fakeReviewers{result: reviewer.Result{Login: "Copilot", Skip: true}},
			finder:     &fakeFinder{match: &taskmatch.Match{TaskID: "900"}},
			wantReason: "reviewer email not resolved",
		},
		{
			name:       "email not found",
			in:         config.Inputs{ReviewerLogin: "ghost"},
			reviewers:  &fakeReviewers{result: reviewer.Result{Login: "ghost"}},
			finder:     &fakeFinder{match: &taskmatch.Match{TaskID: "900"}},
			wantReason: "reviewer email not resolved",
		},
		{
			name:       "no task",
			in:         config.Inputs{AssigneeEmail: dana.Email},
			reviewers:  &fakeReviewers{},
			finder:     &fakeFinder{},
			wantReason: "no task found for pull request",
			wantFinds:  1,
		},
		{
			name:       "assignee not in workspace",
			in:         config.Inputs{AssigneeEmail: "ghost@example.com", TaskID: "900"},
			reviewers:  &fakeReviewers{},
			finder:     &fakeFinder{},
			wantReason: "assignee not found in workspace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &fakeTracker{workspace: "ws1", users: map[string]*asana.User{dana.Email: dana}, assignOK: true}
			tt.in.Method = pipeline.MethodAssign
			tt.in.ProjectID = "100"

			ctx, err := runFlow(t, assignDeps(tracker, tt.reviewers, tt.finder), tt.in)
			require.NoError(t, err)

			assert.True(t, ctx.Result.Skipped)
			assert.Equal(t, tt.wantReason, ctx.Result.SkipReason)
			assert.Equal(t, tt.wantFinds, tt.finder.calls)
			assert.Empty(t, tracker.assigned)
			assert.Empty(t, ctx.Result.Outputs())
		})
	}
}

func TestAssignFlowWithTaskIDSkipsSearch(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1", users: map[string]*asana.User{dana.Email: dana}, assignOK: true}
	reviewers := &fakeReviewers{}
	finder := &fakeFinder{}

	_, err := runFlow(t, assignDeps(tracker, reviewers, finder), config.Inputs{
		Method:        pipeline.MethodAssign,
		TaskID:        "42",
		AssigneeEmail: dana.Email,
	})
	require.NoError(t, err)

	assert.Empty(t, reviewers.calls)
	assert.Zero(t, finder.calls)
	assert.Equal(t, [][2]string{{"42", "u1"}}, tracker.assigned)
}

func TestAssignFlowRefusedAssignmentIsFatal(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1", users: map[string]*asana.User{dana.Email: dana}, assignOK: false}

	ctx, err := runFlow(t, assignDeps(tracker, &fakeReviewers{}, &fakeFinder{}), config.Inputs{
		Method:        pipeline.MethodAssign,
		TaskID:        "42",
		AssigneeEmail: dana.Email,
	})
	require.Error(t, err)

	var assignErr *pipeline.AssignmentError
	require.ErrorAs(t, err, &assignErr)
	assert.Equal(t, "Dana", assignErr.Assignee)
	assert.Equal(t, "❌ Failed to assign task to Dana", pipeline.FailureMessage(pipeline.MethodAssign, err))
	assert.False(t, ctx.Result.Assigned)
}

func TestCompleteMethodIsNoOp(t *testing.T) {
	tracker := &fakeTracker{workspace: "ws1"}
	ctx, err := runFlow(t, &pipeline.Dependencies{Tracker: tracker}, config.Inputs{Method: pipeline.MethodComplete})
	require.NoError(t, err)

	assert.True(t, ctx.Result.Skipped)
	assert.Zero(t, tracker.workspaceCalls)
}

func TestGatekeeperRequiresPullRequest(t *testing.T) {
	ctx := pipeline.NewContext(context.Background(), nil, config.Inputs{}, config.Default(), zerolog.Nop())
	err := NewGatekeeper(&pipeline.Dependencies{}).Run(ctx)
	assert.ErrorIs(t, err, pipeline.ErrNoPullRequest)
}

func TestRegisterAllRequiresClients(t *testing.T) {
	registry := pipeline.NewRegistry()
	RegisterAll(registry)

	_, err := registry.BuildFromNames(pipeline.ResolveSteps(pipeline.MethodAssign), &pipeline.Dependencies{})
	assert.Error(t, err)
}
