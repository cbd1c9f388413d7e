// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/similigh/prlink/internal/integrations/asana"
	"github.com/similigh/prlink/internal/reviewer"
	"github.com/similigh/prlink/internal/taskmatch"
)

// Flow names, also accepted as the "method" input.
const (
	MethodCreate   = "create-task-pr-open"
	MethodAssign   = "assign-task-pr-review"
	MethodComplete = "close-task-pr-merge"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// Tracker is the Asana surface the steps use.
type Tracker interface {
	WorkspaceID(ctx context.Context) (string, error)
	FindUserByEmail(ctx context.Context, email, workspaceID string) *asana.User
	CreateTask(ctx context.Context, task asana.TaskCreate) (*asana.Task, error)
	AssignTask(ctx context.Context, taskID, assigneeID string) bool
}

// ReviewerResolver resolves a reviewer's email.
type ReviewerResolver interface {
	Resolve(ctx context.Context, login, repoSlug string) reviewer.Result
}

// TaskFinder finds the task tracking a pull request.
type TaskFinder interface {
	Find(ctx context.Context, prURL, projectID string) (*taskmatch.Match, bool)
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	Tracker   Tracker
	Reviewers ReviewerResolver
	Tasks     TaskFinder
	Log       zerolog.Logger
	DryRun    bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in flows.
var Presets = map[string][]string{
	// create-task-pr-open: create a review task when a pull request opens
	MethodCreate: {
		"gatekeeper",
		"workspace",
		"assignee_lookup",
		"task_composer",
		"task_creator",
	},

	// assign-task-pr-review: assign the task to the requested reviewer
	MethodAssign: {
		"gatekeeper",
		"reviewer_email",
		"task_matcher",
		"workspace",
		"assignee_required",
		"task_assigner",
	},

	// close-task-pr-merge: reserved, only the gatekeeper runs
	MethodComplete: {
		"gatekeeper",
	},
}

// GetPreset returns the step names for a preset flow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveMethod normalizes the method input. Empty or unknown methods fall
// back to the create flow.
func ResolveMethod(method string) string {
	if _, ok := Presets[method]; ok {
		return method
	}
	return MethodCreate
}

// ResolveSteps determines the steps to use for a method.
func ResolveSteps(method string) []string {
	return Presets[ResolveMethod(method)]
}
