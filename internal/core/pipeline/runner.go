// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/similigh/prlink/internal/core/config"
)

// Runner builds and runs the flow selected by the method input.
type Runner struct {
	Registry *Registry
	Deps     *Dependencies
	Config   *config.Config
	Log      zerolog.Logger

	// Wrap, when set, decorates every built step (e.g. progress reporting).
	Wrap func(Step) Step
}

// Run executes one invocation. A logger attached to ctx replaces r.Log. The
// returned context is non-nil whenever the flow was built, so callers can
// inspect partial results on error.
func (r *Runner) Run(ctx context.Context, in config.Inputs, pr *PullRequest) (*Context, error) {
	in.Method = ResolveMethod(in.Method)

	built, err := r.Registry.BuildFromNames(ResolveSteps(in.Method), r.Deps)
	if err != nil {
		return nil, err
	}

	p := built
	if r.Wrap != nil {
		wrapped := make([]Step, 0, len(built.Steps()))
		for _, step := range built.Steps() {
			wrapped = append(wrapped, r.Wrap(step))
		}
		p = New(wrapped...)
	}

	log := r.Log
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		log = *l
	}

	pCtx := NewContext(ctx, pr, in, r.Config, log)
	if err := p.Run(pCtx); err != nil {
		return pCtx, err
	}
	return pCtx, nil
}
