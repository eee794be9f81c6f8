package depscope

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Fork returns a context carrying an independent copy of the caller's
// active bindings, captured at the call instant. Hand the result to a
// spawned goroutine: writes in either task then diverge without affecting
// the other.
//
// Handing a goroutine the parent's own context instead would share the
// parent's task-local cell, and mutations would leak between the two
// tasks. Losing the bindings entirely, by building a fresh context in the
// goroutine, shows up as spurious NotFoundError misses.
func (r *Registry) Fork(ctx context.Context) context.Context {
	st := r.slotFrom(ctx).active
	return context.WithValue(ctx, slotKey{}, &slot{active: st.clone(false)})
}

// Go runs fn on a new goroutine with a forked view of the caller's
// bindings.
func (r *Registry) Go(ctx context.Context, fn func(context.Context)) {
	forked := r.Fork(ctx)
	go fn(forked)
}

// Group runs a set of concurrent tasks, each with its own forked view of
// the bindings that were active when the group was created. It wraps
// errgroup.Group, so the first task error cancels the group context and
// is reported by Wait.
type Group struct {
	reg *Registry
	ctx context.Context
	eg  *errgroup.Group
}

// NewGroup returns a Group derived from ctx.
func (r *Registry) NewGroup(ctx context.Context) *Group {
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{reg: r, ctx: gctx, eg: eg}
}

// Go submits fn with a view forked from the group's parent context.
func (g *Group) Go(fn func(context.Context) error) {
	forked := g.reg.Fork(g.ctx)
	g.eg.Go(func() error { return fn(forked) })
}

// Wait blocks until every submitted task has returned and reports the
// first error.
func (g *Group) Wait() error { return g.eg.Wait() }
