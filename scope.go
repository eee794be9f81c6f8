package depscope

import (
	"context"

	"github.com/google/uuid"

	"github.com/vk/depscope/internal/ctxlog"
)

// Scope is the handle for one dynamic extent of bindings. Scopes nest in
// strict LIFO order matching the call stack; a handle must not be held
// past the extent that created it or exited out of order.
type Scope struct {
	cell   *slot
	prev   *state
	id     string
	exited bool
}

// EnterScope installs a copy of the active view as the new active view
// and returns a handle whose Exit restores the prior one. The copy
// duplicates each namespace's binding map; with the Deep option the bound
// values are duplicated too.
//
// Prefer RunInScope unless the enter and exit points cannot share a
// function body.
func (r *Registry) EnterScope(ctx context.Context, opts ...Option) *Scope {
	o := applyOptions(opts)
	cell := r.slotFrom(ctx)
	sc := &Scope{
		cell: cell,
		prev: cell.active,
		id:   uuid.NewString(),
	}
	cell.active = sc.prev.clone(o.deep)
	ctxlog.FromContext(ctx).Debug("Entered dependency scope.", "scope_id", sc.id, "deep", o.deep)
	return sc
}

// Exit reinstalls the exact view that was active when the scope was
// entered, not a recomputed equivalent. Restoration is a pure pointer
// assignment: it cannot fail and behaves the same on normal return, early
// return, or panic. Calling Exit more than once is a no-op.
func (sc *Scope) Exit() {
	if sc.exited {
		return
	}
	sc.exited = true
	sc.cell.active = sc.prev
}

// ID returns the scope's trace identifier, as emitted in debug logs.
func (sc *Scope) ID() string { return sc.id }

// RunInScope runs fn inside a fresh scope and guarantees restoration on
// every exit path, including panics and cancellation of the surrounding
// work. fn's error is returned unchanged.
func (r *Registry) RunInScope(ctx context.Context, fn func(context.Context) error, opts ...Option) error {
	sc := r.EnterScope(ctx, opts...)
	defer sc.Exit()
	return fn(ctx)
}
