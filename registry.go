package depscope

import (
	"context"
	"fmt"

	"github.com/vk/depscope/internal/ctxlog"
)

// DefaultNamespace is the namespace used when an operation does not name
// one explicitly.
const DefaultNamespace = "default"

// state is the complete namespace -> key -> value view active for one
// logical task at one instant.
type state struct {
	spaces map[string]map[string]any
}

func newState() *state {
	return &state{spaces: make(map[string]map[string]any)}
}

// namespace returns the named binding map, creating it on first write.
func (s *state) namespace(name string) map[string]any {
	ns, ok := s.spaces[name]
	if !ok {
		ns = make(map[string]any)
		s.spaces[name] = ns
	}
	return ns
}

// clone duplicates the namespace and binding map layers. With deep set it
// duplicates the bound values as well; otherwise the copy aliases the same
// value objects until one side provides a replacement.
func (s *state) clone(deep bool) *state {
	next := &state{spaces: make(map[string]map[string]any, len(s.spaces))}
	for name, bindings := range s.spaces {
		copied := make(map[string]any, len(bindings))
		for key, value := range bindings {
			if deep {
				value = deepCopyValue(value)
			}
			copied[key] = value
		}
		next.spaces[name] = copied
	}
	return next
}

// slot is the task-local cell holding a task's active state. Exactly one
// state is active per cell at any instant; scopes swap the pointer on
// enter and restore it on exit.
type slot struct {
	active *state
}

// slotKey is an unexported type to prevent collisions with context keys
// from other packages.
type slotKey struct{}

// Registry owns the binding store and the scope discipline. The zero
// value is not usable; construct one with New. A single Registry is meant
// to live for the process lifetime.
type Registry struct {
	root *slot
}

// New returns a Registry with an empty root view. Contexts that never
// passed through Fork share the root view; spawned tasks must be handed a
// forked context to get an isolated one.
func New() *Registry {
	return &Registry{root: &slot{active: newState()}}
}

// slotFrom returns the cell carried by ctx, or the registry's root cell
// when the context carries none.
func (r *Registry) slotFrom(ctx context.Context) *slot {
	if s, ok := ctx.Value(slotKey{}).(*slot); ok {
		return s
	}
	return r.root
}

// Provide inserts or overwrites the binding for key in the currently
// active view. The namespace is created on first write. Overwriting is
// silent; the last write wins.
func (r *Registry) Provide(ctx context.Context, key string, value any, opts ...Option) {
	o := applyOptions(opts)
	r.slotFrom(ctx).active.namespace(o.namespace)[key] = value
}

// Inject returns the value bound to key in the active view, with the same
// identity it was provided under. Lookup is strictly scoped: there is no
// fallback to any store outside the active view.
//
// A miss returns a *NotFoundError unless the Lenient option was given, in
// which case Inject returns (nil, nil) and logs a warning through the
// context's logger.
func (r *Registry) Inject(ctx context.Context, key string, opts ...Option) (any, error) {
	o := applyOptions(opts)
	st := r.slotFrom(ctx).active
	if bindings, ok := st.spaces[o.namespace]; ok {
		if value, ok := bindings[key]; ok {
			return value, nil
		}
	}
	if o.lenient {
		ctxlog.FromContext(ctx).Warn("Dependency not found, returning nil.",
			"key", key, "namespace", o.namespace)
		return nil, nil
	}
	return nil, &NotFoundError{Key: key, Namespace: o.namespace}
}

// Update replaces the binding for key with fn(current). On a strict miss
// it fails before fn is invoked and nothing is written. With Lenient, fn
// receives nil for a missing key and the result is written as usual.
func (r *Registry) Update(ctx context.Context, key string, fn func(any) any, opts ...Option) error {
	current, err := r.Inject(ctx, key, opts...)
	if err != nil {
		return err
	}
	r.Provide(ctx, key, fn(current), opts...)
	return nil
}

// Purge clears bindings in the active view only. With InNamespace it
// clears that namespace; otherwise it clears every namespace. Purging an
// absent namespace is a no-op. Views captured by enclosing scopes are
// separate objects and are not affected.
func (r *Registry) Purge(ctx context.Context, opts ...Option) {
	o := applyOptions(opts)
	st := r.slotFrom(ctx).active
	if o.namespaceSet {
		delete(st.spaces, o.namespace)
		return
	}
	st.spaces = make(map[string]map[string]any)
}

// Snapshot returns a copy of the active bindings for inspection, keyed by
// namespace. With InNamespace the result holds only that namespace.
// Mutating the returned maps never touches live registry state; the bound
// values themselves are not copied.
func (r *Registry) Snapshot(ctx context.Context, opts ...Option) map[string]map[string]any {
	o := applyOptions(opts)
	st := r.slotFrom(ctx).active
	out := make(map[string]map[string]any)
	for name, bindings := range st.spaces {
		if o.namespaceSet && name != o.namespace {
			continue
		}
		copied := make(map[string]any, len(bindings))
		for key, value := range bindings {
			copied[key] = value
		}
		out[name] = copied
	}
	return out
}

// Resolve looks up key on r and asserts the bound value's dynamic type.
// A lenient miss yields the zero value of T with a nil error.
func Resolve[T any](ctx context.Context, r *Registry, key string, opts ...Option) (T, error) {
	var zero T
	value, err := r.Inject(ctx, key, opts...)
	if err != nil {
		return zero, err
	}
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		o := applyOptions(opts)
		return zero, fmt.Errorf("depscope: dependency %q in namespace %q is %T, not %T",
			key, o.namespace, value, zero)
	}
	return typed, nil
}
