package depscope

import "context"

// defaultRegistry backs the package-level convenience functions. The
// slog.Default pattern is used deliberately: one process-wide instance
// with an explicit accessor, so programs that want full isolation can
// construct their own Registry and ignore this one entirely.
var defaultRegistry = New()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry { return defaultRegistry }

// SetDefault replaces the process-wide registry. Call it during program
// startup or test setup, before any task-local state exists.
func SetDefault(r *Registry) { defaultRegistry = r }

// Provide binds key to value on the default registry.
func Provide(ctx context.Context, key string, value any, opts ...Option) {
	defaultRegistry.Provide(ctx, key, value, opts...)
}

// Inject looks up key on the default registry.
func Inject(ctx context.Context, key string, opts ...Option) (any, error) {
	return defaultRegistry.Inject(ctx, key, opts...)
}

// Update applies a read-modify-write to key on the default registry.
func Update(ctx context.Context, key string, fn func(any) any, opts ...Option) error {
	return defaultRegistry.Update(ctx, key, fn, opts...)
}

// EnterScope opens a scope on the default registry.
func EnterScope(ctx context.Context, opts ...Option) *Scope {
	return defaultRegistry.EnterScope(ctx, opts...)
}

// RunInScope runs fn inside a scope on the default registry.
func RunInScope(ctx context.Context, fn func(context.Context) error, opts ...Option) error {
	return defaultRegistry.RunInScope(ctx, fn, opts...)
}

// Purge clears bindings in the default registry's active view.
func Purge(ctx context.Context, opts ...Option) {
	defaultRegistry.Purge(ctx, opts...)
}

// Snapshot copies the default registry's active bindings for inspection.
func Snapshot(ctx context.Context, opts ...Option) map[string]map[string]any {
	return defaultRegistry.Snapshot(ctx, opts...)
}

// Fork copies the active view of the default registry into a new context
// for a spawned task.
func Fork(ctx context.Context) context.Context {
	return defaultRegistry.Fork(ctx)
}

// Go spawns fn with a forked view of the default registry's bindings.
func Go(ctx context.Context, fn func(context.Context)) {
	defaultRegistry.Go(ctx, fn)
}
