// Package depscope is a scoped, namespaced key-value dependency registry
// with context-local propagation: a lightweight alternative to
// constructor-based dependency injection.
//
// Callers publish values under a (namespace, key) pair with Provide and
// retrieve them later with Inject, possibly from deeply nested call
// scopes, without passing them through every function signature. Bindings
// live in a task-local state cell carried through context.Context, so
// each logical task sees an independent view.
//
// Scopes give bindings a dynamic extent. Entering a scope copies the
// current view; exiting it reinstalls the exact prior view regardless of
// how the scope was left:
//
//	reg := depscope.New()
//	reg.Provide(ctx, "db", conn)
//
//	err := reg.RunInScope(ctx, func(ctx context.Context) error {
//		reg.Provide(ctx, "db", testConn) // shadows the outer binding
//		return doWork(ctx)
//	})
//	// the outer "db" binding is active again here, even if doWork failed
//
// Goroutines do not automatically get their own view: a context value is
// shared by reference across goroutines. Use Fork, Go, or Group to hand a
// spawned task an independent copy of the caller's bindings as of the
// spawn instant.
//
// Lookup is strictly scoped: a miss in the active view is a miss, with no
// fallback to any global store. Strict lookups return a *NotFoundError;
// the Lenient option returns nil instead and logs a warning through the
// context's slog.Logger.
//
// The registry performs no internal locking. Each logical task owns its
// state cell exclusively; the one shared object is the Registry itself,
// which is read-only after construction apart from its root cell, owned
// by whichever single task operates on contexts that never passed through
// Fork.
package depscope
