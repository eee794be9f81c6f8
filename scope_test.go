package depscope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/depscope"
)

func TestScopeIsolation(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k", "v")

	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		reg.Provide(ctx, "k", "v2")
		got, err := reg.Inject(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v2", got)
		return nil
	})
	require.NoError(t, err)

	got, err := reg.Inject(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestNestedScopesRestoreInLIFOOrder(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	mustInject := func() string {
		v, err := reg.Inject(ctx, "k")
		require.NoError(t, err)
		return v.(string)
	}

	reg.Provide(ctx, "k", "outer")

	outer := reg.EnterScope(ctx)
	reg.Provide(ctx, "k", "middle")

	middle := reg.EnterScope(ctx)
	reg.Provide(ctx, "k", "inner")
	require.Equal(t, "inner", mustInject())

	middle.Exit()
	require.Equal(t, "middle", mustInject())

	outer.Exit()
	require.Equal(t, "outer", mustInject())
}

func TestRunInScopeRestoresOnError(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k", "outer")

	wantErr := errors.New("body failed")
	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		reg.Provide(ctx, "k", "inner")
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	got, err := reg.Inject(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "outer", got)
}

func TestRunInScopeRestoresOnPanic(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k", "outer")

	require.PanicsWithValue(t, "boom", func() {
		_ = reg.RunInScope(ctx, func(ctx context.Context) error {
			reg.Provide(ctx, "k", "inner")
			panic("boom")
		})
	})

	got, err := reg.Inject(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "outer", got)
}

func TestScopeExitIsIdempotent(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k", "base")

	sc := reg.EnterScope(ctx)
	reg.Provide(ctx, "k", "scoped")
	sc.Exit()
	sc.Exit()

	got, err := reg.Inject(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "base", got)
}

func TestScopeRestoresIdenticalValues(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	conn := &struct{ addr string }{addr: "db"}
	reg.Provide(ctx, "conn", conn)

	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		reg.Provide(ctx, "conn", &struct{ addr string }{addr: "other"})
		return nil
	})
	require.NoError(t, err)

	got, err := reg.Inject(ctx, "conn")
	require.NoError(t, err)
	require.Same(t, conn, got, "exit must restore the prior view, not an equivalent")
}

func TestPurgeInsideScopeLeavesOuterIntact(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k1", "v1", depscope.InNamespace("A"))
	reg.Provide(ctx, "k2", "v2", depscope.InNamespace("B"))

	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		reg.Purge(ctx, depscope.InNamespace("A"))

		_, err := reg.Inject(ctx, "k1", depscope.InNamespace("A"))
		require.ErrorIs(t, err, depscope.ErrNotFound)

		// Other namespaces in the same scope are untouched.
		got, err := reg.Inject(ctx, "k2", depscope.InNamespace("B"))
		require.NoError(t, err)
		require.Equal(t, "v2", got)
		return nil
	})
	require.NoError(t, err)

	got, err := reg.Inject(ctx, "k1", depscope.InNamespace("A"))
	require.NoError(t, err)
	require.Equal(t, "v1", got)
}

func TestPurgeAll(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k1", "v1", depscope.InNamespace("A"))
	reg.Provide(ctx, "k2", "v2", depscope.InNamespace("B"))

	reg.Purge(ctx)

	_, err := reg.Inject(ctx, "k1", depscope.InNamespace("A"))
	require.ErrorIs(t, err, depscope.ErrNotFound)
	_, err = reg.Inject(ctx, "k2", depscope.InNamespace("B"))
	require.ErrorIs(t, err, depscope.ErrNotFound)
}

func TestPurgeAbsentNamespaceIsNoop(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	reg.Provide(ctx, "k", "v")
	reg.Purge(ctx, depscope.InNamespace("never-written"))

	got, err := reg.Inject(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestShallowScopeAliasesMutableValues(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	settings := map[string]string{"mode": "prod"}
	reg.Provide(ctx, "settings", settings)

	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		got, err := reg.Inject(ctx, "settings")
		require.NoError(t, err)
		got.(map[string]string)["mode"] = "test"
		return nil
	})
	require.NoError(t, err)

	// Shallow scopes only copy the mapping layers; the map value itself
	// was shared, so the inner mutation is visible outside.
	require.Equal(t, "test", settings["mode"])
}

func TestDeepScopeCopiesValues(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	settings := map[string]string{"mode": "prod"}
	reg.Provide(ctx, "settings", settings)

	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		got, err := reg.Inject(ctx, "settings")
		require.NoError(t, err)
		got.(map[string]string)["mode"] = "test"
		return nil
	}, depscope.Deep())
	require.NoError(t, err)

	require.Equal(t, "prod", settings["mode"])
}

type clonedFlag struct {
	Mode   string
	cloned bool
}

func (c *clonedFlag) CloneValue() any {
	return &clonedFlag{Mode: c.Mode, cloned: true}
}

func TestDeepScopeHonorsCloner(t *testing.T) {
	t.Parallel()

	reg := depscope.New()
	ctx := context.Background()

	original := &clonedFlag{Mode: "prod"}
	reg.Provide(ctx, "flag", original)

	err := reg.RunInScope(ctx, func(ctx context.Context) error {
		got, err := reg.Inject(ctx, "flag")
		require.NoError(t, err)

		inner := got.(*clonedFlag)
		require.NotSame(t, original, inner)
		require.True(t, inner.cloned)
		require.Equal(t, "prod", inner.Mode)

		inner.Mode = "test"
		return nil
	}, depscope.Deep())
	require.NoError(t, err)

	require.Equal(t, "prod", original.Mode)
}
