package di_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restkit/core/di"
)

func TestContainerResolve(t *testing.T) {
	t.Parallel()

	t.Run("lazy singleton", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := di.New()
		require.NoError(t, c.Register("counter", func(r *di.Resolver) (any, error) {
			calls.Add(1)
			return "instance", nil
		}))

		assert.Zero(t, calls.Load(), "provider must not run before first resolve")

		for i := 0; i < 3; i++ {
			v, err := c.Resolve("counter")
			require.NoError(t, err)
			assert.Equal(t, "instance", v)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("dependencies resolve through the provider resolver", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, c.Register("config", func(r *di.Resolver) (any, error) {
			return map[string]string{"dsn": "postgres://localhost"}, nil
		}))
		require.NoError(t, c.Register("repo", func(r *di.Resolver) (any, error) {
			cfg, err := di.ResolveAs[map[string]string](r, "config")
			if err != nil {
				return nil, err
			}
			return "repo(" + cfg["dsn"] + ")", nil
		}))

		v, err := di.Resolve[string](c, "repo")
		require.NoError(t, err)
		assert.Equal(t, "repo(postgres://localhost)", v)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()

		_, err := di.New().Resolve("missing")
		assert.ErrorIs(t, err, di.ErrProviderNotFound)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		p := func(r *di.Resolver) (any, error) { return nil, nil }
		require.NoError(t, c.Register("svc", p))
		assert.ErrorIs(t, c.Register("svc", p), di.ErrDuplicateProvider)
	})

	t.Run("type mismatch", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, c.Register("svc", func(r *di.Resolver) (any, error) {
			return 42, nil
		}))

		_, err := di.Resolve[string](c, "svc")
		assert.Error(t, err)
	})
}

func TestContainerCycleDetection(t *testing.T) {
	t.Parallel()

	t.Run("direct cycle", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, c.Register("a", func(r *di.Resolver) (any, error) {
			return r.Resolve("a")
		}))

		_, err := c.Resolve("a")
		assert.ErrorIs(t, err, di.ErrCircularDependency)
	})

	t.Run("transitive cycle reports the path", func(t *testing.T) {
		t.Parallel()

		c := di.New()
		require.NoError(t, c.Register("a", func(r *di.Resolver) (any, error) {
			return r.Resolve("b")
		}))
		require.NoError(t, c.Register("b", func(r *di.Resolver) (any, error) {
			return r.Resolve("c")
		}))
		require.NoError(t, c.Register("c", func(r *di.Resolver) (any, error) {
			return r.Resolve("a")
		}))

		_, err := c.Resolve("a")
		require.ErrorIs(t, err, di.ErrCircularDependency)
		assert.Contains(t, err.Error(), "a -> b -> c -> a")
	})
}

func TestContainerConcurrentResolve(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := di.New()
	require.NoError(t, c.Register("svc", func(r *di.Resolver) (any, error) {
		calls.Add(1)
		return "ok", nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Resolve("svc")
			assert.NoError(t, err)
			assert.Equal(t, "ok", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
