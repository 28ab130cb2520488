package ctxval_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nguyentranbao-ct/price-compare/pkg/ctxval"
	"github.com/stretchr/testify/assert"
)

func TestWithValue(t *testing.T) {
	t.Parallel()
	type testKey string
	type testValue string

	t.Run("Set and Get Value", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		ctxval.Set(ctx, testKey("key1"), testValue("value1"))
		got, ok := ctxval.Get[testKey, testValue](ctx, testKey("key1"))

		assert.True(t, ok)
		assert.Equal(t, testValue("value1"), got)
	})

	t.Run("Overwrite Value", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		ctxval.Set(ctx, testKey("key1"), testValue("value1"))
		ctxval.Set(ctx, testKey("key1"), testValue("value2"))
		got, _ := ctxval.Get[testKey, testValue](ctx, testKey("key1"))

		assert.Equal(t, testValue("value2"), got)
	})

	t.Run("Get Non-Existent Value", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		_, ok := ctxval.Get[testKey, testValue](ctx, testKey("key1"))

		assert.False(t, ok)
	})

	t.Run("Unwrapped context is ignored", func(t *testing.T) {
		ctx := context.Background()
		ctxval.Set(ctx, "k", "v")
		_, ok := ctxval.Get[string, string](ctx, "k")

		assert.False(t, ok)
		assert.Nil(t, ctxval.Pairs(ctx))
	})

	t.Run("Wrap is idempotent", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		ctxval.Set(ctx, "k", "v")
		ctx = ctxval.Wrap(ctx)
		got, ok := ctxval.Get[string, string](ctx, "k")

		assert.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("Child context sees annotations", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		child, cancel := context.WithCancel(ctx)
		defer cancel()
		ctxval.Set(child, "search_token", uint64(3))
		got, ok := ctxval.Get[string, uint64](ctx, "search_token")

		assert.True(t, ok)
		assert.Equal(t, uint64(3), got)
	})
}

func TestPairs(t *testing.T) {
	t.Parallel()

	ctx := ctxval.Wrap(t.Context())
	ctxval.Set(ctx, "session_id", "s1")
	ctxval.Set(ctx, 42, "not a string key")
	ctxval.Set(ctx, "search_token", uint64(7))
	ctxval.Set(ctx, "session_id", "s2")

	assert.Equal(t, []any{"session_id", "s2", "search_token", uint64(7)}, ctxval.Pairs(ctx))
}

func TestConcurrentOperations(t *testing.T) {
	t.Parallel()

	ctx := ctxval.Wrap(t.Context())
	const numGoroutines = 50
	const numOperations = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := range numGoroutines {
		go func(routineID int) {
			defer wg.Done()
			for j := range numOperations {
				ctxval.Set(ctx, fmt.Sprintf("key-%d", j%10), fmt.Sprintf("value-%d-%d", routineID, j))
			}
		}(i)
	}

	for range numGoroutines {
		go func() {
			defer wg.Done()
			for j := range numOperations {
				_, _ = ctxval.Get[string, string](ctx, fmt.Sprintf("key-%d", j%10))
				_ = ctxval.Pairs(ctx)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ctxval.Pairs(ctx), 20)
}
