// Package ctxval lets deep callees annotate a request after the context was
// created, so outer middleware (request logging) can read the annotations back.
package ctxval

import (
	"context"
	"sync"
)

// Wrap attaches a mutable value bag to ctx. Wrapping twice is a no-op.
func Wrap(ctx context.Context) context.Context {
	if _, ok := getBag(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, defKey, &bag{values: make(map[any]any)})
}

func Set[K comparable, V any](ctx context.Context, k K, v V) {
	b, ok := getBag(ctx)
	if !ok {
		return
	}
	b.set(k, v)
}

func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	b, ok := getBag(ctx)
	if !ok {
		return *new(V), false
	}
	v, ok := b.get(k).(V)
	return v, ok
}

// Pairs returns every string-keyed annotation as alternating key/value
// pairs, in the order the keys were first set.
func Pairs(ctx context.Context) []any {
	b, ok := getBag(ctx)
	if !ok {
		return nil
	}
	return b.pairs()
}

type ctxKey struct{}

var defKey = ctxKey{}

type bag struct {
	m      sync.Mutex
	values map[any]any
	order  []string
}

func (b *bag) get(key any) any {
	b.m.Lock()
	defer b.m.Unlock()
	return b.values[key]
}

func (b *bag) set(key any, value any) {
	b.m.Lock()
	defer b.m.Unlock()
	if s, ok := key.(string); ok {
		if _, exists := b.values[key]; !exists {
			b.order = append(b.order, s)
		}
	}
	b.values[key] = value
}

func (b *bag) pairs() []any {
	b.m.Lock()
	defer b.m.Unlock()
	out := make([]any, 0, len(b.order)*2)
	for _, k := range b.order {
		out = append(out, k, b.values[k])
	}
	return out
}

func getBag(ctx context.Context) (*bag, bool) {
	b, ok := ctx.Value(defKey).(*bag)
	return b, ok
}
