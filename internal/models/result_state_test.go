package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItemsState(t *testing.T) {
	assert.Equal(t, StatusEmpty, ItemsState(nil).Status)
	assert.NotNil(t, ItemsState(nil).Items)

	s := ItemsState([]Product{{Title: "a"}})
	assert.Equal(t, StatusLoaded, s.Status)
	assert.True(t, s.HasItems())
	assert.False(t, s.IsPending())
}

func TestFailedState(t *testing.T) {
	s := FailedState("timeout")
	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, "timeout", s.Reason)
	assert.False(t, s.HasItems())
}

func TestSnapshotAnyItems(t *testing.T) {
	snap := Snapshot{Results: []ProviderState{
		{Provider: "amazon", State: LoadingState()},
		{Provider: "flipkart", State: FailedState("boom")},
	}}
	assert.False(t, snap.AnyItems())

	snap.Results[0].State = ItemsState([]Product{{Title: "a"}})
	assert.True(t, snap.AnyItems())
}

func TestNewSearchEvent(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rec := SearchRecord{
		Query:      "iphone",
		Providers:  []ProviderSummary{{Provider: "amazon", Status: StatusLoaded, Count: 5}},
		DurationMs: 120,
		CreatedAt:  now,
	}

	ev := NewSearchEvent(rec)
	assert.Equal(t, SearchCompletedPattern, ev.Pattern)
	assert.Equal(t, "iphone", ev.Query)
	assert.Equal(t, rec.Providers, ev.Providers)
	assert.Equal(t, now, ev.OccurredAt)
}

func TestObjectID(t *testing.T) {
	var zero ObjectID
	assert.True(t, zero.IsZero())

	id := NewObjectID()
	assert.False(t, id.IsZero())
	assert.Len(t, id.String(), 24)
}
