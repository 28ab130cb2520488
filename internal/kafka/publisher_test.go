package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	p, err := newPublisher(w, "price-compare.searches")
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	event := models.NewSearchEvent(models.SearchRecord{
		Query: "iphone",
		Providers: []models.ProviderSummary{
			{Provider: "amazon", Status: models.StatusLoaded, Count: 5},
		},
		DurationMs: 120,
		CreatedAt:  at,
	})
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "iphone", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Equal(t, "pattern", msg.Headers[0].Key)
	assert.Equal(t, models.SearchCompletedPattern, string(msg.Headers[0].Value))

	var decoded models.SearchEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "iphone", decoded.Query)
	assert.Equal(t, 5, decoded.Providers[0].Count)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p, err := newPublisher(w, "t")
	require.NoError(t, err)

	err = p.Publish(context.Background(), models.SearchEvent{Query: "x"})
	assert.ErrorContains(t, err, "broker down")
}

func TestNewEventPublisherDisabled(t *testing.T) {
	p, err := NewEventPublisher(&config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), models.SearchEvent{}))
	assert.NoError(t, p.Close())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, "ok", statusOf(nil))
	assert.Equal(t, "timeout", statusOf(context.DeadlineExceeded))
	assert.Equal(t, "canceled", statusOf(context.Canceled))
	assert.Equal(t, "error", statusOf(errors.New("x")))
}
