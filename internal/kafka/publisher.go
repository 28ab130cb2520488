package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/price-compare/internal/config"
	"github.com/nguyentranbao-ct/price-compare/internal/models"
	"github.com/nguyentranbao-ct/price-compare/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
)

// EventPublisher announces completed searches to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event models.SearchEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer  messageWriter
	topic   string
	metrics *prometheus.HistogramVec
}

// NewEventPublisher creates a Kafka publisher, or a noop one when Kafka is disabled.
func NewEventPublisher(cfg *config.KafkaConfig) (EventPublisher, error) {
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
	return newPublisher(writer, cfg.Topic)
}

func newPublisher(writer messageWriter, topic string) (*kafkaPublisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_published",
		"Duration of publishing one search event.", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaPublisher{
		writer:  writer,
		topic:   topic,
		metrics: metrics,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event models.SearchEvent) error {
	start := time.Now()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal search event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Query),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "pattern", Value: []byte(event.Pattern)},
		},
	}
	err = p.writer.WriteMessages(ctx, msg)

	status := statusOf(err)
	log.Logw(ctx, getLogLevel(status), "publish search event",
		"status", status,
		"topic", p.topic,
		"pattern", event.Pattern,
		"query", event.Query,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	p.metrics.
		WithLabelValues(status, p.topic).
		Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func getLogLevel(status string) logger.Level {
	switch status {
	case "ok":
		return logger.InfoLevel
	case "canceled":
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}

// noopPublisher is used when Kafka is disabled
type noopPublisher struct{}

func (n *noopPublisher) Publish(ctx context.Context, event models.SearchEvent) error {
	log.Debugw(ctx, "kafka disabled, drop search event", "query", event.Query)
	return nil
}

func (n *noopPublisher) Close() error {
	return nil
}
