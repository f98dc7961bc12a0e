package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"perfsvc/internal/domain/performance"
)

var ErrPublisherClosed = errors.New("event publisher closed")

// Envelope is the wire form of every published domain event.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func encode(event performance.Event, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	return json.Marshal(Envelope{Type: event.EventName(), OccurredAt: at.UTC(), Payload: payload})
}

// KafkaPublisher writes events to one topic keyed by aggregate id so all
// events of an aggregate land on the same partition.
type KafkaPublisher struct {
	client *kgo.Client
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("events: at least one kafka broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, now: time.Now}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event performance.Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	value, err := encode(event, p.now())
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(event.EventName())},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", event.EventName(), err)
	}
	return nil
}

func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.client.Close()
}

// LogPublisher writes events to the structured log. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event performance.Event) error {
	p.logger.InfoContext(ctx, "domain event", "event", event.EventName(), "aggregateId", event.AggregateID())
	return nil
}

var (
	_ performance.EventPublisher = (*KafkaPublisher)(nil)
	_ performance.EventPublisher = (*LogPublisher)(nil)
)
