package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"perfsvc/internal/domain/performance"
)

const (
	TypeEmployeeCreated    = "EmployeeCreated"
	TypeEmployeeTerminated = "EmployeeTerminated"
)

// EmployeeMessage is the employee service's lifecycle event. Fields not
// relevant to the event type are zero.
type EmployeeMessage struct {
	Type              string     `json:"type"`
	EmployeeID        uuid.UUID  `json:"employee_id"`
	EmployeeNumber    string     `json:"employee_number,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	ManagerID         *uuid.UUID `json:"manager_id,omitempty"`
	TerminationDate   *time.Time `json:"termination_date,omitempty"`
	TerminationReason string     `json:"termination_reason,omitempty"`
}

type Terminator interface {
	HandleEmployeeTerminated(ctx context.Context, employeeID uuid.UUID) (performance.TerminationResult, error)
}

// Invalidator drops cached employee data.
type Invalidator interface {
	Invalidate(ctx context.Context, employeeID uuid.UUID) error
}

// Dispatcher routes decoded employee messages to the performance service.
type Dispatcher struct {
	terminator  Terminator
	invalidator Invalidator
	logger      *slog.Logger
}

func NewDispatcher(terminator Terminator, invalidator Invalidator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{terminator: terminator, invalidator: invalidator, logger: logger}
}

// Handle processes one raw message. Unknown types are skipped; malformed
// messages return an error so the caller can log and move on.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) error {
	var msg EmployeeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("decode employee message: %w", err)
	}
	if msg.EmployeeID == uuid.Nil {
		return errors.New("employee message without employee_id")
	}
	switch msg.Type {
	case TypeEmployeeCreated:
		d.logger.InfoContext(ctx, "employee created", "employeeId", msg.EmployeeID, "employeeNumber", msg.EmployeeNumber)
		return nil
	case TypeEmployeeTerminated:
		if d.invalidator != nil {
			if err := d.invalidator.Invalidate(ctx, msg.EmployeeID); err != nil {
				d.logger.WarnContext(ctx, "employee cache invalidation failed", "employeeId", msg.EmployeeID, "err", err)
			}
		}
		if _, err := d.terminator.HandleEmployeeTerminated(ctx, msg.EmployeeID); err != nil {
			return fmt.Errorf("terminate %s: %w", msg.EmployeeID, err)
		}
		return nil
	default:
		d.logger.DebugContext(ctx, "employee message ignored", "type", msg.Type)
		return nil
	}
}

// Consumer reads the employee topic as part of a consumer group and
// commits offsets after each polled batch has been handled.
type Consumer struct {
	client     *kgo.Client
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewConsumer(brokers []string, topic, group string, dispatcher *Dispatcher, logger *slog.Logger) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("events: at least one kafka broker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return &Consumer{client: client, dispatcher: dispatcher, logger: logger}, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		for _, fe := range fetches.Errors() {
			c.logger.Warn("kafka fetch failed", "topic", fe.Topic, "partition", fe.Partition, "err", fe.Err)
		}
		fetches.EachRecord(func(record *kgo.Record) {
			if err := c.dispatcher.Handle(ctx, record.Value); err != nil {
				c.logger.Error("employee message failed", "topic", record.Topic, "offset", record.Offset, "err", err)
			}
		})
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warn("kafka commit failed", "err", err)
		}
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}
