package performance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"perfsvc/internal/platform/crypto"
)

// Service runs the goal, review, PIP and feedback workflows. Each command
// loads the entity, applies the rules, persists it and then fires side
// effects (notifications, events) that never fail the command.
type Service struct {
	goals      GoalStore
	reviews    ReviewStore
	pips       PIPStore
	feedback   FeedbackStore
	employees  EmployeeDirectory
	notifier   Notifier
	publisher  EventPublisher
	anonymizer Anonymizer
	metrics    MetricsRecorder
	limits     Limits
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithAnonymizer(a Anonymizer) Option {
	return func(s *Service) {
		if a != nil {
			s.anonymizer = a
		}
	}
}

func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLimits(l Limits) Option {
	return func(s *Service) {
		s.limits = l
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the time source. Returned times are converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(stores Stores, employees EmployeeDirectory, opts ...Option) (*Service, error) {
	if stores.Goals == nil || stores.Reviews == nil || stores.PIPs == nil || stores.Feedback == nil {
		return nil, errors.New("performance: all stores are required")
	}
	if employees == nil {
		return nil, errors.New("performance: employee directory is required")
	}
	anonymizer, err := crypto.NewAnonymizer("")
	if err != nil {
		return nil, err
	}
	s := &Service{
		goals:      stores.Goals,
		reviews:    stores.Reviews,
		pips:       stores.PIPs,
		feedback:   stores.Feedback,
		employees:  employees,
		notifier:   noopNotifier{},
		publisher:  noopPublisher{},
		anonymizer: anonymizer,
		metrics:    noopMetrics{},
		limits:     DefaultLimits(),
		logger:     slog.Default(),
		tracer:     otel.Tracer("perfsvc/performance"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.limits.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "performance."+name)
}

// endSpan marks the span failed for infrastructure errors only; expected
// command failures are not trace errors.
func endSpan(span trace.Span, err error) {
	var perr *Error
	if err != nil && !errors.As(err, &perr) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) requireEmployee(ctx context.Context, employeeID uuid.UUID) error {
	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !exists {
		return notFoundError(msgEmployeeNotFound)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event", event.EventName(), "aggregateId", event.AggregateID(), "err", err)
	}
}
