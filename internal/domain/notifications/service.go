package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"perfsvc/internal/domain/performance"
	"perfsvc/internal/platform/employees"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Recipients resolves an employee to a mailbox.
type Recipients interface {
	Get(ctx context.Context, id uuid.UUID) (employees.Employee, error)
}

type Service struct {
	store      StoreAPI
	mailer     Mailer
	recipients Recipients
	from       string
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

func WithMailer(m Mailer, recipients Recipients, from string) Option {
	return func(s *Service) {
		s.mailer = m
		s.recipients = recipients
		if from != "" {
			s.from = from
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(store StoreAPI, opts ...Option) *Service {
	s := &Service{
		store:  store,
		from:   "no-reply@example.com",
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores an in-app notification and, when a mailer is configured,
// emails it. Email failures are logged and do not fail the call.
func (s *Service) Create(ctx context.Context, employeeID uuid.UUID, ntype, title, body string, entityID *uuid.UUID) error {
	n := Notification{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Type:       ntype,
		Title:      title,
		Body:       body,
		EntityID:   entityID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if s.mailer == nil || s.recipients == nil {
		return nil
	}
	employee, err := s.recipients.Get(ctx, employeeID)
	if err != nil {
		s.logger.Warn("notification email lookup failed", "employeeId", employeeID, "err", err)
		return nil
	}
	if employee.Email == "" {
		return nil
	}
	if err := s.mailer.Send(ctx, s.from, employee.Email, title, body); err != nil {
		s.logger.Warn("notification email send failed", "employeeId", employeeID, "type", ntype, "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]Notification, int, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.store.ListNotifications(ctx, employeeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountNotifications(ctx, employeeID)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Notification{}
	}
	return items, total, nil
}

func (s *Service) MarkRead(ctx context.Context, employeeID, notificationID uuid.UUID) error {
	return s.store.MarkRead(ctx, employeeID, notificationID)
}

func (s *Service) GoalAtRisk(ctx context.Context, employeeID, goalID uuid.UUID) error {
	return s.Create(ctx, employeeID, TypeGoalAtRisk,
		"Goal at risk",
		"One of your goals has been marked at risk. Review the progress log and agree next steps with your manager.",
		&goalID)
}

func (s *Service) DataVolumeWarning(ctx context.Context, employeeID uuid.UUID, entity performance.EntityKind, count, limit int) error {
	return s.Create(ctx, employeeID, TypeDataVolumeWarning,
		"Data volume warning",
		fmt.Sprintf("%d of %d %s records are in use for this employee.", count, limit, entity),
		nil)
}

func (s *Service) ReviewReminder(ctx context.Context, employeeID, reviewID uuid.UUID, reminder performance.ReminderType) error {
	title, body := "Performance review pending", "A performance review is waiting for you."
	switch reminder {
	case performance.ReminderSelfAssessment:
		title, body = "Self-assessment due", "Your self-assessment for a performance review is still pending."
	case performance.ReminderManagerReview:
		title, body = "Manager review due", "A performance review is waiting for your assessment and rating."
	}
	return s.Create(ctx, employeeID, TypeReviewReminder, title, body, &reviewID)
}

func (s *Service) PIPCheckInReminder(ctx context.Context, employeeID, pipID uuid.UUID, due time.Time) error {
	return s.Create(ctx, employeeID, TypePIPCheckIn,
		"PIP check-in",
		fmt.Sprintf("A check-in for your performance improvement plan is due on %s.", due.UTC().Format("2006-01-02")),
		&pipID)
}

var _ performance.Notifier = (*Service)(nil)
