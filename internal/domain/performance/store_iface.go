package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stores return ErrNotFound when a lookup by id does not resolve.

type GoalStore interface {
	GetGoal(ctx context.Context, id uuid.UUID) (Goal, error)
	ListGoals(ctx context.Context, employeeID uuid.UUID, after *uuid.UUID, limit int) ([]Goal, error)
	CountGoals(ctx context.Context, employeeID uuid.UUID) (int, error)
	CreateGoal(ctx context.Context, goal Goal) error
	UpdateGoal(ctx context.Context, goal Goal) error
}

type ReviewStore interface {
	GetReview(ctx context.Context, id uuid.UUID) (Review, error)
	ListReviews(ctx context.Context, employeeID uuid.UUID) ([]Review, error)
	ListReviewsByStatus(ctx context.Context, statuses ...ReviewStatus) ([]Review, error)
	ListReviewsCreatedBefore(ctx context.Context, cutoff time.Time) ([]Review, error)
	CountReviews(ctx context.Context, employeeID uuid.UUID) (int, error)
	ExistsOverlappingReview(ctx context.Context, employeeID uuid.UUID, cycle ReviewCycle, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	CreateReview(ctx context.Context, review Review) error
	UpdateReview(ctx context.Context, review Review) error
}

type PIPStore interface {
	GetPIP(ctx context.Context, id uuid.UUID) (PIP, error)
	ListPIPs(ctx context.Context, employeeID uuid.UUID) ([]PIP, error)
	ListOpenPIPs(ctx context.Context) ([]PIP, error)
	// ActivePIP returns the employee's Active or Extended plan, if any.
	ActivePIP(ctx context.Context, employeeID uuid.UUID) (PIP, bool, error)
	// CreatePIP returns ErrStateConflict when the employee already has an
	// open plan at write time.
	CreatePIP(ctx context.Context, pip PIP) error
	UpdatePIP(ctx context.Context, pip PIP) error
}

type FeedbackStore interface {
	// ListFeedback returns the review's feedback newest first.
	ListFeedback(ctx context.Context, reviewID uuid.UUID) ([]Feedback, error)
	CountFeedbackForEmployee(ctx context.Context, employeeID uuid.UUID) (int, error)
	CountFeedbackByType(ctx context.Context, reviewID uuid.UUID, feedbackType FeedbackType) (int, error)
	CreateFeedback(ctx context.Context, feedback Feedback) error
}

type Stores struct {
	Goals    GoalStore
	Reviews  ReviewStore
	PIPs     PIPStore
	Feedback FeedbackStore
}

type EmployeeDirectory interface {
	Exists(ctx context.Context, employeeID uuid.UUID) (bool, error)
}

// Notifier delivers side-effect alerts. Failures are logged by the caller
// and never fail the command that triggered them.
type Notifier interface {
	GoalAtRisk(ctx context.Context, employeeID, goalID uuid.UUID) error
	DataVolumeWarning(ctx context.Context, employeeID uuid.UUID, entity EntityKind, count, limit int) error
	ReviewReminder(ctx context.Context, employeeID, reviewID uuid.UUID, reminder ReminderType) error
	PIPCheckInReminder(ctx context.Context, employeeID, pipID uuid.UUID, due time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Anonymizer maps a provider id to a stable one-way replacement.
type Anonymizer interface {
	Anonymize(id uuid.UUID) uuid.UUID
}

type MetricsRecorder interface {
	Transition(entity, from, to string)
	VolumeWarning(entity EntityKind)
	VolumeRejected(entity EntityKind)
}

type noopNotifier struct{}

func (noopNotifier) GoalAtRisk(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (noopNotifier) DataVolumeWarning(context.Context, uuid.UUID, EntityKind, int, int) error {
	return nil
}
func (noopNotifier) ReviewReminder(context.Context, uuid.UUID, uuid.UUID, ReminderType) error {
	return nil
}
func (noopNotifier) PIPCheckInReminder(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

type noopMetrics struct{}

func (noopMetrics) Transition(string, string, string) {}
func (noopMetrics) VolumeWarning(EntityKind) {}
func (noopMetrics) VolumeRejected(EntityKind) {}
