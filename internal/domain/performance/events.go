package performance

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of a completed workflow step.
type Event interface {
	EventName() string
	AggregateID() uuid.UUID
}

const (
	EventGoalCompleted      = "performance.goal.completed"
	EventReviewCreated      = "performance.review.created"
	EventReviewAcknowledged = "performance.review.acknowledged"
	EventPIPInitiated       = "performance.pip.initiated"
	EventPIPCompleted       = "performance.pip.completed"
)

type GoalCompletedEvent struct {
	GoalID         uuid.UUID `json:"goal_id"`
	EmployeeID     uuid.UUID `json:"employee_id"`
	Description    string    `json:"description"`
	CompletionDate time.Time `json:"completion_date"`
}

func (GoalCompletedEvent) EventName() string { return EventGoalCompleted }
func (e GoalCompletedEvent) AggregateID() uuid.UUID { return e.GoalID }

type ReviewCreatedEvent struct {
	ReviewID    uuid.UUID   `json:"review_id"`
	EmployeeID  uuid.UUID   `json:"employee_id"`
	ReviewerID  uuid.UUID   `json:"reviewer_id"`
	Cycle       ReviewCycle `json:"review_cycle"`
	PeriodStart time.Time   `json:"review_period_start"`
	PeriodEnd   time.Time   `json:"review_period_end"`
}

func (ReviewCreatedEvent) EventName() string { return EventReviewCreated }
func (e ReviewCreatedEvent) AggregateID() uuid.UUID { return e.ReviewID }

type ReviewAcknowledgedEvent struct {
	ReviewID         uuid.UUID `json:"review_id"`
	EmployeeID       uuid.UUID `json:"employee_id"`
	OverallRating    *Rating   `json:"overall_rating,omitempty"`
	AcknowledgedDate time.Time `json:"acknowledged_date"`
}

func (ReviewAcknowledgedEvent) EventName() string { return EventReviewAcknowledged }
func (e ReviewAcknowledgedEvent) AggregateID() uuid.UUID { return e.ReviewID }

type PIPInitiatedEvent struct {
	PIPID       uuid.UUID `json:"pip_id"`
	EmployeeID  uuid.UUID `json:"employee_id"`
	InitiatorID uuid.UUID `json:"initiator_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Reason      string    `json:"reason"`
}

func (PIPInitiatedEvent) EventName() string { return EventPIPInitiated }
func (e PIPInitiatedEvent) AggregateID() uuid.UUID { return e.PIPID }

type PIPCompletedEvent struct {
	PIPID         uuid.UUID  `json:"pip_id"`
	EmployeeID    uuid.UUID  `json:"employee_id"`
	Outcome       PIPOutcome `json:"outcome"`
	CompletedDate time.Time  `json:"completed_date"`
}

func (PIPCompletedEvent) EventName() string { return EventPIPCompleted }
func (e PIPCompletedEvent) AggregateID() uuid.UUID { return e.PIPID }
