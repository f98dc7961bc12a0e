package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID                   uuid.UUID  `json:"id"`
	EmployeeID           uuid.UUID  `json:"employee_id"`
	ReviewID             *uuid.UUID `json:"performance_review_id,omitempty"`
	Description          string     `json:"description"`
	SuccessCriteria      string     `json:"success_criteria,omitempty"`
	TargetCompletionDate time.Time  `json:"target_completion_date"`
	Status               GoalStatus `json:"current_status"`
	ProgressUpdates      string     `json:"progress_updates,omitempty"`
	CompletionDate       *time.Time `json:"completion_date,omitempty"`
	CreatedAt            time.Time  `json:"created_date"`
	UpdatedAt            time.Time  `json:"modified_date"`
}

type Review struct {
	ID                uuid.UUID    `json:"id"`
	EmployeeID        uuid.UUID    `json:"employee_id"`
	ReviewerID        uuid.UUID    `json:"reviewer_id"`
	Cycle             ReviewCycle  `json:"review_cycle"`
	PeriodStart       time.Time    `json:"review_period_start"`
	PeriodEnd         time.Time    `json:"review_period_end"`
	SelfAssessment    string       `json:"self_assessment,omitempty"`
	ManagerAssessment string       `json:"manager_assessment,omitempty"`
	OverallRating     *Rating      `json:"overall_rating,omitempty"`
	Status            ReviewStatus `json:"status"`
	SubmittedAt       *time.Time   `json:"submitted_date,omitempty"`
	AcknowledgedAt    *time.Time   `json:"acknowledged_date,omitempty"`
	Archived          bool         `json:"is_archived"`
	CreatedAt         time.Time    `json:"created_date"`
	UpdatedAt         time.Time    `json:"modified_date"`
}

// Overlaps reports whether the review period intersects [start, end).
func (r Review) Overlaps(start, end time.Time) bool {
	return r.PeriodStart.Before(end) && start.Before(r.PeriodEnd)
}

type PIP struct {
	ID               uuid.UUID   `json:"id"`
	EmployeeID       uuid.UUID   `json:"employee_id"`
	InitiatorID      uuid.UUID   `json:"initiator_id"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          time.Time   `json:"end_date"`
	Reason           string      `json:"reason"`
	ImprovementAreas string      `json:"improvement_areas"`
	SuccessCriteria  string      `json:"success_criteria"`
	CheckInNotes     string      `json:"check_in_notes,omitempty"`
	Status           PIPStatus   `json:"status"`
	Outcome          *PIPOutcome `json:"outcome,omitempty"`
	ExtensionCount   int         `json:"extension_count"`
	CreatedAt        time.Time   `json:"created_date"`
	UpdatedAt        time.Time   `json:"modified_date"`
}

type Feedback struct {
	ID          uuid.UUID    `json:"id"`
	ReviewID    uuid.UUID    `json:"performance_review_id"`
	ProviderID  uuid.UUID    `json:"provider_id"`
	Type        FeedbackType `json:"feedback_type"`
	Text        string       `json:"feedback"`
	Anonymous   bool         `json:"is_anonymous"`
	SubmittedAt time.Time    `json:"submitted_date"`
}

// FeedbackGroup is the read view of all visible feedback of one type.
type FeedbackGroup struct {
	Type    FeedbackType `json:"feedback_type"`
	Entries []Feedback   `json:"entries"`
}

type GoalPage struct {
	Goals      []Goal     `json:"goals"`
	NextCursor *uuid.UUID `json:"next_cursor,omitempty"`
}

type PerformanceSummary struct {
	EmployeeID         uuid.UUID      `json:"employee_id"`
	GoalsTotal         int            `json:"goals_total"`
	GoalsCompleted     int            `json:"goals_completed"`
	GoalsAtRisk        int            `json:"goals_at_risk"`
	ReviewsTotal       int            `json:"reviews_total"`
	ReviewsClosed      int            `json:"reviews_closed"`
	ReviewClosureRate  float64        `json:"review_closure_rate"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	ActivePIP          *uuid.UUID     `json:"active_pip_id,omitempty"`
}

// appendLogEntry adds a UTC timestamped line to an append-only text log.
func appendLogEntry(log, text string, at time.Time) string {
	line := fmt.Sprintf("[%s] %s", at.UTC().Format(progressTimestampLayout), strings.TrimSpace(text))
	if log == "" {
		return line
	}
	return log + "\n" + line
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
