package performance

import "fmt"

type GoalStatus string

const (
	GoalStatusNotStarted GoalStatus = "NotStarted"
	GoalStatusInProgress GoalStatus = "InProgress"
	GoalStatusAtRisk     GoalStatus = "AtRisk"
	GoalStatusCompleted  GoalStatus = "Completed"
	GoalStatusDeferred   GoalStatus = "Deferred"
	GoalStatusCancelled  GoalStatus = "Cancelled"
)

var goalStatuses = []GoalStatus{
	GoalStatusNotStarted,
	GoalStatusInProgress,
	GoalStatusAtRisk,
	GoalStatusCompleted,
	GoalStatusDeferred,
	GoalStatusCancelled,
}

func GoalStatuses() []GoalStatus {
	return append([]GoalStatus(nil), goalStatuses...)
}

func (s GoalStatus) Valid() bool {
	for _, status := range goalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ParseGoalStatus(value string) (GoalStatus, error) {
	status := GoalStatus(value)
	if !status.Valid() {
		return "", validationError(fmt.Sprintf("Unknown goal status %q.", value))
	}
	return status, nil
}

type ReviewStatus string

const (
	ReviewStatusDraft                 ReviewStatus = "Draft"
	ReviewStatusSelfAssessmentPending ReviewStatus = "SelfAssessmentPending"
	ReviewStatusManagerReviewPending  ReviewStatus = "ManagerReviewPending"
	ReviewStatusSubmitted             ReviewStatus = "Submitted"
	ReviewStatusAcknowledged          ReviewStatus = "Acknowledged"
	ReviewStatusCompleted             ReviewStatus = "Completed"
)

var reviewStatuses = []ReviewStatus{
	ReviewStatusDraft,
	ReviewStatusSelfAssessmentPending,
	ReviewStatusManagerReviewPending,
	ReviewStatusSubmitted,
	ReviewStatusAcknowledged,
	ReviewStatusCompleted,
}

func ReviewStatuses() []ReviewStatus {
	return append([]ReviewStatus(nil), reviewStatuses...)
}

func (s ReviewStatus) Valid() bool {
	for _, status := range reviewStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type ReviewCycle string

const (
	ReviewCycleAnnual     ReviewCycle = "Annual"
	ReviewCycleSemiAnnual ReviewCycle = "SemiAnnual"
	ReviewCycleQuarterly  ReviewCycle = "Quarterly"
	ReviewCycleProbation  ReviewCycle = "Probation"
)

func (c ReviewCycle) Valid() bool {
	switch c {
	case ReviewCycleAnnual, ReviewCycleSemiAnnual, ReviewCycleQuarterly, ReviewCycleProbation:
		return true
	}
	return false
}

func ParseReviewCycle(value string) (ReviewCycle, error) {
	cycle := ReviewCycle(value)
	if !cycle.Valid() {
		return "", validationError(fmt.Sprintf("Unknown review cycle %q.", value))
	}
	return cycle, nil
}

// Rating is the ordinal overall rating of a review, 1 (lowest) to 5.
type Rating int

const (
	RatingUnsatisfactory      Rating = 1
	RatingBelowExpectations   Rating = 2
	RatingNeedsImprovement    Rating = 3
	RatingMeetsExpectations   Rating = 4
	RatingExceedsExpectations Rating = 5
)

func (r Rating) Valid() bool {
	return r >= RatingUnsatisfactory && r <= RatingExceedsExpectations
}

func (r Rating) String() string {
	switch r {
	case RatingUnsatisfactory:
		return "Unsatisfactory"
	case RatingBelowExpectations:
		return "BelowExpectations"
	case RatingNeedsImprovement:
		return "NeedsImprovement"
	case RatingMeetsExpectations:
		return "MeetsExpectations"
	case RatingExceedsExpectations:
		return "ExceedsExpectations"
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

type PIPStatus string

const (
	PIPStatusActive     PIPStatus = "Active"
	PIPStatusExtended   PIPStatus = "Extended"
	PIPStatusCompleted  PIPStatus = "Completed"
	PIPStatusTerminated PIPStatus = "Terminated"
)

func (s PIPStatus) Valid() bool {
	switch s {
	case PIPStatusActive, PIPStatusExtended, PIPStatusCompleted, PIPStatusTerminated:
		return true
	}
	return false
}

// Open reports whether the plan still counts as the employee's active PIP.
func (s PIPStatus) Open() bool {
	return s == PIPStatusActive || s == PIPStatusExtended
}

type PIPOutcome string

const (
	PIPOutcomeSuccessful    PIPOutcome = "Successful"
	PIPOutcomeUnsuccessful  PIPOutcome = "Unsuccessful"
	PIPOutcomeExtendedAgain PIPOutcome = "ExtendedAgain"
)

func (o PIPOutcome) Valid() bool {
	switch o {
	case PIPOutcomeSuccessful, PIPOutcomeUnsuccessful, PIPOutcomeExtendedAgain:
		return true
	}
	return false
}

func ParsePIPOutcome(value string) (PIPOutcome, error) {
	outcome := PIPOutcome(value)
	if !outcome.Valid() {
		return "", validationError(fmt.Sprintf("Unknown PIP outcome %q.", value))
	}
	return outcome, nil
}

type FeedbackType string

const (
	FeedbackTypeManager      FeedbackType = "Manager"
	FeedbackTypePeer         FeedbackType = "Peer"
	FeedbackTypeDirectReport FeedbackType = "DirectReport"
	FeedbackTypeSelf         FeedbackType = "Self"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackTypeManager, FeedbackTypePeer, FeedbackTypeDirectReport, FeedbackTypeSelf:
		return true
	}
	return false
}

func ParseFeedbackType(value string) (FeedbackType, error) {
	ft := FeedbackType(value)
	if !ft.Valid() {
		return "", validationError(fmt.Sprintf("Unknown feedback type %q.", value))
	}
	return ft, nil
}

// ReminderType tells the notifier which step of a review is overdue.
type ReminderType string

const (
	ReminderSelfAssessment ReminderType = "SelfAssessment"
	ReminderManagerReview  ReminderType = "ManagerReview"
)

// EntityKind names a volume-limited collection in warnings and metrics.
type EntityKind string

const (
	EntityGoal     EntityKind = "Goal"
	EntityReview   EntityKind = "PerformanceReview"
	EntityFeedback EntityKind = "ReviewFeedback"
)

const (
	progressTimestampLayout = "2006-01-02 15:04:05"
	defaultGoalPageSize     = 50
	maxGoalPageSize         = 100
)
